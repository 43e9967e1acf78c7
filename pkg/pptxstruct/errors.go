package pptxstruct

import (
	"fmt"

	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = pptx.ErrFileNotFound

// ErrInvalidFormat indicates the input file is not a valid pptx package.
var ErrInvalidFormat = pptx.ErrInvalidFormat

// ErrEncrypted indicates the input is a password-protected presentation.
var ErrEncrypted = pptx.ErrEncrypted

// ErrLegacyFormat indicates the input is a PowerPoint 97-2003 binary file.
var ErrLegacyFormat = pptx.ErrLegacyFormat

// ExtractionError represents a per-slide failure. It is logged and the slide skipped.
type ExtractionError struct {
	Slide     int
	Component string // "slide", "layout", "shapes", "notes"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error in slide-%d (%s): %v", e.Slide, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(slide int, component string, err error) *ExtractionError {
	return &ExtractionError{
		Slide:     slide,
		Component: component,
		Err:       err,
	}
}
