// Package pptxstruct extracts the text inventory of PowerPoint files and
// applies replacement content addressed by slide index and shape ordinal.
package pptxstruct

import (
	"os"

	"github.com/pkg/errors"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/editor"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
	"gopkg.in/yaml.v3"
)

// Mode represents the extraction mode.
type Mode string

const (
	// ModeStandard extracts every text shape.
	ModeStandard Mode = "standard"
	// ModeIssues extracts only shapes with overlap or overflow diagnostics.
	ModeIssues Mode = "issues"
)

// Options configures extraction, application and validation.
type Options struct {
	// Mode specifies the extraction mode (standard, issues).
	Mode Mode `yaml:"mode"`
	// DefaultFontSize is assumed for text without an explicit size, in points.
	DefaultFontSize float64 `yaml:"default_font_size"`
	// MinFontSize is the smallest size auto-shrink goes down to.
	MinFontSize  float64 `yaml:"min_font_size"`
	ShrinkMargin float64 `yaml:"shrink_margin"`
	WarnMargin   float64 `yaml:"warn_margin"`
	// FallbackWidth is the shape width in inches used when a shape has none.
	FallbackWidth float64 `yaml:"fallback_width"`
	BulletChar    string  `yaml:"bullet_char"`
	// AutoShrink specifies whether overflowing paragraphs are shrunk.
	// If nil, defaults to true.
	AutoShrink *bool `yaml:"auto_shrink"`

	Summary    SummaryOptions    `yaml:"summary"`
	Validation ValidationOptions `yaml:"validation"`
}

// SummaryOptions holds defaults of the agenda slide.
type SummaryOptions struct {
	// Title is used when the summary directive has none.
	Title string `yaml:"title"`
	// Position is the 0-based slide position the summary is inserted at.
	Position int `yaml:"position"`
	// Color is used when the summary directive has none: six hex digits or "auto".
	Color string `yaml:"color"`
}

// ValidationOptions holds validation thresholds.
type ValidationOptions struct {
	MaxTextLength int `yaml:"max_text_length"`
	MaxParagraphs int `yaml:"max_paragraphs"`
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	eopts := editor.DefaultOptions()
	return Options{
		Mode:            ModeStandard,
		DefaultFontSize: parser.DefaultFontSize,
		MinFontSize:     eopts.MinFontSize,
		ShrinkMargin:    eopts.ShrinkMargin,
		WarnMargin:      eopts.WarnMargin,
		FallbackWidth:   eopts.FallbackWidth,
		BulletChar:      eopts.BulletChar,
		Summary: SummaryOptions{
			Title:    "Agenda",
			Position: 1,
			Color:    "auto",
		},
		Validation: ValidationOptions{
			MaxTextLength: 500,
			MaxParagraphs: 15,
		},
	}
}

// LoadConfig reads a YAML file over the default options. An empty path
// returns the defaults.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrapf(ErrFileNotFound, "config %s", path)
		}
		return opts, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parsing config %s", path)
	}
	return opts, nil
}

// ShouldAutoShrink returns whether overflowing paragraphs are shrunk.
func (o Options) ShouldAutoShrink() bool {
	if o.AutoShrink != nil {
		return *o.AutoShrink
	}
	return true
}

// IssuesOnly returns whether extraction keeps only shapes with diagnostics.
func (o Options) IssuesOnly() bool {
	return o.Mode == ModeIssues
}

// EditorOptions returns the paragraph writer settings.
func (o Options) EditorOptions() editor.Options {
	return editor.Options{
		BulletChar:      o.BulletChar,
		DefaultFontSize: o.fontSize(),
		MinFontSize:     o.MinFontSize,
		ShrinkMargin:    o.ShrinkMargin,
		WarnMargin:      o.WarnMargin,
		FallbackWidth:   o.FallbackWidth,
		AutoShrink:      o.ShouldAutoShrink(),
	}
}

func (o Options) fontSize() float64 {
	if o.DefaultFontSize > 0 {
		return o.DefaultFontSize
	}
	return parser.DefaultFontSize
}
