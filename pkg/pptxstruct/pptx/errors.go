package pptx

import "errors"

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid pptx package.
var ErrInvalidFormat = errors.New("invalid pptx format")

// ErrEncrypted indicates the input is a password-protected presentation.
var ErrEncrypted = errors.New("presentation is encrypted")

// ErrLegacyFormat indicates the input is a PowerPoint 97-2003 binary file.
var ErrLegacyFormat = errors.New("legacy binary presentation (.ppt)")
