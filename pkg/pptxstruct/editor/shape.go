package editor

import (
	"fmt"
	"unicode/utf8"

	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
)

// ReplaceShapeText replaces every paragraph of a shape's text body with the
// given records. With AutoShrink, paragraphs too wide for the shape get a
// reduced font size; otherwise, and when shrinking cannot help, an overflow
// warning is reported. Warnings are located at slide/shape.
func ReplaceShapeText(pos parser.Positioned, paragraphs []models.Paragraph, slide, shape int, opts Options) []string {
	var warnings []string
	loc := models.Location(slide, shape)

	txBody := pos.TextBody()
	if txBody == nil {
		return []string{fmt.Sprintf("%s: shape has no text body", loc)}
	}
	for _, p := range parser.Children(txBody, "p") {
		txBody.RemoveChild(p)
	}

	widthIn := parser.ToInches(pos.Width)
	if pos.Width <= 0 {
		widthIn = opts.FallbackWidth
	}

	if len(paragraphs) == 0 {
		txBody.CreateElement("a:p")
		return nil
	}

	for i, para := range paragraphs {
		p := txBody.CreateElement("a:p")

		if para.Text != "" {
			original := fontSize(para, opts)
			if size, shrunk := shrink(para.Text, widthIn, original, opts); shrunk {
				warnings = append(warnings, fmt.Sprintf("Auto-shrink: %s para[%d] (%.0fpt → %.0fpt)", loc, i, original, size))
				para = withFontSize(para, size)
			} else if estimated, overflows := parser.CheckOverflow(para.Text, widthIn, original, opts.WarnMargin); overflows {
				warnings = append(warnings, fmt.Sprintf("Overflow risk: %s (text: %d chars, estimated: %.1fin > width: %.1fin)",
					loc, utf8.RuneCountInString(parser.LongestLine(para.Text)), estimated, widthIn))
			}
		}

		warnings = append(warnings, ApplyParagraph(p, para, opts, fmt.Sprintf("%s para[%d]", loc, i))...)
	}
	return warnings
}

// shrink returns the auto-shrink font size and whether it is smaller than original.
func shrink(text string, widthIn, original float64, opts Options) (float64, bool) {
	if !opts.AutoShrink {
		return original, false
	}
	size := parser.FitFontSize(text, widthIn, original, opts.MinFontSize, opts.ShrinkMargin)
	return size, size < original
}

func withFontSize(para models.Paragraph, size float64) models.Paragraph {
	para.FontSize = &size
	return para
}
