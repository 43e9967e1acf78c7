package parser

import (
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
)

// DefaultFontSize is the font size in points assumed for text without an explicit size.
const DefaultFontSize = 18.0

// ExtractSlide returns the inventory shapes of one slide in ordinal order,
// with overlap and bottom-overflow diagnostics attached.
func ExtractSlide(ctx SlideContext, defaultFontSize float64) []models.Shape {
	positioned := SlideShapes(ctx)
	overlaps := DetectOverlaps(positioned)

	shapes := make([]models.Shape, 0, len(positioned))
	for _, pos := range positioned {
		shape := BuildShape(pos)

		if others, ok := overlaps[pos.Ordinal]; ok {
			shape.Overlap = &models.Overlap{OverlappingShapes: others}
		}

		size := defaultFontSize
		if shape.DefaultFontSize != nil {
			size = *shape.DefaultFontSize
		}
		if excess, ok := OverflowBottom(shape.Paragraphs, ShapeTextArea(pos), size); ok {
			shape.OverflowBottom = &excess
		}

		shapes = append(shapes, shape)
	}
	return shapes
}

// BuildShape converts a positioned shape into its inventory record.
func BuildShape(pos Positioned) models.Shape {
	shape := models.Shape{
		Ordinal:         pos.Ordinal,
		Left:            Round2(ToInches(pos.Left)),
		Top:             Round2(ToInches(pos.Top)),
		Width:           Round2(ToInches(pos.Width)),
		Height:          Round2(ToInches(pos.Height)),
		PlaceholderType: pos.Placeholder.String(),
		Paragraphs:      ReadParagraphs(pos.TextBody()),
	}

	for _, p := range shape.Paragraphs {
		if p.FontSize != nil {
			size := *p.FontSize
			shape.DefaultFontSize = &size
			break
		}
	}
	return shape
}
