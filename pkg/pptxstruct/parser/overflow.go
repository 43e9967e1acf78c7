package parser

import (
	"math"

	"github.com/beevik/etree"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
)

const (
	// LineHeightFactor is the rendered line height relative to the font size.
	LineHeightFactor = 1.2
	// OverflowTolerance is the bottom overflow in inches below which no overflow is reported.
	OverflowTolerance = 0.05
)

// Default a:bodyPr insets in EMU.
const (
	defaultInsetLeftRight = 91440
	defaultInsetTopBottom = 45720
)

// TextArea is the region of a shape available to text, in inches.
type TextArea struct {
	Width, Height float64
	// AutoFit is true when the text body shrinks text or grows the shape to fit.
	AutoFit bool
}

// ShapeTextArea returns the shape size minus the text body insets.
func ShapeTextArea(pos Positioned) TextArea {
	bodyPr := Child(pos.TextBody(), "bodyPr")
	area := TextArea{
		Width:  ToInches(pos.Width - inset(bodyPr, "lIns", defaultInsetLeftRight) - inset(bodyPr, "rIns", defaultInsetLeftRight)),
		Height: ToInches(pos.Height - inset(bodyPr, "tIns", defaultInsetTopBottom) - inset(bodyPr, "bIns", defaultInsetTopBottom)),
	}
	area.AutoFit = Child(bodyPr, "normAutofit") != nil || Child(bodyPr, "spAutoFit") != nil
	return area
}

func inset(bodyPr *etree.Element, name string, dflt int64) int64 {
	if v, ok := AttrInt(bodyPr, name); ok {
		return v
	}
	return dflt
}

// EstimateTextHeight estimates the rendered height in inches of paragraphs
// wrapped to the given width. Paragraphs without a font size use defaultPt.
func EstimateTextHeight(paragraphs []models.Paragraph, widthIn, defaultPt float64) float64 {
	total := 0.0
	for _, p := range paragraphs {
		size := defaultPt
		if p.FontSize != nil {
			size = *p.FontSize
		}
		lines := 1
		if widthIn > 0 {
			if n := int(math.Ceil(EstimateTextWidth(p.Text, size) / widthIn)); n > lines {
				lines = n
			}
		}
		total += float64(lines) * size * LineHeightFactor / 72
		if p.SpaceBefore != nil {
			total += *p.SpaceBefore / 72
		}
		if p.SpaceAfter != nil {
			total += *p.SpaceAfter / 72
		}
	}
	return total
}

// OverflowBottom returns how far the estimated text height exceeds the text
// area, or false when it fits, the area autofits, or the excess is within
// OverflowTolerance.
func OverflowBottom(paragraphs []models.Paragraph, area TextArea, defaultPt float64) (float64, bool) {
	if area.AutoFit || area.Height <= 0 {
		return 0, false
	}
	excess := EstimateTextHeight(paragraphs, area.Width, defaultPt) - area.Height
	if excess <= OverflowTolerance {
		return 0, false
	}
	return Round2(excess), true
}
