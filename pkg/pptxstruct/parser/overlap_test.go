package parser

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pptxstruct-go/internal/pptxtest"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
)

func TestIntersectionArea(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected float64
	}{
		{"partial", Box{0, 0, 2, 2}, Box{1, 1, 2, 2}, 1},
		{"contained", Box{0, 0, 4, 4}, Box{1, 1, 1, 1}, 1},
		{"touching edges", Box{0, 0, 1, 1}, Box{1, 0, 1, 1}, 0},
		{"disjoint", Box{0, 0, 1, 1}, Box{3, 3, 1, 1}, 0},
		{"zero width", Box{0, 0, 0, 2}, Box{0, 0, 2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IntersectionArea(tt.a, tt.b); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("IntersectionArea(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
			if forward, backward := IntersectionArea(tt.a, tt.b), IntersectionArea(tt.b, tt.a); forward != backward {
				t.Errorf("IntersectionArea is not symmetric: %v != %v", forward, backward)
			}
		})
	}
}

func TestDetectOverlapsSymmetric(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.TextBox(2, 0, 0, 2, 2, pptxtest.P("a")),
		pptxtest.TextBox(3, 1, 1, 2, 2, pptxtest.P("b")),
		pptxtest.TextBox(4, 1.5, 0.5, 0.5, 3, pptxtest.P("c")),
		pptxtest.TextBox(5, 6, 6, 1, 1, pptxtest.P("alone")),
	)
	shapes := SlideShapes(ctx)
	overlaps := DetectOverlaps(shapes)

	for a, others := range overlaps {
		for b, area := range others {
			assert.Greater(t, area, 0.0)
			assert.Equal(t, area, overlaps[b][a], "overlap %d/%d", a, b)
		}
	}

	alone := shapes[len(shapes)-1]
	require.Equal(t, "alone", TextBodyText(alone.TextBody()))
	assert.NotContains(t, overlaps, alone.Ordinal)
}

func TestExtractSlideDiagnostics(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.TextBox(2, 0, 0, 2, 2, pptxtest.SizedP("first", 24)),
		pptxtest.TextBox(3, 1, 1, 2, 2, pptxtest.P("second")),
		pptxtest.TextBox(4, 0, 4, 1, 0.3, pptxtest.P("a rather long sentence that wraps over several lines")),
	)
	shapes := ExtractSlide(ctx, DefaultFontSize)
	require.Len(t, shapes, 3)

	require.NotNil(t, shapes[0].Overlap)
	assert.Equal(t, map[int]float64{1: 1}, shapes[0].Overlap.OverlappingShapes)
	require.NotNil(t, shapes[1].Overlap)
	assert.Equal(t, map[int]float64{0: 1}, shapes[1].Overlap.OverlappingShapes)

	require.NotNil(t, shapes[0].DefaultFontSize)
	assert.Equal(t, 24.0, *shapes[0].DefaultFontSize)
	assert.Nil(t, shapes[0].OverflowBottom)

	assert.Nil(t, shapes[2].Overlap)
	require.NotNil(t, shapes[2].OverflowBottom)
	assert.Greater(t, *shapes[2].OverflowBottom, 0.0)
	assert.Empty(t, shapes[2].PlaceholderType)
}

func TestOverflowBottom(t *testing.T) {
	size := 18.0
	para := []models.Paragraph{{Text: "one line", FontSize: &size}}

	tests := []struct {
		name string
		area TextArea
		fits bool
	}{
		{"roomy", TextArea{Width: 5, Height: 1}, true},
		{"within tolerance", TextArea{Width: 5, Height: 0.26}, true},
		{"too short", TextArea{Width: 5, Height: 0.1}, false},
		{"autofit", TextArea{Width: 5, Height: 0.1, AutoFit: true}, true},
		{"no height", TextArea{Width: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, overflows := OverflowBottom(para, tt.area, DefaultFontSize)
			assert.Equal(t, !tt.fits, overflows)
		})
	}
}

func TestEstimateTextHeight(t *testing.T) {
	before, after := 6.0, 12.0
	paragraphs := []models.Paragraph{
		{Text: "x"},
		{Text: "y", SpaceBefore: &before, SpaceAfter: &after},
	}
	expected := 2*18*LineHeightFactor/72 + 18.0/72
	assert.InDelta(t, expected, EstimateTextHeight(paragraphs, 5, 18), 1e-9)

	// 40 narrow characters at 18pt are 5in wide: two lines in 2.5in.
	wrapped := []models.Paragraph{{Text: strings.Repeat("x", 40)}}
	assert.InDelta(t, 2*18*LineHeightFactor/72, EstimateTextHeight(wrapped, 2.5, 18), 1e-9)
}
