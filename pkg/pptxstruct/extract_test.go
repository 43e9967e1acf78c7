package pptxstruct

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pptxstruct-go/internal/pptxtest"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
)

// sampleDeck has a title, a group and a box on slide 0, a picture and no
// text on slide 1 and two overlapping boxes on slide 2.
func sampleDeck() pptxtest.Deck {
	return pptxtest.Deck{
		Slides: []pptxtest.Slide{
			{
				Layout: pptxtest.LayoutTitleAndContent,
				Shapes: []string{
					pptxtest.TextBox(3, 1, 4, 8, 1, pptxtest.P("bottom")),
					pptxtest.Placeholder(2, "title", 0, pptxtest.P("Quarterly review")),
					pptxtest.Rect(5, 0, 0, 2, 2),
					pptxtest.Group(6, 0, 2,
						pptxtest.TextBox(7, 5, 0, 3, 1, pptxtest.SizedP("right", 14)),
						pptxtest.TextBox(8, 1, 0, 3, 1, pptxtest.BulletP("left", 1)),
					),
					pptxtest.Placeholder(9, "sldNum", 12, pptxtest.P("1")),
				},
				Notes: "speaker notes",
			},
			{
				Shapes: []string{
					pptxtest.Rect(2, 1, 1, 2, 2),
					pptxtest.TextBox(3, 1, 3, 2, 1),
					pptxtest.Picture(4, pptxtest.ImageRelID(0), 4, 1, 3, 3),
				},
				Images: 1,
			},
			{
				Shapes: []string{
					pptxtest.TextBox(2, 1, 1, 4, 2, pptxtest.P("first")),
					pptxtest.TextBox(3, 3, 2, 4, 2, pptxtest.P("second")),
					pptxtest.TextBox(4, 1, 5, 4, 1, pptxtest.P("alone")),
				},
			},
		},
	}
}

func texts(shapes []models.Shape) []string {
	var out []string
	for _, s := range shapes {
		var text string
		for i, p := range s.Paragraphs {
			if i > 0 {
				text += "\n"
			}
			text += p.Text
		}
		out = append(out, text)
	}
	return out
}

func TestExtract(t *testing.T) {
	path := pptxtest.WriteFile(t, sampleDeck())
	inv, err := Extract(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, inv.Slides, 2, "slides without text shapes are omitted")
	assert.Equal(t, 0, inv.Slides[0].Index)
	assert.Equal(t, 2, inv.Slides[1].Index)

	first := inv.Slides[0].Shapes
	assert.Equal(t, []string{"Quarterly review", "left", "right", "bottom"}, texts(first))
	for i, s := range first {
		assert.Equal(t, i, s.Ordinal)
	}

	title := first[0]
	assert.Equal(t, "TITLE", title.PlaceholderType)
	assert.Equal(t, 0.5, title.Left)
	assert.Equal(t, 0.5, title.Top)
	assert.Equal(t, 9.0, title.Width)

	assert.Equal(t, 1.0, first[1].Left)
	assert.Equal(t, 2.0, first[1].Top)
	assert.True(t, first[1].Paragraphs[0].Bullet)
	assert.Equal(t, 1, first[1].Paragraphs[0].Level)
	require.NotNil(t, first[2].DefaultFontSize)
	assert.Equal(t, 14.0, *first[2].DefaultFontSize)

	second := inv.Slides[1].Shapes
	assert.Equal(t, []string{"first", "second", "alone"}, texts(second))
	require.NotNil(t, second[0].Overlap)
	assert.InDelta(t, 2.0, second[0].Overlap.OverlappingShapes[1], 1e-9)
	require.NotNil(t, second[1].Overlap)
	assert.InDelta(t, 2.0, second[1].Overlap.OverlappingShapes[0], 1e-9)
	assert.Nil(t, second[2].Overlap)
}

func TestExtractIssuesOnly(t *testing.T) {
	path := pptxtest.WriteFile(t, sampleDeck())
	opts := DefaultOptions()
	opts.Mode = ModeIssues

	inv, err := Extract(path, opts)
	require.NoError(t, err)
	require.Len(t, inv.Slides, 1)
	assert.Equal(t, 2, inv.Slides[0].Index)

	shapes := inv.Slides[0].Shapes
	require.Len(t, shapes, 2)
	assert.Equal(t, []int{0, 1}, []int{shapes[0].Ordinal, shapes[1].Ordinal})
}

func TestExtractIsStable(t *testing.T) {
	path := pptxtest.WriteFile(t, sampleDeck())
	a, err := Extract(path, DefaultOptions())
	require.NoError(t, err)
	b, err := Extract(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.pptx"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound), "got %v", err)
}
