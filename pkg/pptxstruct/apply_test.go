package pptxstruct

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pptxstruct-go/internal/pptxtest"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

func writeReplacements(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replacements.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func applyAndExtract(t *testing.T, deck pptxtest.Deck, doc string) (*models.ApplyResult, *models.Inventory) {
	t.Helper()
	input := pptxtest.WriteFile(t, deck)
	output := filepath.Join(t.TempDir(), "out.pptx")

	result, err := Apply(input, writeReplacements(t, doc), output, DefaultOptions())
	require.NoError(t, err)

	inv, err := Extract(output, DefaultOptions())
	require.NoError(t, err)
	return result, inv
}

func TestApplyReplacesByOrdinal(t *testing.T) {
	result, inv := applyAndExtract(t, sampleDeck(), `{
		"slide-0": {
			"shape-0": {"paragraphs": [{"text": "Annual review", "bold": true}]},
			"shape-2": {"paragraphs": [{"text": "one"}, {"text": "two", "bullet": true, "level": 1}]},
			"shape-3": {}
		},
		"slide-2": {"shape-1": {"paragraphs": [{"text": "replaced", "color": "C00000"}]}}
	}`)

	assert.Equal(t, 3, result.Modified)
	assert.Equal(t, 2, result.Slides)
	assert.Equal(t, 3, result.FinalSlideCount)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, []string{"Annual review", "left", "one\ntwo", "bottom"}, texts(inv.Slides[0].Shapes))
	assert.Equal(t, []string{"first", "replaced", "alone"}, texts(inv.Slides[1].Shapes))

	title := inv.Slides[0].Shapes[0].Paragraphs[0]
	require.NotNil(t, title.Bold)
	assert.True(t, *title.Bold)
	assert.Equal(t, "C00000", inv.Slides[1].Shapes[1].Paragraphs[0].Color)

	two := inv.Slides[0].Shapes[2].Paragraphs[1]
	assert.True(t, two.Bullet)
	assert.Equal(t, 1, two.Level)
}

func TestApplyInventoryRoundTrip(t *testing.T) {
	input := pptxtest.WriteFile(t, sampleDeck())
	before, err := Extract(input, DefaultOptions())
	require.NoError(t, err)

	data, err := json.Marshal(before)
	require.NoError(t, err)
	output := filepath.Join(t.TempDir(), "out.pptx")
	result, err := Apply(input, writeReplacements(t, string(data)), output, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, before.ShapeCount(), result.Modified)

	after, err := Extract(output, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, after.Slides, len(before.Slides))
	for i := range before.Slides {
		assert.Equal(t, before.Slides[i].Index, after.Slides[i].Index)
		assert.Equal(t, texts(before.Slides[i].Shapes), texts(after.Slides[i].Shapes))
		for j, shape := range before.Slides[i].Shapes {
			got := after.Slides[i].Shapes[j]
			assert.Equal(t, shape.Ordinal, got.Ordinal)
			assert.Equal(t, []float64{shape.Left, shape.Top, shape.Width, shape.Height},
				[]float64{got.Left, got.Top, got.Width, got.Height})
		}
	}
}

func TestApplyOutOfRange(t *testing.T) {
	result, inv := applyAndExtract(t, sampleDeck(), `{
		"slide-9": {"shape-0": {"paragraphs": [{"text": "nowhere"}]}},
		"slide-0": {"shape-7": {"paragraphs": [{"text": "nowhere"}]}},
		"slide-x": {}
	}`)

	assert.Equal(t, 0, result.Modified)
	assert.Equal(t, []string{
		"Invalid slide key 'slide-x'",
		"slide-0.shape-7: shape index 7 out of range",
		"slide-9: slide index 9 out of range",
	}, result.Warnings)
	assert.Equal(t, "Quarterly review", inv.Slides[0].Shapes[0].Paragraphs[0].Text)
}

func TestApplyAutoShrink(t *testing.T) {
	deck := pptxtest.Deck{Slides: []pptxtest.Slide{
		{Shapes: []string{pptxtest.TextBox(2, 0, 0, 1, 1, pptxtest.P("x"))}},
	}}
	doc := `{"slide-0": {"shape-0": {"paragraphs": [{"text": "nnnnnnnnnnnnnnnnnnnn"}]}}}`

	result, inv := applyAndExtract(t, deck, doc)
	assert.Equal(t, []string{"Auto-shrink: slide-0.shape-0 para[0] (18pt → 12pt)"}, result.Warnings)
	assert.Equal(t, 12.0, *inv.Slides[0].Shapes[0].Paragraphs[0].FontSize)

	input := pptxtest.WriteFile(t, deck)
	opts := DefaultOptions()
	off := false
	opts.AutoShrink = &off
	result, err := Apply(input, writeReplacements(t, doc), filepath.Join(t.TempDir(), "out.pptx"), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Overflow risk: slide-0.shape-0")
}

func TestApplyKeepsInput(t *testing.T) {
	input := pptxtest.WriteFile(t, sampleDeck())
	original, err := os.ReadFile(input)
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "nested", "out.pptx")
	_, err = Apply(input, writeReplacements(t, `{"slide-0": {"shape-0": {"paragraphs": [{"text": "new"}]}}, "slides_to_delete": [1]}`), output, DefaultOptions())
	require.NoError(t, err)

	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(original, after))
	assert.FileExists(t, output)
}

func TestApplySlideManagement(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		deleted  int
		final    int
		indices  []int
		warnings []string
	}{
		{
			name:    "keep wins",
			doc:     `{"slides_to_keep": [0, 2, 7], "slides_to_delete": [0]}`,
			deleted: 1, final: 2, indices: []int{0, 1},
			warnings: []string{"Skipping invalid slide indices: [7]"},
		},
		{
			name:    "delete",
			doc:     `{"slides_to_delete": [0, 0, -1]}`,
			deleted: 1, final: 2, indices: []int{1},
			warnings: []string{"Skipping invalid slide indices: [-1]"},
		},
		{
			name:    "replace then delete",
			doc:     `{"slide-2": {"shape-2": {"paragraphs": [{"text": "kept"}]}}, "slides_to_delete": [0]}`,
			deleted: 1, final: 2, indices: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, inv := applyAndExtract(t, sampleDeck(), tt.doc)
			assert.Equal(t, tt.deleted, result.Deleted)
			assert.Equal(t, tt.final, result.FinalSlideCount)
			assert.Equal(t, tt.warnings, result.Warnings)

			var indices []int
			for _, s := range inv.Slides {
				indices = append(indices, s.Index)
			}
			assert.Equal(t, tt.indices, indices)
		})
	}

	_, inv := applyAndExtract(t, sampleDeck(), `{"slide-2": {"shape-2": {"paragraphs": [{"text": "kept"}]}}, "slides_to_delete": [0]}`)
	assert.Equal(t, []string{"first", "second", "kept"}, texts(inv.Slides[0].Shapes))
}

func TestApplySummarySlide(t *testing.T) {
	deck := sampleDeck()
	deck.MasterBackground = "1F1F1F"
	deck.Sections = true

	result, inv := applyAndExtract(t, deck, `{
		"add_summary_slide": true,
		"summary_slide": {"items": ["Intro", "Results"]}
	}`)

	assert.True(t, result.SummaryAdded)
	assert.Equal(t, 4, result.FinalSlideCount)

	summary, ok := inv.Slide(1)
	require.True(t, ok)
	require.Len(t, summary.Shapes, 2)
	assert.Equal(t, []string{"Agenda", "Intro\nResults"}, texts(summary.Shapes))
	assert.Equal(t, "TITLE", summary.Shapes[0].PlaceholderType)
	assert.Equal(t, "BODY", summary.Shapes[1].PlaceholderType)
	for _, p := range summary.Shapes[1].Paragraphs {
		assert.Equal(t, "FFFFFF", p.Color)
		assert.Equal(t, 18.0, *p.FontSize)
	}

	_, ok = inv.Slide(3)
	assert.True(t, ok, "slides after the summary move down by one")
}

func TestApplySummarySlideSkipped(t *testing.T) {
	result, _ := applyAndExtract(t, sampleDeck(), `{"add_summary_slide": true, "summary_slide": {"title": "Plan", "items": []}}`)
	assert.False(t, result.SummaryAdded)
	assert.Equal(t, 3, result.FinalSlideCount)
	assert.Equal(t, []string{"summary_slide: no items, summary slide not added"}, result.Warnings)

	result, _ = applyAndExtract(t, sampleDeck(), `{"add_summary_slide": false, "summary_slide": {"items": ["a"]}}`)
	assert.False(t, result.SummaryAdded)
	assert.Empty(t, result.Warnings)
}

func TestApplyPackageSoftBreaks(t *testing.T) {
	pkg, err := pptx.OpenBytes(pptxtest.Build(t, sampleDeck()))
	require.NoError(t, err)

	var repl models.Replacements
	require.NoError(t, json.Unmarshal([]byte(`{
		"slide-2": {"shape-0": {"paragraphs": [{"text": "line one\u000bline two"}]}},
		"add_summary_slide": true,
		"summary_slide": {"items": ["first\u000bsecond"]}
	}`), &repl))

	result, err := ApplyPackage(pkg, &repl, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.SummaryAdded)

	assert.Equal(t, "line one\vline two", repl.Slides[0].Shapes[0].Paragraphs[0].Text, "directive is left as given")
	assert.Equal(t, "", repl.SummarySlide.Title)
	assert.Equal(t, "", repl.SummarySlide.Color)

	output := filepath.Join(t.TempDir(), "out.pptx")
	require.NoError(t, pkg.Save(output))
	inv, err := Extract(output, DefaultOptions())
	require.NoError(t, err)

	summary, ok := inv.Slide(1)
	require.True(t, ok)
	assert.Equal(t, []string{"Agenda", "first second"}, texts(summary.Shapes))
	last, ok := inv.Slide(3)
	require.True(t, ok)
	assert.Equal(t, "line one line two", last.Shapes[0].Paragraphs[0].Text)
}

func TestApplyErrors(t *testing.T) {
	input := pptxtest.WriteFile(t, sampleDeck())
	output := filepath.Join(t.TempDir(), "out.pptx")

	_, err := Apply(input, filepath.Join(t.TempDir(), "missing.json"), output, DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound), "got %v", err)

	_, err = Apply(input, writeReplacements(t, `{"slides_to_keep": "all"}`), output, DefaultOptions())
	assert.Error(t, err)

	_, err = Apply(filepath.Join(t.TempDir(), "missing.pptx"), writeReplacements(t, `{}`), output, DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound), "got %v", err)
	assert.NoFileExists(t, output)
}
