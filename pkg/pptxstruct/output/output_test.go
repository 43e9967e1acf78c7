package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/xuri/excelize/v2"
)

func float(v float64) *float64 { return &v }

func sampleInventory() *models.Inventory {
	bold := true
	return &models.Inventory{Slides: []models.SlideInventory{
		{Index: 0, Shapes: []models.Shape{
			{
				Ordinal: 0, Left: 0.5, Top: 0.5, Width: 9, Height: 1,
				PlaceholderType: "TITLE", DefaultFontSize: float(32),
				Paragraphs: []models.Paragraph{{Text: "R&D <update>", FontSize: float(32), Bold: &bold}},
			},
			{
				Ordinal: 1, Left: 1, Top: 2, Width: 4, Height: 2,
				Overlap:        &models.Overlap{OverlappingShapes: map[int]float64{2: 1.5}},
				OverflowBottom: float(0.25),
				Paragraphs: []models.Paragraph{
					{Text: "one", Bullet: true, Level: 1, ThemeColor: "ACCENT_1"},
					{Text: "two", Alignment: models.AlignCenter, Color: "FF0000"},
				},
			},
		}},
	}}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(map[string]string{"text": "R&D <update>"}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"R&D <update>"}`+"\n", string(data))

	pretty, err := ToJSON(map[string]int{"a": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(pretty))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.json")
	require.NoError(t, WriteJSON(path, sampleInventory(), true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back models.Inventory
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back.ShapeCount())
	assert.Contains(t, string(data), `"slide-0": {`)
}

func TestInventoryWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	require.NoError(t, WriteInventoryXLSX(path, sampleInventory()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{shapesSheet, paragraphsSheet}, f.GetSheetList())

	shapes, err := f.GetRows(shapesSheet)
	require.NoError(t, err)
	require.Len(t, shapes, 3)
	assert.Equal(t, "placeholder", shapes[0][6])
	assert.Equal(t, []string{"slide-0", "shape-0", "0.5", "0.5", "9", "1", "TITLE", "32", "1"}, shapes[1])
	assert.Equal(t, []string{"slide-0", "shape-1", "1", "2", "4", "2", "", "", "2", "shape-2:1.50", "0.25"}, shapes[2])

	paragraphs, err := f.GetRows(paragraphsSheet)
	require.NoError(t, err)
	require.Len(t, paragraphs, 4)
	assert.Equal(t, []string{"slide-0", "shape-0", "0", "R&D <update>", "FALSE", "", "", "32", "TRUE"}, paragraphs[1])
	assert.Equal(t, []string{"slide-0", "shape-1", "0", "one", "TRUE", "1", "", "", "", "ACCENT_1"}, paragraphs[2])
	assert.Equal(t, []string{"slide-0", "shape-1", "1", "two", "FALSE", "", "CENTER", "", "", "FF0000"}, paragraphs[3])
}

func TestInventoryWorkbookEmpty(t *testing.T) {
	f, err := InventoryWorkbook(&models.Inventory{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(shapesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReporterExtract(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Extract(sampleInventory(), "out.json")

	assert.Equal(t, "✓ 2 text shapes on 1 slides written to out.json\n  1 shapes with overlap or overflow\n", buf.String())
}

func TestReporterApply(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Apply(&models.ApplyResult{
		Modified: 3, Slides: 2, Deleted: 1, FinalSlideCount: 4, SummaryAdded: true,
		Warnings: []string{"slide-9: slide index 9 out of range"},
	}, "deck.pptx")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "! Saved deck.pptx\n"), out)
	assert.Contains(t, out, "shapes modified: 3 (on 2 slides)")
	assert.Contains(t, out, "slides deleted:  1")
	assert.Contains(t, out, "summary slide:   added")
	assert.Contains(t, out, "final slides:    4")
	assert.Contains(t, out, "    slide-9: slide index 9 out of range\n")

	buf.Reset()
	NewReporter(&buf).Apply(&models.ApplyResult{Modified: 1, Slides: 1, FinalSlideCount: 1}, "deck.pptx")
	assert.True(t, strings.HasPrefix(buf.String(), "✓ Saved deck.pptx\n"))
	assert.NotContains(t, buf.String(), "slides deleted")
}

func TestReporterValidation(t *testing.T) {
	var res models.ValidationResult
	res.AddInfo("pptx_loaded", "global", "Successfully loaded PPTX with 3 slides")
	res.AddWarning("overlap", "slide-2.shape-0", "Overlaps shape-1 (2.00 sq in)", "Check that the shapes do not hide each other")

	var buf bytes.Buffer
	NewReporter(&buf).Validation("PPTX Validation", &res)

	assert.Equal(t, strings.Join([]string{
		"PPTX Validation",
		"===============",
		"",
		"WARNINGS (1)",
		"  [overlap] slide-2.shape-0: Overlaps shape-1 (2.00 sq in)",
		"      → Check that the shapes do not hide each other",
		"",
		"INFO (1)",
		"  [pptx_loaded] global: Successfully loaded PPTX with 3 slides",
		"",
		"Status: WARN (0 errors, 1 warnings)",
		"",
	}, "\n"), buf.String())
}
