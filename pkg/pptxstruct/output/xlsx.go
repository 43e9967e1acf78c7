package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/xuri/excelize/v2"
)

const (
	shapesSheet     = "Shapes"
	paragraphsSheet = "Paragraphs"
)

var (
	shapeHeader = []any{
		"slide", "shape", "left", "top", "width", "height",
		"placeholder", "font_size", "paragraphs", "overlaps", "overflow_bottom",
	}
	paragraphHeader = []any{
		"slide", "shape", "paragraph", "text", "bullet", "level",
		"alignment", "font_size", "bold", "color",
	}
)

// InventoryWorkbook lays out an inventory as a workbook with one row per
// shape and one row per paragraph.
func InventoryWorkbook(inv *models.Inventory) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", shapesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(paragraphsSheet); err != nil {
		f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	shapeRows := [][]any{shapeHeader}
	paraRows := [][]any{paragraphHeader}
	for _, slide := range inv.Slides {
		for _, shape := range slide.Shapes {
			shapeRows = append(shapeRows, shapeRow(slide.Index, shape))
			for i, p := range shape.Paragraphs {
				paraRows = append(paraRows, paragraphRow(slide.Index, shape.Ordinal, i, p))
			}
		}
	}

	for sheet, rows := range map[string][][]any{shapesSheet: shapeRows, paragraphsSheet: paraRows} {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				f.Close()
				return nil, errors.Wrapf(err, "writing %s row %d", sheet, i+1)
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteInventoryXLSX writes the inventory workbook to path.
func WriteInventoryXLSX(path string, inv *models.Inventory) error {
	f, err := InventoryWorkbook(inv)
	if err != nil {
		return errors.Wrap(err, "building inventory workbook")
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func shapeRow(slide int, s models.Shape) []any {
	var overlaps []string
	if s.Overlap != nil {
		keys := make([]int, 0, len(s.Overlap.OverlappingShapes))
		for k := range s.Overlap.OverlappingShapes {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			overlaps = append(overlaps, fmt.Sprintf("%s:%.2f", models.ShapeKey(k), s.Overlap.OverlappingShapes[k]))
		}
	}
	return []any{
		models.SlideKey(slide), models.ShapeKey(s.Ordinal),
		s.Left, s.Top, s.Width, s.Height,
		s.PlaceholderType, optional(s.DefaultFontSize), len(s.Paragraphs),
		strings.Join(overlaps, ", "), optional(s.OverflowBottom),
	}
}

func paragraphRow(slide, shape, index int, p models.Paragraph) []any {
	level := any("")
	if p.Bullet {
		level = p.Level
	}
	bold := any("")
	if p.Bold != nil {
		bold = *p.Bold
	}
	color := p.Color
	if color == "" {
		color = p.ThemeColor
	}
	return []any{
		models.SlideKey(slide), models.ShapeKey(shape), index, p.Text, p.Bullet, level,
		string(p.Alignment), optional(p.FontSize), bold, color,
	}
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
