package pptxstruct

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/schema"
)

// LoadInventory reads an inventory written by Extract.
func LoadInventory(path string) (*models.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var inv models.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &inv, nil
}

// Lint checks a replacement file against the schema and, when inventoryPath
// is set, checks every address against the inventory. Unreadable files are
// returned as errors.
func Lint(replacementsPath, inventoryPath string, opts Options) (*models.ValidationResult, error) {
	data, err := os.ReadFile(replacementsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", replacementsPath)
		}
		return nil, errors.Wrapf(err, "reading %s", replacementsPath)
	}

	var inv *models.Inventory
	if inventoryPath != "" {
		if inv, err = LoadInventory(inventoryPath); err != nil {
			return nil, err
		}
	}
	return LintData(data, inv, opts)
}

// LintData lints a replacement document held in memory. inv may be nil.
func LintData(data []byte, inv *models.Inventory, opts Options) (*models.ValidationResult, error) {
	result := &models.ValidationResult{}

	violations, err := schema.ValidateReplacements(data)
	if err != nil {
		return nil, err
	}
	for _, v := range violations {
		location := v.Location
		if location == "" {
			location = "/"
		}
		result.AddError("schema", location, v.Message, "")
	}

	var repl models.Replacements
	if err := json.Unmarshal(data, &repl); err != nil {
		result.AddError("parse_error", "/", err.Error(), "Fix the replacement file structure")
		return result, nil
	}
	for _, w := range repl.Warnings {
		result.AddWarning("invalid_key", "global", w, "Use slide-N and shape-M keys")
	}

	for _, slide := range repl.Slides {
		for _, shape := range slide.Shapes {
			lintParagraphs(result, slide.Index, shape)
		}
	}
	if inv != nil {
		lintAddresses(result, &repl, inv, opts)
	}

	result.AddInfo("lint_stats", "global",
		fmt.Sprintf("%d shapes on %d slides addressed", repl.ShapeCount(), len(repl.Slides)))
	return result, nil
}

// lintParagraphs reports directive values the paragraph writer would ignore.
func lintParagraphs(result *models.ValidationResult, slide int, shape models.ShapeReplacement) {
	loc := models.Location(slide, shape.Ordinal)
	for i, p := range shape.Paragraphs {
		pLoc := fmt.Sprintf("%s.paragraphs[%d]", loc, i)
		if !p.Bullet && p.Level > 0 {
			result.AddWarning("level_without_bullet", pLoc,
				fmt.Sprintf("level %d is ignored for a non-bullet paragraph", p.Level),
				"Set bullet to true or drop level")
		}
		if p.Color != "" && p.ThemeColor != "" {
			result.AddWarning("color_conflict", pLoc,
				"both color and theme_color are set, color wins", "")
		}
	}
}

// lintAddresses checks that every addressed slide and shape exists in the
// inventory and that replacement text fits the addressed shape.
func lintAddresses(result *models.ValidationResult, repl *models.Replacements, inv *models.Inventory, opts Options) {
	for _, slide := range repl.Slides {
		slideInv, ok := inv.Slide(slide.Index)
		if !ok {
			result.AddError("unknown_slide", models.SlideKey(slide.Index),
				"slide has no text shapes in the inventory",
				"Re-extract the inventory from the target presentation")
			continue
		}

		byOrdinal := make(map[int]models.Shape, len(slideInv.Shapes))
		for _, s := range slideInv.Shapes {
			byOrdinal[s.Ordinal] = s
		}

		for _, shape := range slide.Shapes {
			loc := models.Location(slide.Index, shape.Ordinal)
			target, ok := byOrdinal[shape.Ordinal]
			if !ok {
				result.AddError("unknown_shape", loc,
					fmt.Sprintf("shape not found, %s has %d text shapes", models.SlideKey(slide.Index), len(slideInv.Shapes)),
					"Re-extract the inventory from the target presentation")
				continue
			}

			width := target.Width
			if width <= 0 {
				width = opts.FallbackWidth
			}
			for i, p := range shape.Paragraphs {
				size := opts.fontSize()
				if p.FontSize != nil {
					size = *p.FontSize
				}
				if estimated, overflows := parser.CheckOverflow(p.Text, width, size, opts.WarnMargin); overflows {
					result.AddWarning("overflow_risk", fmt.Sprintf("%s.paragraphs[%d]", loc, i),
						fmt.Sprintf("estimated %.1fin exceeds width %.1fin", estimated, width),
						"Shorten the text or let apply auto-shrink it")
				}
			}
		}
	}
}
