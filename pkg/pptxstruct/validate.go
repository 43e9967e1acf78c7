package pptxstruct

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

// titlePreviewLength is the number of characters of a slide title kept in SlideInfo.
const titlePreviewLength = 50

// SlideInfo describes the structure of one slide.
type SlideInfo struct {
	// Number is the 1-based slide number.
	Number      int    `json:"slide_number"`
	HasNotes    bool   `json:"has_notes"`
	NotesLength int    `json:"notes_length"`
	ImageCount  int    `json:"image_count"`
	HasTitle    bool   `json:"has_title"`
	TitleText   string `json:"title_text"`
	ShapeCount  int    `json:"shape_count"`
}

// Content is the slide plan a presentation was generated from.
type Content struct {
	Slides []ContentSlide `json:"slides"`
}

// ContentSlide is one planned slide. Skipped slides are not expected in the deck.
type ContentSlide struct {
	Type  string          `json:"type"`
	Title string          `json:"title"`
	Notes string          `json:"notes"`
	Image json.RawMessage `json:"image"`
	Skip  bool            `json:"_skip"`
}

// LoadContent reads a content file.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &content, nil
}

// Validate checks a presentation and, when contentPath is set, compares it
// with the content file. Unreadable inputs are reported as fatal findings.
func Validate(path, contentPath string, opts Options) *models.ValidationResult {
	result := &models.ValidationResult{}

	pkg, err := pptx.Open(path)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			result.AddError("file_not_found", path, "PPTX file not found", "Check the file path")
		} else {
			result.AddError("pptx_parse_error", path, fmt.Sprintf("Failed to parse PPTX: %v", err), "Check if the PPTX file is corrupted")
		}
		return result
	}

	var content *Content
	if contentPath != "" {
		content, err = LoadContent(contentPath)
		if err != nil {
			result.AddError("content_load_error", contentPath, err.Error(), "Check the content file")
			return result
		}
	}

	if err := ValidatePackage(pkg, content, opts, result); err != nil {
		result.AddError("pptx_parse_error", path, fmt.Sprintf("Failed to parse PPTX: %v", err), "Check if the PPTX file is corrupted")
	}
	return result
}

// ValidatePackage adds the findings for an opened package to result.
func ValidatePackage(pkg *pptx.Package, content *Content, opts Options, result *models.ValidationResult) error {
	infos, err := SlideInfos(pkg)
	if err != nil {
		return err
	}
	result.AddInfo("pptx_loaded", "global", fmt.Sprintf("Successfully loaded PPTX with %d slides", len(infos)))

	if content != nil {
		planned := lo.Reject(content.Slides, func(s ContentSlide, _ int) bool { return s.Skip })
		validateSlideCount(result, len(infos), len(planned))
		validateNotes(result, infos, planned)
		validateImages(result, infos, planned)
	}

	return validateShapes(pkg, opts, result)
}

// SlideInfos collects title, notes, image and shape counts per slide.
func SlideInfos(pkg *pptx.Package) ([]SlideInfo, error) {
	slides, err := pkg.Slides()
	if err != nil {
		return nil, err
	}

	infos := make([]SlideInfo, 0, len(slides))
	for _, slide := range slides {
		info := SlideInfo{Number: slide.Index + 1}

		if notes := strings.TrimSpace(pkg.NotesText(slide)); notes != "" {
			info.HasNotes = true
			info.NotesLength = utf8.RuneCountInString(notes)
		}

		ctx, err := pkg.SlideContext(slide)
		if err != nil {
			log.Warnf("%v", NewExtractionError(slide.Index, "slide", err))
			infos = append(infos, info)
			continue
		}
		tree := parser.ShapeTree(ctx.Slide)
		for _, el := range shapeElements(tree) {
			info.ShapeCount++
			if el.Tag == "pic" {
				info.ImageCount++
			}
			if ph, ok := parser.PlaceholderOf(el); ok && ph.Kind.IsTitle() && !info.HasTitle {
				if txBody := parser.Child(el, "txBody"); txBody != nil {
					info.HasTitle = true
					info.TitleText = truncate(parser.TextBodyText(txBody), titlePreviewLength)
				}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// shapeElements returns the top-level shapes of a shape tree.
func shapeElements(tree *etree.Element) []*etree.Element {
	if tree == nil {
		return nil
	}
	return lo.Filter(tree.ChildElements(), func(el *etree.Element, _ int) bool {
		switch el.Tag {
		case "sp", "grpSp", "pic", "graphicFrame", "cxnSp", "contentPart":
			return true
		}
		return false
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func validateSlideCount(result *models.ValidationResult, actual, planned int) {
	if actual != planned {
		result.AddError("slide_count_mismatch", "global",
			fmt.Sprintf("PPTX has %d slides but content.json has %d slides", actual, planned),
			"Check if all slides were generated correctly")
		return
	}
	result.AddInfo("slide_count_match", "global", fmt.Sprintf("Slide count matches: %d slides", actual))
}

func validateNotes(result *models.ValidationResult, infos []SlideInfo, planned []ContentSlide) {
	var missing []int
	for i := 0; i < len(infos) && i < len(planned); i++ {
		if planned[i].Notes != "" && !infos[i].HasNotes {
			missing = append(missing, infos[i].Number)
		}
	}
	if len(missing) > 0 {
		result.AddWarning("missing_notes", fmt.Sprintf("slides %v", missing),
			fmt.Sprintf("%d slides are missing expected speaker notes", len(missing)),
			"Speaker notes may not have been applied correctly")
	}

	withNotes := lo.CountBy(infos, func(s SlideInfo) bool { return s.HasNotes })
	if withNotes < len(infos) {
		result.AddInfo("notes_stats", "global", fmt.Sprintf("%d/%d slides have speaker notes", withNotes, len(infos)))
	}
}

func validateImages(result *models.ValidationResult, infos []SlideInfo, planned []ContentSlide) {
	var missing []int
	for i := 0; i < len(infos) && i < len(planned); i++ {
		expects := len(planned[i].Image) > 0 && string(planned[i].Image) != "null"
		if (expects || planned[i].Type == "photo") && infos[i].ImageCount == 0 {
			missing = append(missing, infos[i].Number)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		result.AddWarning("missing_images", fmt.Sprintf("slides %v", missing),
			fmt.Sprintf("%d slides are missing expected images", len(missing)),
			"Check image paths and embedding")
	}

	total := lo.SumBy(infos, func(s SlideInfo) int { return s.ImageCount })
	result.AddInfo("image_stats", "global", fmt.Sprintf("Total images in PPTX: %d", total))
}

// validateShapes reports long text, paragraph counts, overlaps and bottom
// overflow of the text shapes, addressed by the shared shape ordinals.
func validateShapes(pkg *pptx.Package, opts Options, result *models.ValidationResult) error {
	slides, err := pkg.Slides()
	if err != nil {
		return err
	}

	for _, slide := range slides {
		ctx, err := pkg.SlideContext(slide)
		if err != nil {
			continue
		}
		positioned := parser.SlideShapes(ctx)
		shapes := parser.ExtractSlide(ctx, opts.fontSize())

		for i, pos := range positioned {
			loc := models.Location(slide.Index, pos.Ordinal)
			txBody := pos.TextBody()

			text := parser.TextBodyText(txBody)
			if n := utf8.RuneCountInString(text); opts.Validation.MaxTextLength > 0 && n > opts.Validation.MaxTextLength {
				result.AddWarning("long_text", loc,
					fmt.Sprintf("Text too long (%d chars)", n),
					"Consider shortening or splitting the text")
			}
			if n := len(parser.Children(txBody, "p")); opts.Validation.MaxParagraphs > 0 && n > opts.Validation.MaxParagraphs {
				result.AddWarning("too_many_paragraphs", loc,
					fmt.Sprintf("Too many paragraphs (%d)", n),
					"Consider splitting into multiple slides")
			}

			shape := shapes[i]
			if shape.Overlap != nil {
				others := lo.Keys(shape.Overlap.OverlappingShapes)
				sort.Ints(others)
				names := lo.Map(others, func(o int, _ int) string {
					return fmt.Sprintf("%s (%.2f sq in)", models.ShapeKey(o), shape.Overlap.OverlappingShapes[o])
				})
				result.AddWarning("overlap", loc,
					"Overlaps "+strings.Join(names, ", "),
					"Check that the shapes do not hide each other")
			}
			if shape.OverflowBottom != nil {
				result.AddWarning("overflow", loc,
					fmt.Sprintf("Text extends %.2fin below the shape", *shape.OverflowBottom),
					"Shorten the text or reduce the font size")
			}
		}
	}
	return nil
}
