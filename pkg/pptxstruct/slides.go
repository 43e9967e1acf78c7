package pptxstruct

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/editor"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

// SelectSlidesToDelete resolves slide management directives against a deck
// of total slides. A non-nil keep list wins over del: every slide not kept is
// deleted. Indices outside the deck are returned as invalid. Both results are
// sorted and free of duplicates.
func SelectSlidesToDelete(total int, keep, del []int) (toDelete, invalid []int) {
	inRange := func(i int, _ int) bool { return i >= 0 && i < total }
	outOfRange := func(i int, _ int) bool { return !inRange(i, 0) }

	switch {
	case keep != nil:
		invalid = lo.Uniq(lo.Filter(keep, outOfRange))
		toDelete = lo.Without(lo.Range(total), keep...)
	case del != nil:
		invalid = lo.Uniq(lo.Filter(del, outOfRange))
		toDelete = lo.Uniq(lo.Filter(del, inRange))
	}

	sort.Ints(toDelete)
	sort.Ints(invalid)
	return toDelete, invalid
}

// deleteSlides applies the keep/delete directives and returns the number of
// slides removed.
func deleteSlides(pkg *pptx.Package, repl *models.Replacements, result *models.ApplyResult) (int, error) {
	if repl.SlidesToKeep == nil && repl.SlidesToDelete == nil {
		return 0, nil
	}

	slides, err := pkg.Slides()
	if err != nil {
		return 0, err
	}

	toDelete, invalid := SelectSlidesToDelete(len(slides), repl.SlidesToKeep, repl.SlidesToDelete)
	if len(invalid) > 0 {
		warn(result, fmt.Sprintf("Skipping invalid slide indices: %v", invalid))
	}
	if repl.SlidesToKeep != nil {
		log.Infof("Keeping %d slides, deleting %d", len(repl.SlidesToKeep), len(toDelete))
	} else {
		log.Infof("Deleting %d specified slides", len(toDelete))
	}

	deleted := 0
	for i := len(toDelete) - 1; i >= 0; i-- {
		slide := slides[toDelete[i]]
		if err := pkg.DeleteSlide(slide); err != nil {
			warn(result, fmt.Sprintf("%s: failed to delete slide: %v", models.SlideKey(slide.Index), err))
			continue
		}
		deleted++
	}
	return deleted, nil
}

// addSummarySlide inserts an agenda slide built from the first layout with a
// title and a body placeholder, falling back to the second layout and then
// the first.
func addSummarySlide(pkg *pptx.Package, summary models.SummarySlide, opts Options, result *models.ApplyResult) bool {
	if len(summary.Items) == 0 {
		warn(result, "summary_slide: no items, summary slide not added")
		return false
	}
	layouts, err := pkg.Layouts()
	if err != nil || len(layouts) == 0 {
		warn(result, fmt.Sprintf("summary_slide: no slide layout available: %v", err))
		return false
	}
	layout, ok := lo.Find(layouts, pkg.LayoutHasTitleAndBody)
	if !ok {
		layout = layouts[min(1, len(layouts)-1)]
	}

	slide, err := pkg.AddSlide(layout, opts.Summary.Position)
	if err != nil {
		warn(result, fmt.Sprintf("summary_slide: failed to add slide: %v", err))
		return false
	}
	ctx, err := pkg.SlideContext(slide)
	if err != nil {
		warn(result, fmt.Sprintf("summary_slide: %v", err))
		return false
	}

	color := editor.DarkText
	if summary.Color == "auto" {
		color = editor.TextColorForSlide(ctx)
		log.Infof("Auto-detected text color: #%s", color.Hex())
	} else if c, err := models.ParseRGB(summary.Color); err == nil {
		color = c
	} else {
		warn(result, fmt.Sprintf("summary_slide: %v, using #%s", err, color.Hex()))
	}

	if !editor.FillSummarySlide(ctx.Slide, summary.Title, summary.Items, color) {
		warn(result, fmt.Sprintf("summary_slide: layout %q has no body for the items", layout.Name))
	}
	log.Infof("Added summary slide at position %d", slide.Index+1)
	return true
}
