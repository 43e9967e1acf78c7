package pptxstruct

import (
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

// Extract extracts the text inventory of a PowerPoint file.
func Extract(path string, opts Options) (*models.Inventory, error) {
	pkg, err := pptx.Open(path)
	if err != nil {
		return nil, err
	}
	return ExtractPackage(pkg, opts)
}

// ExtractPackage extracts the text inventory of an opened package. Slides
// that cannot be read are logged and skipped, as are slides without text
// shapes.
func ExtractPackage(pkg *pptx.Package, opts Options) (*models.Inventory, error) {
	slides, err := pkg.Slides()
	if err != nil {
		return nil, err
	}

	inv := &models.Inventory{}
	for _, slide := range slides {
		ctx, err := pkg.SlideContext(slide)
		if err != nil {
			// Log warning and continue
			log.Warnf("%v", NewExtractionError(slide.Index, "slide", err))
			continue
		}

		shapes := parser.ExtractSlide(ctx, opts.fontSize())
		if opts.IssuesOnly() {
			shapes = issuesOnly(shapes)
		}
		if len(shapes) == 0 {
			continue
		}

		log.Debugf("%s: %d text shapes", models.SlideKey(slide.Index), len(shapes))
		inv.Slides = append(inv.Slides, models.SlideInventory{
			Index:  slide.Index,
			Shapes: shapes,
		})
	}
	return inv, nil
}

// issuesOnly keeps the shapes carrying overlap or overflow diagnostics.
// Ordinals are those of the full slide.
func issuesOnly(shapes []models.Shape) []models.Shape {
	var result []models.Shape
	for _, s := range shapes {
		if s.HasIssues() {
			result = append(result, s)
		}
	}
	return result
}
