package pptxstruct

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/editor"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/pptx"
)

// LoadReplacements reads a replacement file.
func LoadReplacements(path string) (*models.Replacements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var repl models.Replacements
	if err := json.Unmarshal(data, &repl); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &repl, nil
}

// Apply applies a replacement file to a presentation and writes the result
// to outputPath. The input file is never modified.
func Apply(inputPath, replacementsPath, outputPath string, opts Options) (*models.ApplyResult, error) {
	pkg, err := pptx.Open(inputPath)
	if err != nil {
		return nil, err
	}
	repl, err := LoadReplacements(replacementsPath)
	if err != nil {
		return nil, err
	}

	result, err := ApplyPackage(pkg, repl, opts)
	if err != nil {
		return nil, err
	}
	if err := pkg.Save(outputPath); err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyPackage applies replacements to an opened package in memory: text
// replacement first, then slide deletion, then the summary slide.
// Directives that do not match the presentation are skipped with a warning.
// repl is not modified.
func ApplyPackage(pkg *pptx.Package, repl *models.Replacements, opts Options) (*models.ApplyResult, error) {
	repl, err := prepareReplacements(repl, opts)
	if err != nil {
		return nil, err
	}
	result := &models.ApplyResult{Slides: len(repl.Slides)}
	for _, w := range repl.Warnings {
		warn(result, w)
	}

	slides, err := pkg.Slides()
	if err != nil {
		return nil, err
	}

	eopts := opts.EditorOptions()
	for _, sr := range repl.Slides {
		slideKey := models.SlideKey(sr.Index)
		if sr.Index >= len(slides) {
			warn(result, fmt.Sprintf("%s: slide index %d out of range", slideKey, sr.Index))
			continue
		}

		ctx, err := pkg.SlideContext(slides[sr.Index])
		if err != nil {
			warn(result, NewExtractionError(sr.Index, "slide", err).Error())
			continue
		}
		shapes := parser.SlideShapes(ctx)

		for _, sh := range sr.Shapes {
			if sh.Ordinal >= len(shapes) {
				warn(result, fmt.Sprintf("%s: shape index %d out of range", models.Location(sr.Index, sh.Ordinal), sh.Ordinal))
				continue
			}
			if !sh.HasParagraphs {
				continue
			}
			for _, w := range editor.ReplaceShapeText(shapes[sh.Ordinal], sh.Paragraphs, sr.Index, sh.Ordinal, eopts) {
				warn(result, w)
			}
			result.Modified++
		}
	}

	deleted, err := deleteSlides(pkg, repl, result)
	if err != nil {
		return nil, err
	}
	result.Deleted = deleted

	if repl.AddSummarySlide && repl.SummarySlide != nil {
		result.SummaryAdded = addSummarySlide(pkg, *repl.SummarySlide, opts, result)
	}

	final, err := pkg.Slides()
	if err != nil {
		return nil, err
	}
	result.FinalSlideCount = len(final)
	return result, nil
}

// prepareReplacements returns a copy of repl with soft line breaks flattened
// and summary slide defaults filled in from opts.
func prepareReplacements(repl *models.Replacements, opts Options) (*models.Replacements, error) {
	var out models.Replacements
	if err := deepcopy.Copy(&out, *repl); err != nil {
		return nil, errors.Wrap(err, "copying replacements")
	}
	for i := range out.Slides {
		for j := range out.Slides[i].Shapes {
			paragraphs := out.Slides[i].Shapes[j].Paragraphs
			for k := range paragraphs {
				paragraphs[k].Text = parser.FlattenSoftBreaks(paragraphs[k].Text)
			}
		}
	}
	if s := out.SummarySlide; s != nil {
		for i := range s.Items {
			s.Items[i] = parser.FlattenSoftBreaks(s.Items[i])
		}
		if s.Title == "" {
			s.Title = opts.Summary.Title
		}
		if s.Color == "" {
			s.Color = opts.Summary.Color
		}
	}
	return &out, nil
}

func warn(result *models.ApplyResult, msg string) {
	log.Warnf("%s", msg)
	result.Warnings = append(result.Warnings, msg)
}
