package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Replacements represents a replacement file: new paragraphs addressed by
// slide index and shape ordinal, plus slide management directives.
type Replacements struct {
	// Slides holds replacement directives ordered by slide index.
	Slides []SlideReplacement
	// SlidesToKeep keeps only these slides when non-nil. Takes precedence over SlidesToDelete.
	SlidesToKeep []int
	// SlidesToDelete deletes these slides when non-nil.
	SlidesToDelete []int
	// AddSummarySlide requests an agenda slide built from SummarySlide.
	AddSummarySlide bool
	SummarySlide    *SummarySlide
	// Warnings collects keys that could not be interpreted.
	Warnings []string
}

// SlideReplacement holds the shape directives of one slide.
type SlideReplacement struct {
	Index  int
	Shapes []ShapeReplacement
}

// ShapeReplacement holds the desired paragraphs of one shape.
type ShapeReplacement struct {
	Ordinal int
	// Paragraphs replace the shape's text when HasParagraphs is set.
	Paragraphs    []Paragraph
	HasParagraphs bool
}

// SummarySlide describes an agenda slide.
type SummarySlide struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items,omitempty"`
	// Color is six hex digits or "auto" to pick a color contrasting the background.
	Color string `json:"color,omitempty"`
}

const (
	keySlidesToKeep    = "slides_to_keep"
	keySlidesToDelete  = "slides_to_delete"
	keyAddSummarySlide = "add_summary_slide"
	keySummarySlide    = "summary_slide"
)

// UnmarshalJSON reads a replacement file. Malformed slide or shape keys are
// recorded in Warnings and skipped.
func (r *Replacements) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Replacements{}

	if v, ok := raw[keySlidesToKeep]; ok {
		if err := json.Unmarshal(v, &r.SlidesToKeep); err != nil {
			return fmt.Errorf("%s: %w", keySlidesToKeep, err)
		}
	}
	if v, ok := raw[keySlidesToDelete]; ok {
		if err := json.Unmarshal(v, &r.SlidesToDelete); err != nil {
			return fmt.Errorf("%s: %w", keySlidesToDelete, err)
		}
	}
	if v, ok := raw[keyAddSummarySlide]; ok {
		if err := json.Unmarshal(v, &r.AddSummarySlide); err != nil {
			return fmt.Errorf("%s: %w", keyAddSummarySlide, err)
		}
	}
	if v, ok := raw[keySummarySlide]; ok && string(v) != "null" {
		r.SummarySlide = &SummarySlide{}
		if err := json.Unmarshal(v, r.SummarySlide); err != nil {
			return fmt.Errorf("%s: %w", keySummarySlide, err)
		}
	}

	for key, value := range raw {
		if !strings.HasPrefix(key, slideKeyPrefix) {
			continue
		}
		index, ok := ParseSlideKey(key)
		if !ok {
			r.Warnings = append(r.Warnings, fmt.Sprintf("Invalid slide key '%s'", key))
			continue
		}
		var shapes map[string]json.RawMessage
		if err := json.Unmarshal(value, &shapes); err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: expected an object of shapes", key))
			continue
		}
		slide := SlideReplacement{Index: index}
		for shapeKey, shapeValue := range shapes {
			if !strings.HasPrefix(shapeKey, shapeKeyPrefix) {
				continue
			}
			ordinal, ok := ParseShapeKey(shapeKey)
			if !ok {
				r.Warnings = append(r.Warnings, fmt.Sprintf("Invalid shape key '%s' on %s", shapeKey, key))
				continue
			}
			shape, err := parseShapeReplacement(shapeValue)
			if err != nil {
				r.Warnings = append(r.Warnings, fmt.Sprintf("%s.%s: %v", key, shapeKey, err))
				continue
			}
			shape.Ordinal = ordinal
			slide.Shapes = append(slide.Shapes, shape)
		}
		sort.SliceStable(slide.Shapes, func(i, j int) bool {
			return slide.Shapes[i].Ordinal < slide.Shapes[j].Ordinal
		})
		r.Slides = append(r.Slides, slide)
	}
	sort.SliceStable(r.Slides, func(i, j int) bool {
		return r.Slides[i].Index < r.Slides[j].Index
	})
	sort.Strings(r.Warnings)
	return nil
}

func parseShapeReplacement(data []byte) (ShapeReplacement, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ShapeReplacement{}, fmt.Errorf("expected an object")
	}
	var shape ShapeReplacement
	if v, ok := fields["paragraphs"]; ok {
		if err := json.Unmarshal(v, &shape.Paragraphs); err != nil {
			return ShapeReplacement{}, fmt.Errorf("paragraphs: %w", err)
		}
		shape.HasParagraphs = true
	}
	return shape, nil
}

// ShapeCount returns the number of addressed shapes.
func (r *Replacements) ShapeCount() int {
	n := 0
	for _, s := range r.Slides {
		n += len(s.Shapes)
	}
	return n
}
