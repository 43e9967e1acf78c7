package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Shape represents one text-bearing shape with its position, size and paragraphs.
type Shape struct {
	// Ordinal is the 0-based visual position on the slide (top-to-bottom,
	// left-to-right). It is recomputed on every run and is not an identity.
	Ordinal int `json:"-"`
	// Left is the absolute left offset in inches.
	Left float64 `json:"left"`
	// Top is the absolute top offset in inches.
	Top float64 `json:"top"`
	// Width is the shape width in inches.
	Width float64 `json:"width"`
	// Height is the shape height in inches.
	Height float64 `json:"height"`
	// PlaceholderType is the placeholder kind (TITLE, BODY, ...) if the shape is a placeholder.
	PlaceholderType string `json:"placeholder_type,omitempty"`
	// DefaultFontSize is the first explicit font size found in the shape's paragraphs.
	DefaultFontSize *float64 `json:"default_font_size,omitempty"`
	// Overlap lists other shapes on the slide whose bounding boxes intersect this one.
	Overlap *Overlap `json:"overlap,omitempty"`
	// OverflowBottom is the estimated text height in inches beyond the shape's bottom edge.
	OverflowBottom *float64 `json:"overflow_bottom,omitempty"`
	// Paragraphs are the non-empty paragraphs in document order.
	Paragraphs []Paragraph `json:"paragraphs"`
}

// HasIssues reports whether the shape carries overlap or overflow diagnostics.
func (s Shape) HasIssues() bool {
	return s.Overlap != nil || s.OverflowBottom != nil
}

// Overlap holds intersection areas (square inches) keyed by the other shape's ordinal.
type Overlap struct {
	OverlappingShapes map[int]float64
}

// MarshalJSON emits {"overlapping_shapes": {"shape-K": area}} in ordinal order.
func (o Overlap) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(o.OverlappingShapes))
	for k := range o.OverlappingShapes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	buf.WriteString(`{"overlapping_shapes":{`)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(o.OverlappingShapes[k])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", ShapeKey(k))
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the overlapping_shapes object.
func (o *Overlap) UnmarshalJSON(data []byte) error {
	var in struct {
		OverlappingShapes map[string]float64 `json:"overlapping_shapes"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	o.OverlappingShapes = make(map[int]float64, len(in.OverlappingShapes))
	for k, v := range in.OverlappingShapes {
		ordinal, ok := ParseShapeKey(k)
		if !ok {
			return fmt.Errorf("invalid shape key %q", k)
		}
		o.OverlappingShapes[ordinal] = v
	}
	return nil
}
