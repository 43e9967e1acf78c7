package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	slideKeyPrefix = "slide-"
	shapeKeyPrefix = "shape-"
)

// SlideKey returns the external address of a slide ("slide-N").
func SlideKey(index int) string {
	return slideKeyPrefix + strconv.Itoa(index)
}

// ShapeKey returns the external address of a shape ("shape-M").
func ShapeKey(ordinal int) string {
	return shapeKeyPrefix + strconv.Itoa(ordinal)
}

// ParseSlideKey parses "slide-N" into N.
func ParseSlideKey(key string) (int, bool) {
	return parseKey(key, slideKeyPrefix)
}

// ParseShapeKey parses "shape-M" into M.
func ParseShapeKey(key string) (int, bool) {
	return parseKey(key, shapeKeyPrefix)
}

func parseKey(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Location formats a slide/shape pair the way warnings reference it.
func Location(slide, shape int) string {
	return SlideKey(slide) + "." + ShapeKey(shape)
}

// SlideInventory represents the text shapes of one slide.
type SlideInventory struct {
	// Index is the 0-based slide position in document order.
	Index int
	// Shapes are the surviving text shapes in ordinal order.
	Shapes []Shape
}

// Inventory represents the text inventory of a presentation.
// Slides without surviving shapes are omitted.
type Inventory struct {
	Slides []SlideInventory
}

// ShapeCount returns the number of shapes across all slides.
func (inv *Inventory) ShapeCount() int {
	n := 0
	for _, s := range inv.Slides {
		n += len(s.Shapes)
	}
	return n
}

// Slide returns the inventory of the slide with the given index.
func (inv *Inventory) Slide(index int) (SlideInventory, bool) {
	for _, s := range inv.Slides {
		if s.Index == index {
			return s, true
		}
	}
	return SlideInventory{}, false
}

// MarshalJSON emits slides and shapes in numeric key order.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slide := range inv.Slides {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:{", SlideKey(slide.Index))
		for j, shape := range slide.Shapes {
			if j > 0 {
				buf.WriteByte(',')
			}
			v, err := json.Marshal(shape)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%q:", ShapeKey(shape.Ordinal))
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an inventory, ordering slides and shapes numerically.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]Shape
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	inv.Slides = nil
	for slideKey, shapes := range raw {
		index, ok := ParseSlideKey(slideKey)
		if !ok {
			return fmt.Errorf("invalid slide key %q", slideKey)
		}
		slide := SlideInventory{Index: index}
		for shapeKey, shape := range shapes {
			ordinal, ok := ParseShapeKey(shapeKey)
			if !ok {
				return fmt.Errorf("invalid shape key %q in %s", shapeKey, slideKey)
			}
			shape.Ordinal = ordinal
			slide.Shapes = append(slide.Shapes, shape)
		}
		sort.Slice(slide.Shapes, func(i, j int) bool {
			return slide.Shapes[i].Ordinal < slide.Shapes[j].Ordinal
		})
		inv.Slides = append(inv.Slides, slide)
	}
	sort.Slice(inv.Slides, func(i, j int) bool {
		return inv.Slides[i].Index < inv.Slides[j].Index
	})
	return nil
}
