package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelsPath(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"", "_rels/.rels"},
		{"ppt/presentation.xml", "ppt/_rels/presentation.xml.rels"},
		{"ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels"},
	}

	for _, tt := range tests {
		if result := relsPath(tt.source); result != tt.expected {
			t.Errorf("relsPath(%q) = %q, expected %q", tt.source, result, tt.expected)
		}
		source, ok := relsSource(tt.expected)
		if !ok || source != tt.source {
			t.Errorf("relsSource(%q) = %q/%v, expected %q", tt.expected, source, ok, tt.source)
		}
	}

	_, ok := relsSource("ppt/slides/slide1.xml")
	assert.False(t, ok)
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected string
	}{
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/presentation.xml", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml", "ppt/slideLayouts/slideLayout2.xml"},
		{"ppt/slides/slide1.xml", "/ppt/media/image1.png", "ppt/media/image1.png"},
	}

	for _, tt := range tests {
		if result := resolveTarget(tt.source, tt.target); result != tt.expected {
			t.Errorf("resolveTarget(%q, %q) = %q, expected %q", tt.source, tt.target, result, tt.expected)
		}
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source   string
		part     string
		expected string
	}{
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/presentation.xml", "ppt/slides/slide3.xml", "slides/slide3.xml"},
		{"ppt/slides/slide3.xml", "ppt/slideLayouts/slideLayout1.xml", "../slideLayouts/slideLayout1.xml"},
		{"ppt/slides/slide3.xml", "ppt/slides/slide4.xml", "slide4.xml"},
	}

	for _, tt := range tests {
		result := relativeTarget(tt.source, tt.part)
		if result != tt.expected {
			t.Errorf("relativeTarget(%q, %q) = %q, expected %q", tt.source, tt.part, result, tt.expected)
		}
		if back := resolveTarget(tt.source, result); back != tt.part {
			t.Errorf("resolveTarget(%q, %q) = %q, expected %q", tt.source, result, back, tt.part)
		}
	}
}

func TestParseRelationships(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="` + RelSlideLayout + `" Target="../slideLayouts/slideLayout2.xml"/>
  <Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`)

	items, err := parseRelationships(data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "rId1", items[0].ID)
	assert.False(t, items[0].External())
	assert.True(t, items[1].External())

	rels := &Relationships{source: "ppt/slides/slide1.xml", items: items}
	layout, ok := rels.FirstOfType(RelSlideLayout)
	require.True(t, ok)
	assert.Equal(t, "ppt/slideLayouts/slideLayout2.xml", rels.TargetPart(layout))
	assert.Empty(t, rels.TargetPart(items[1]))

	id := rels.Add(RelNotesSlide, "ppt/notesSlides/notesSlide1.xml")
	assert.Equal(t, "rId8", id)
	notes, ok := rels.ByID(id)
	require.True(t, ok)
	assert.Equal(t, "../notesSlides/notesSlide1.xml", notes.Target)

	assert.True(t, rels.Remove("rId1"))
	assert.False(t, rels.Remove("rId1"))
	assert.Empty(t, rels.OfType(RelSlideLayout))

	out, err := rels.marshal()
	require.NoError(t, err)
	back, err := parseRelationships(out)
	require.NoError(t, err)
	assert.Equal(t, rels.All(), back)
}
