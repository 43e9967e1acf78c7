package parser

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pptxstruct-go/internal/pptxtest"
)

func parseRoot(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

func slideContext(t *testing.T, shapes ...string) SlideContext {
	t.Helper()
	return SlideContext{Slide: parseRoot(t, pptxtest.SlideXML(shapes...))}
}

func texts(shapes []Positioned) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = TextBodyText(s.TextBody())
	}
	return out
}

func TestSlideShapesGroupOrdering(t *testing.T) {
	// Document order is bottom, group, top. The grouped shape sits at
	// 0.5in inside a group offset by 1.5in.
	ctx := slideContext(t,
		pptxtest.TextBox(2, 1, 3.0, 4, 0.5, pptxtest.P("bottom")),
		pptxtest.Group(3, 1, 1.5,
			pptxtest.TextBox(4, 0, 0.5, 4, 0.5, pptxtest.P("grouped")),
		),
		pptxtest.TextBox(5, 1, 0.5, 4, 0.5, pptxtest.P("top")),
	)

	shapes := SlideShapes(ctx)
	require.Len(t, shapes, 3)
	assert.Equal(t, []string{"top", "grouped", "bottom"}, texts(shapes))

	tops := []float64{0.5, 2.0, 3.0}
	for i, s := range shapes {
		assert.Equal(t, i, s.Ordinal)
		assert.InDelta(t, tops[i], ToInches(s.Top), 1e-6, "shape %d top", i)
	}
	assert.InDelta(t, 1.0, ToInches(shapes[1].Left), 1e-6)
}

func TestSlideShapesNestedGroups(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.Group(2, 1, 1,
			pptxtest.Group(3, 0.5, 0.5,
				pptxtest.TextBox(4, 0.25, 0.25, 2, 1, pptxtest.P("deep")),
			),
		),
	)
	shapes := SlideShapes(ctx)
	require.Len(t, shapes, 1)
	assert.InDelta(t, 1.75, ToInches(shapes[0].Left), 1e-6)
	assert.InDelta(t, 1.75, ToInches(shapes[0].Top), 1e-6)
}

func TestSlideShapesFilters(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.TextBox(2, 1, 1, 4, 1, pptxtest.P("kept")),
		pptxtest.TextBox(3, 1, 2, 4, 1, pptxtest.P("   ")),
		pptxtest.Rect(4, 1, 3, 4, 1),
		pptxtest.Placeholder(5, "sldNum", 12, pptxtest.P("7")),
		pptxtest.Placeholder(6, "ftr", 11, pptxtest.P("Confidential")),
		pptxtest.Picture(7, "rId10", 5, 5, 1, 1),
	)
	shapes := SlideShapes(ctx)
	assert.Equal(t, []string{"kept"}, texts(shapes))
}

func TestSortVisualTies(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.TextBox(2, 5, 1, 1, 1, pptxtest.P("right")),
		pptxtest.TextBox(3, 1, 1, 1, 1, pptxtest.P("left")),
		pptxtest.TextBox(4, 3, 1, 1, 1, pptxtest.P("same-a")),
		pptxtest.TextBox(5, 3, 1, 1, 1, pptxtest.P("same-b")),
	)
	assert.Equal(t, []string{"left", "same-a", "same-b", "right"}, texts(SlideShapes(ctx)))
}

func TestSlideShapesStable(t *testing.T) {
	ctx := slideContext(t,
		pptxtest.TextBox(2, 2, 2, 3, 1, pptxtest.P("b")),
		pptxtest.TextBox(3, 0, 0, 3, 1, pptxtest.P("a")),
		pptxtest.Group(4, 0, 4, pptxtest.TextBox(5, 0, 0, 3, 1, pptxtest.P("c"))),
	)
	first := SlideShapes(ctx)
	second := SlideShapes(ctx)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Same(t, first[i].Elem, second[i].Elem)
		assert.Equal(t, first[i].Ordinal, second[i].Ordinal)
	}
}

func TestPlaceholderGeometryInheritance(t *testing.T) {
	layout := parseRoot(t, pptxtest.SlideXML(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`,
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="914400" y="1828800"/><a:ext cx="7315200" cy="3657600"/></a:xfrm></p:spPr></p:sp>`,
	))
	master := parseRoot(t, pptxtest.SlideXML(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="457200" y="457200"/><a:ext cx="8229600" cy="914400"/></a:xfrm></p:spPr></p:sp>`,
	))
	ctx := slideContext(t,
		pptxtest.Placeholder(2, "title", 0, pptxtest.P("Title")),
		pptxtest.Placeholder(3, "", 1, pptxtest.P("Body")),
	)
	ctx.Layout, ctx.Master = layout, master

	shapes := SlideShapes(ctx)
	require.Len(t, shapes, 2)

	title := shapes[0].Box()
	assert.Equal(t, Box{Left: 0.5, Top: 0.5, Width: 9, Height: 1}, title)
	assert.Equal(t, "TITLE", shapes[0].Placeholder.String())

	body := shapes[1].Box()
	assert.Equal(t, Box{Left: 1, Top: 2, Width: 8, Height: 4}, body)
	assert.Equal(t, "OBJECT", shapes[1].Placeholder.String())
}

func TestPlaceholderWithoutGeometry(t *testing.T) {
	ctx := slideContext(t, pptxtest.Placeholder(2, "body", 3, pptxtest.P("orphan")))
	shapes := SlideShapes(ctx)
	require.Len(t, shapes, 1)
	assert.Equal(t, Box{}, shapes[0].Box())
}

func TestPlaceholderOf(t *testing.T) {
	tests := []struct {
		shape    string
		expected PlaceholderKind
		idx      int
		ok       bool
	}{
		{pptxtest.Placeholder(2, "title", 0), PlaceholderTitle, 0, true},
		{pptxtest.Placeholder(2, "ctrTitle", 0), PlaceholderCenterTitle, 0, true},
		{pptxtest.Placeholder(2, "body", 1), PlaceholderBody, 1, true},
		{pptxtest.Placeholder(2, "", 4), PlaceholderObject, 4, true},
		{pptxtest.Placeholder(2, "sldNum", 12), PlaceholderSlideNumber, 12, true},
		{pptxtest.TextBox(2, 0, 0, 1, 1), PlaceholderNone, 0, false},
	}

	for _, tt := range tests {
		el := ShapeTree(parseRoot(t, pptxtest.SlideXML(tt.shape))).ChildElements()[2]
		ph, ok := PlaceholderOf(el)
		if ok != tt.ok || ph.Kind != tt.expected || ph.Idx != tt.idx {
			t.Errorf("PlaceholderOf(%q) = %v/%d/%v, expected %v/%d/%v",
				tt.shape, ph.Kind, ph.Idx, ok, tt.expected, tt.idx, tt.ok)
		}
	}
}

func TestPlaceholderKindClassification(t *testing.T) {
	assert.True(t, PlaceholderFooter.IsChrome())
	assert.True(t, PlaceholderDate.IsChrome())
	assert.False(t, PlaceholderBody.IsChrome())
	assert.True(t, PlaceholderCenterTitle.IsTitle())
	assert.Equal(t, PlaceholderTitle, PlaceholderCenterTitle.MasterKind())
	assert.Equal(t, PlaceholderBody, PlaceholderObject.MasterKind())
	assert.Equal(t, "ctrTitle", PlaceholderCenterTitle.XMLType())
}
