package parser

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// SlideContext bundles a slide's root element with the layout and master it
// inherits placeholder geometry from. Layout and Master may be nil.
type SlideContext struct {
	Slide  *etree.Element
	Layout *etree.Element
	Master *etree.Element
}

// Positioned is a text-bearing shape with its absolute geometry in EMU.
type Positioned struct {
	// Elem is the p:sp element.
	Elem *etree.Element
	// Left and Top are absolute offsets: the shape's own offset plus all ancestor group offsets.
	Left, Top     int64
	Width, Height int64
	Placeholder   PlaceholderKind
	// Ordinal is assigned by SortVisual.
	Ordinal int
}

// Box returns the shape's bounding box in inches.
func (p Positioned) Box() Box {
	return Box{
		Left:   ToInches(p.Left),
		Top:    ToInches(p.Top),
		Width:  ToInches(p.Width),
		Height: ToInches(p.Height),
	}
}

// TextBody returns the shape's p:txBody element.
func (p Positioned) TextBody() *etree.Element {
	return Child(p.Elem, "txBody")
}

// ShapeTree returns the p:cSld/p:spTree element of a slide, layout or master root.
func ShapeTree(root *etree.Element) *etree.Element {
	return Descend(root, "cSld", "spTree")
}

// SlideShapes walks a slide and returns its text shapes in visual order with
// ordinals assigned. Extraction, content application and validation all
// address shapes through this function.
func SlideShapes(ctx SlideContext) []Positioned {
	return SortVisual(Walk(ctx))
}

// Walk traverses the slide's shape tree in document order, recursing into
// groups with accumulated offsets, and returns the shapes that carry text.
// Groups themselves contribute no entry.
func Walk(ctx SlideContext) []Positioned {
	tree := ShapeTree(ctx.Slide)
	if tree == nil {
		return nil
	}
	return walkShapes(tree, ctx, 0, 0)
}

// walkShapes visits the direct children of a shape tree or group.
func walkShapes(parent *etree.Element, ctx SlideContext, offsetLeft, offsetTop int64) []Positioned {
	var results []Positioned

	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "grpSp":
			xfrm := Descend(el, "grpSpPr", "xfrm")
			groupLeft, groupTop, _ := xfrmOffset(xfrm)
			grpResults := walkShapes(el, ctx, offsetLeft+groupLeft, offsetTop+groupTop)
			results = append(results, grpResults...)
		case "sp":
			if pos, ok := positionShape(el, ctx, offsetLeft, offsetTop); ok {
				results = append(results, pos)
			}
		}
	}

	return results
}

// positionShape applies the text filters to a single p:sp and resolves its geometry.
func positionShape(sp *etree.Element, ctx SlideContext, offsetLeft, offsetTop int64) (Positioned, bool) {
	txBody := Child(sp, "txBody")
	if txBody == nil {
		return Positioned{}, false
	}
	if strings.TrimSpace(TextBodyText(txBody)) == "" {
		return Positioned{}, false
	}

	kind := PlaceholderNone
	if ph, ok := PlaceholderOf(sp); ok {
		if ph.Kind.IsChrome() {
			return Positioned{}, false
		}
		kind = ph.Kind
	}

	left, top, width, height := ctx.effectiveGeometry(sp)
	return Positioned{
		Elem:        sp,
		Left:        left + offsetLeft,
		Top:         top + offsetTop,
		Width:       width,
		Height:      height,
		Placeholder: kind,
	}, true
}

// SortVisual orders shapes top-to-bottom then left-to-right and assigns
// ordinals 0..N-1. The sort is stable: shapes at identical positions keep
// their traversal order.
func SortVisual(shapes []Positioned) []Positioned {
	sorted := make([]Positioned, len(shapes))
	copy(sorted, shapes)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := ToInches(sorted[i].Top), ToInches(sorted[j].Top)
		if ti != tj {
			return ti < tj
		}
		return ToInches(sorted[i].Left) < ToInches(sorted[j].Left)
	})

	for i := range sorted {
		sorted[i].Ordinal = i
	}
	return sorted
}

// effectiveGeometry returns a shape's local offset and extent. Placeholders
// without their own a:xfrm inherit from the layout placeholder with the same
// idx, which in turn inherits from the master placeholder of the matching
// kind. Unresolvable values are 0.
func (ctx SlideContext) effectiveGeometry(sp *etree.Element) (left, top, width, height int64) {
	chain := []*etree.Element{sp}
	if ph, ok := PlaceholderOf(sp); ok {
		if layoutPh := findPlaceholder(ctx.Layout, func(p Placeholder) bool { return p.Idx == ph.Idx }); layoutPh != nil {
			chain = append(chain, layoutPh)
			if lp, ok := PlaceholderOf(layoutPh); ok {
				masterKind := lp.Kind.MasterKind()
				if masterPh := findPlaceholder(ctx.Master, func(p Placeholder) bool { return p.Kind == masterKind }); masterPh != nil {
					chain = append(chain, masterPh)
				}
			}
		}
	}

	var hasOff, hasExt bool
	for _, el := range chain {
		xfrm := shapeXfrm(el)
		if !hasOff {
			left, top, hasOff = xfrmOffset(xfrm)
		}
		if !hasExt {
			width, height, hasExt = xfrmExtent(xfrm)
		}
	}
	return left, top, width, height
}

// findPlaceholder returns the first top-level placeholder shape in root's
// shape tree that satisfies match.
func findPlaceholder(root *etree.Element, match func(Placeholder) bool) *etree.Element {
	tree := ShapeTree(root)
	if tree == nil {
		return nil
	}
	for _, el := range tree.ChildElements() {
		if ph, ok := PlaceholderOf(el); ok && match(ph) {
			return el
		}
	}
	return nil
}

// shapeXfrm returns the a:xfrm of a shape's properties element.
func shapeXfrm(shape *etree.Element) *etree.Element {
	for _, props := range []string{"spPr", "grpSpPr"} {
		if xfrm := Descend(shape, props, "xfrm"); xfrm != nil {
			return xfrm
		}
	}
	if shape != nil && shape.Tag == "graphicFrame" {
		return Child(shape, "xfrm")
	}
	return nil
}

// xfrmOffset reads a:off. Missing or malformed values are 0.
func xfrmOffset(xfrm *etree.Element) (x, y int64, ok bool) {
	off := Child(xfrm, "off")
	if off == nil {
		return 0, 0, false
	}
	x, _ = AttrInt(off, "x")
	y, _ = AttrInt(off, "y")
	return x, y, true
}

// xfrmExtent reads a:ext. Missing or malformed values are 0.
func xfrmExtent(xfrm *etree.Element) (cx, cy int64, ok bool) {
	ext := Child(xfrm, "ext")
	if ext == nil {
		return 0, 0, false
	}
	cx, _ = AttrInt(ext, "cx")
	cy, _ = AttrInt(ext, "cy")
	return cx, cy, true
}
