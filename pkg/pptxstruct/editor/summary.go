package editor

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
)

// SummaryItemSize is the font size in points of summary slide items.
const SummaryItemSize = 18.0

// FillSummarySlide writes the title into the slide's title placeholder and
// the items, one level-0 paragraph each, into the first other shape with a
// text body. It reports whether the items found a home.
func FillSummarySlide(slide *etree.Element, title string, items []string, color models.RGB) bool {
	tree := parser.ShapeTree(slide)
	if tree == nil {
		return false
	}

	var titleShape, bodyShape *etree.Element
	for _, sp := range parser.Children(tree, "sp") {
		if parser.Child(sp, "txBody") == nil {
			continue
		}
		ph, isPlaceholder := parser.PlaceholderOf(sp)
		switch {
		case isPlaceholder && ph.Kind.IsTitle() && titleShape == nil:
			titleShape = sp
		case bodyShape == nil:
			bodyShape = sp
		}
	}

	if titleShape != nil {
		setPlainParagraphs(parser.Child(titleShape, "txBody"), []string{title}, color, 0)
	}
	if bodyShape == nil {
		return false
	}
	setPlainParagraphs(parser.Child(bodyShape, "txBody"), items, color, SummaryItemSize)
	return true
}

// setPlainParagraphs replaces the paragraphs of a text body with one
// single-run paragraph per line. Paragraph formatting is left to the
// placeholder. A zero size leaves the font size inherited.
func setPlainParagraphs(txBody *etree.Element, lines []string, color models.RGB, size float64) {
	for _, p := range parser.Children(txBody, "p") {
		txBody.RemoveChild(p)
	}
	if len(lines) == 0 {
		txBody.CreateElement("a:p")
		return
	}

	for _, line := range lines {
		p := txBody.CreateElement("a:p")
		run := p.CreateElement("a:r")
		rPr := run.CreateElement("a:rPr")
		rPr.CreateAttr("lang", "en-US")
		if size > 0 {
			rPr.CreateAttr("sz", strconv.Itoa(int(size*100)))
		}
		SetSolidFill(rPr, color)
		run.CreateElement("a:t").SetText(parser.FlattenSoftBreaks(line))
	}
}
