package parser

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"golang.org/x/text/unicode/norm"
)

// softBreak is how a line break (a:br) appears in paragraph text.
const softBreak = "\v"

// TextBodyText returns the text of a p:txBody with paragraphs joined by newlines.
func TextBodyText(txBody *etree.Element) string {
	paragraphs := Children(txBody, "p")
	lines := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		lines[i] = ParagraphText(p)
	}
	return strings.Join(lines, "\n")
}

// ParagraphText concatenates the text of runs, fields and line breaks of an a:p.
// Line breaks are returned as vertical tabs.
func ParagraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, c := range p.ChildElements() {
		switch c.Tag {
		case "r", "fld":
			if t := Child(c, "t"); t != nil {
				sb.WriteString(t.Text())
			}
		case "br":
			sb.WriteString(softBreak)
		}
	}
	return sb.String()
}

// CleanText trims text, turns soft line breaks into spaces and applies NFC normalization.
func CleanText(text string) string {
	return norm.NFC.String(FlattenSoftBreaks(strings.TrimSpace(text)))
}

// FlattenSoftBreaks turns soft line breaks into spaces. A vertical tab is
// not a legal XML character, so text is flattened before it is written.
func FlattenSoftBreaks(text string) string {
	return strings.ReplaceAll(text, softBreak, " ")
}

// ReadParagraphs returns the non-empty paragraphs of a text body.
func ReadParagraphs(txBody *etree.Element) []models.Paragraph {
	var result []models.Paragraph
	for _, p := range Children(txBody, "p") {
		if strings.TrimSpace(ParagraphText(p)) == "" {
			continue
		}
		result = append(result, ReadParagraph(p))
	}
	return result
}

// ReadParagraph reads an a:p into a paragraph record. Font and color
// attributes come from the first run.
func ReadParagraph(p *etree.Element) models.Paragraph {
	para := models.Paragraph{Text: CleanText(ParagraphText(p))}

	pPr := Child(p, "pPr")
	if Child(pPr, "buChar") != nil || Child(pPr, "buAutoNum") != nil {
		para.Bullet = true
		if lvl, ok := AttrInt(pPr, "lvl"); ok {
			para.Level = int(lvl)
		}
	}
	if v, ok := Attr(pPr, "algn"); ok {
		para.Alignment = models.AlignmentFromXML(v)
	}
	para.SpaceBefore = spacingPoints(Child(pPr, "spcBef"))
	para.SpaceAfter = spacingPoints(Child(pPr, "spcAft"))
	para.LineSpacing = spacingLines(Child(pPr, "lnSpc"))

	if run := Child(p, "r"); run != nil {
		readRunProperties(Child(run, "rPr"), &para)
	}
	return para
}

// spacingPoints reads a:spcPts from a spacing element in points.
// Percentage spacing is not expressed in points and is skipped.
func spacingPoints(spacing *etree.Element) *float64 {
	v, ok := AttrInt(Child(spacing, "spcPts"), "val")
	if !ok || v == 0 {
		return nil
	}
	pt := float64(v) / 100
	return &pt
}

// spacingLines reads a:spcPct from a spacing element as a multiple of single spacing.
func spacingLines(spacing *etree.Element) *float64 {
	v, ok := AttrInt(Child(spacing, "spcPct"), "val")
	if !ok || v == 0 {
		return nil
	}
	lines := float64(v) / 100000
	return &lines
}

// readRunProperties copies a:rPr attributes into the paragraph record.
func readRunProperties(rPr *etree.Element, para *models.Paragraph) {
	if rPr == nil {
		return
	}
	if sz, ok := AttrInt(rPr, "sz"); ok {
		size := float64(sz) / 100
		para.FontSize = &size
	}
	if typeface, ok := Attr(Child(rPr, "latin"), "typeface"); ok && typeface != "" {
		para.FontName = typeface
	}
	if b, ok := AttrBool(rPr, "b"); ok {
		para.Bold = &b
	}
	if i, ok := AttrBool(rPr, "i"); ok {
		para.Italic = &i
	}
	if u, ok := Attr(rPr, "u"); ok {
		underline := u != "none"
		para.Underline = &underline
	}

	fill := Child(rPr, "solidFill")
	if rgb, ok := Attr(Child(fill, "srgbClr"), "val"); ok {
		if c, err := models.ParseRGB(rgb); err == nil {
			para.Color = c.Hex()
		}
		return
	}
	if scheme, ok := Attr(Child(fill, "schemeClr"), "val"); ok {
		if tc, known := models.ThemeColorFromScheme(scheme); known {
			para.ThemeColor = string(tc)
		}
	}
}
