// Package editor writes paragraph records back into slide XML.
package editor

import (
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
)

// MaxLevel is the deepest paragraph level DrawingML supports.
const MaxLevel = 8

// Options controls how paragraph records are written.
type Options struct {
	// BulletChar is the glyph written for bullet paragraphs.
	BulletChar string
	// DefaultFontSize is used for indentation and shrink decisions when a
	// paragraph has no font size.
	DefaultFontSize float64
	MinFontSize     float64
	ShrinkMargin    float64
	WarnMargin      float64
	// FallbackWidth is the shape width in inches assumed when a shape has none.
	FallbackWidth float64
	AutoShrink    bool
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		BulletChar:      "•",
		DefaultFontSize: parser.DefaultFontSize,
		MinFontSize:     12,
		ShrinkMargin:    parser.ShrinkMargin,
		WarnMargin:      parser.WarnMargin,
		FallbackWidth:   10,
		AutoShrink:      true,
	}
}

// ApplyParagraph rewrites an a:p from a paragraph record. The paragraph
// properties are rebuilt from the record, existing runs, fields and breaks
// are replaced by a single run, and an a:endParaRPr is kept. The returned
// warnings describe attributes that were skipped; loc prefixes them.
func ApplyParagraph(p *etree.Element, para models.Paragraph, opts Options, loc string) []string {
	var warnings []string

	oldPPr := parser.Child(p, "pPr")
	var lang []etree.Attr
	for _, run := range parser.Children(p, "r") {
		if rPr := parser.Child(run, "rPr"); rPr != nil && lang == nil {
			for _, key := range []string{"lang", "altLang"} {
				if a := rPr.SelectAttr(key); a != nil {
					lang = append(lang, *a)
				}
			}
		}
	}
	for _, c := range p.ChildElements() {
		switch c.Tag {
		case "pPr", "r", "fld", "br":
			p.RemoveChild(c)
		}
	}

	pPr, w := buildParagraphProperties(para, oldPPr, opts, loc)
	warnings = append(warnings, w...)
	p.InsertChildAt(0, pPr)

	run := etree.NewElement("a:r")
	rPr, w := buildRunProperties(para, lang, loc)
	warnings = append(warnings, w...)
	run.AddChild(rPr)
	run.CreateElement("a:t").SetText(parser.FlattenSoftBreaks(para.Text))

	if end := parser.Child(p, "endParaRPr"); end != nil {
		p.InsertChildAt(end.Index(), run)
	} else {
		p.AddChild(run)
	}
	return warnings
}

// buildParagraphProperties serializes a fresh a:pPr. Tab stops, default run
// properties and extensions of the previous a:pPr are carried over.
func buildParagraphProperties(para models.Paragraph, old *etree.Element, opts Options, loc string) (*etree.Element, []string) {
	var warnings []string
	pPr := etree.NewElement("a:pPr")

	alignment := models.Alignment("")
	if para.Alignment != "" {
		if a, ok := models.ParseAlignment(string(para.Alignment)); ok {
			alignment = a
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: unknown alignment '%s' ignored", loc, para.Alignment))
		}
	}

	if para.Bullet {
		level := para.Level
		if level < 0 || level > MaxLevel {
			clamped := min(max(level, 0), MaxLevel)
			warnings = append(warnings, fmt.Sprintf("%s: level %d clamped to %d", loc, level, clamped))
			level = clamped
		}
		size := fontSize(para, opts)
		pPr.CreateAttr("marL", strconv.FormatInt(int64(math.Round(size*(1.6+float64(level)*1.6)*parser.EMUPerPoint)), 10))
		pPr.CreateAttr("indent", strconv.FormatInt(int64(math.Round(-size*0.8*parser.EMUPerPoint)), 10))
		if level > 0 {
			pPr.CreateAttr("lvl", strconv.Itoa(level))
		}
		if alignment == "" {
			alignment = models.AlignLeft
		}
	} else {
		pPr.CreateAttr("marL", "0")
		pPr.CreateAttr("indent", "0")
	}
	if alignment != "" {
		pPr.CreateAttr("algn", alignment.XML())
	}

	if para.LineSpacing != nil {
		pPr.CreateElement("a:lnSpc").CreateElement("a:spcPct").
			CreateAttr("val", strconv.Itoa(int(math.Round(*para.LineSpacing*100000))))
	}
	if para.SpaceBefore != nil {
		pPr.CreateElement("a:spcBef").CreateElement("a:spcPts").
			CreateAttr("val", strconv.Itoa(int(math.Round(*para.SpaceBefore*100))))
	}
	if para.SpaceAfter != nil {
		pPr.CreateElement("a:spcAft").CreateElement("a:spcPts").
			CreateAttr("val", strconv.Itoa(int(math.Round(*para.SpaceAfter*100))))
	}

	if para.Bullet {
		glyph := opts.BulletChar
		if glyph == "" {
			glyph = "•"
		}
		pPr.CreateElement("a:buChar").CreateAttr("char", glyph)
	} else {
		pPr.CreateElement("a:buNone")
	}

	for _, tag := range []string{"tabLst", "defRPr", "extLst"} {
		if c := parser.Child(old, tag); c != nil {
			pPr.AddChild(c.Copy())
		}
	}
	return pPr, warnings
}

// buildRunProperties serializes the a:rPr of the paragraph's run.
func buildRunProperties(para models.Paragraph, lang []etree.Attr, loc string) (*etree.Element, []string) {
	var warnings []string
	rPr := etree.NewElement("a:rPr")
	for _, a := range lang {
		rPr.CreateAttr(a.Key, a.Value)
	}

	if para.FontSize != nil {
		rPr.CreateAttr("sz", strconv.Itoa(int(math.Round(*para.FontSize*100))))
	}
	if para.Bold != nil {
		rPr.CreateAttr("b", boolAttr(*para.Bold))
	}
	if para.Italic != nil {
		rPr.CreateAttr("i", boolAttr(*para.Italic))
	}
	if para.Underline != nil {
		u := "none"
		if *para.Underline {
			u = "sng"
		}
		rPr.CreateAttr("u", u)
	}

	switch {
	case para.Color != "":
		c, err := models.ParseRGB(para.Color)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, color left unset", loc, err))
			break
		}
		SetSolidFill(rPr, c)
	case para.ThemeColor != "":
		tc, ok := models.ParseThemeColor(para.ThemeColor)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: unknown theme color '%s'", loc, para.ThemeColor))
			break
		}
		rPr.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", tc.SchemeValue())
	}

	if para.FontName != "" {
		rPr.CreateElement("a:latin").CreateAttr("typeface", para.FontName)
	}
	return rPr, warnings
}

// SetSolidFill replaces the fill of an a:rPr with a solid RGB fill. The fill
// is placed before the font elements as DrawingML requires.
func SetSolidFill(rPr *etree.Element, c models.RGB) {
	for _, tag := range []string{"noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill"} {
		if old := parser.Child(rPr, tag); old != nil {
			rPr.RemoveChild(old)
		}
	}

	fill := etree.NewElement("a:solidFill")
	fill.CreateElement("a:srgbClr").CreateAttr("val", c.Hex())

	index := len(rPr.Child)
	for _, child := range rPr.ChildElements() {
		if child.Tag != "ln" {
			index = child.Index()
			break
		}
	}
	rPr.InsertChildAt(index, fill)
}

func fontSize(para models.Paragraph, opts Options) float64 {
	if para.FontSize != nil {
		return *para.FontSize
	}
	if opts.DefaultFontSize > 0 {
		return opts.DefaultFontSize
	}
	return parser.DefaultFontSize
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
