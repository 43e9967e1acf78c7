// Package pptxtest builds small presentation packages in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// EMUPerInch converts inches to the EMU used in shape geometry.
const EMUPerInch = 914400

const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// Layout indices of the built-in layouts.
const (
	LayoutTitleOnly = iota
	LayoutTitleAndContent
)

// Deck describes a presentation to build.
type Deck struct {
	Slides []Slide
	// Sections wraps all slides in a single p14 section.
	Sections bool
	// MasterBackground is an optional six-digit solid fill of the master.
	MasterBackground string
}

// Slide describes one slide.
type Slide struct {
	// Shapes are raw spTree children, see TextBox, Placeholder, Group and Picture.
	Shapes []string
	// Layout is LayoutTitleOnly or LayoutTitleAndContent.
	Layout int
	// Notes is the speaker notes text, "" for no notes slide.
	Notes string
	// Images adds this many image relationships and media parts.
	Images int
	// Background is an optional six-digit solid fill of the slide.
	Background string
}

// In converts inches to EMU.
func In(v float64) int64 {
	return int64(v * EMUPerInch)
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// P returns a plain paragraph.
func P(text string) string {
	return fmt.Sprintf(`<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, esc(text))
}

// SizedP returns a paragraph whose run has an explicit size in points.
func SizedP(text string, pt float64) string {
	return fmt.Sprintf(`<a:p><a:r><a:rPr lang="en-US" sz="%d"/><a:t>%s</a:t></a:r></a:p>`, int(pt*100), esc(text))
}

// BulletP returns a bullet paragraph at level.
func BulletP(text string, level int) string {
	return fmt.Sprintf(`<a:p><a:pPr marL="%d" lvl="%d" indent="-228600"><a:buChar char="•"/></a:pPr>`+
		`<a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, 342900+level*457200, level, esc(text))
}

func xfrm(left, top, width, height float64) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		In(left), In(top), In(width), In(height))
}

func txBody(paragraphs []string) string {
	if len(paragraphs) == 0 {
		paragraphs = []string{"<a:p/>"}
	}
	return `<p:txBody><a:bodyPr/><a:lstStyle/>` + strings.Join(paragraphs, "") + `</p:txBody>`
}

// TextBox returns a text shape at the given position in inches.
func TextBox(id int, left, top, width, height float64, paragraphs ...string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>%s</p:sp>`,
		id, id, xfrm(left, top, width, height), txBody(paragraphs))
}

// Rect returns a shape without a text body.
func Rect(id int, left, top, width, height float64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Rectangle %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:sp>`,
		id, id, xfrm(left, top, width, height))
}

// Placeholder returns a placeholder shape without its own geometry. typ is
// the p:ph type ("" for an object placeholder).
func Placeholder(id int, typ string, idx int, paragraphs ...string) string {
	ph := "<p:ph"
	if typ != "" {
		ph += fmt.Sprintf(` type="%s"`, typ)
	}
	if idx != 0 {
		ph += fmt.Sprintf(` idx="%d"`, idx)
	}
	ph += "/>"
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Placeholder %d"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr>`+
		`<p:spPr/>%s</p:sp>`, id, id, ph, txBody(paragraphs))
}

// Group returns a group shape offset by left and top whose children are
// positioned relative to the group.
func Group(id int, left, top float64, children ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/><a:chOff x="0" y="0"/><a:chExt cx="%d" cy="%d"/></a:xfrm></p:grpSpPr>`+
		`%s</p:grpSp>`, id, id, In(left), In(top), In(8), In(4), In(8), In(4), strings.Join(children, ""))
}

// Picture returns a picture shape referencing relationship rID.
func Picture(id int, rID string, left, top, width, height float64) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr>%s</p:spPr></p:pic>`,
		id, id, rID, xfrm(left, top, width, height))
}

// ImageRelID returns the relationship id of the n-th (0-based) image of a slide.
func ImageRelID(n int) string {
	return fmt.Sprintf("rId%d", 10+n)
}

func background(color string) string {
	if color == "" {
		return ""
	}
	return fmt.Sprintf(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, color)
}

func spTree(shapes string) string {
	return `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree>`
}

func rels(entries ...string) string {
	return xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(entries, "") + `</Relationships>`
}

func rel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/%s" Target="%s"/>`, id, typ, target)
}

const (
	relOffice = "officeDocument/2006/relationships/officeDocument"
	relMaster = "officeDocument/2006/relationships/slideMaster"
	relLayout = "officeDocument/2006/relationships/slideLayout"
	relSlide  = "officeDocument/2006/relationships/slide"
	relNotes  = "officeDocument/2006/relationships/notesSlide"
	relImage  = "officeDocument/2006/relationships/image"
	ctPrefix  = "application/vnd.openxmlformats-officedocument.presentationml."
)

// masterXML places the title at 0.5in and the body at 1.5in on a 10x7.5 slide.
func masterXML(bg string) string {
	shapes := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr>` + xfrm(0.5, 0.5, 9, 1) + `</p:spPr>` + txBody(nil) + `</p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr>` + xfrm(0.5, 1.5, 9, 5) + `</p:spPr>` + txBody(nil) + `</p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="4" name="Slide Number"/><p:cNvSpPr/><p:nvPr><p:ph type="sldNum" idx="12"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr>` + xfrm(8, 7, 1.5, 0.4) + `</p:spPr>` + txBody(nil) + `</p:sp>`
	return xml.Header + `<p:sldMaster ` + nsDecl + `><p:cSld>` + background(bg) + spTree(shapes) + `</p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
		`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/><p:sldLayoutId id="2147483650" r:id="rId2"/></p:sldLayoutIdLst>` +
		`</p:sldMaster>`
}

func layoutXML(name string, body bool) string {
	shapes := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody(nil) + `</p:sp>`
	if body {
		shapes += `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
			txBody(nil) + `</p:sp>`
	}
	shapes += `<p:sp><p:nvSpPr><p:cNvPr id="4" name="Slide Number 3"/><p:cNvSpPr/><p:nvPr><p:ph type="sldNum" idx="12"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody(nil) + `</p:sp>`
	return xml.Header + `<p:sldLayout ` + nsDecl + `><p:cSld name="` + name + `">` + spTree(shapes) + `</p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`
}

// SlideXML returns a complete slide part holding shapes.
func SlideXML(shapes ...string) string {
	return slideXML(Slide{Shapes: shapes})
}

func slideXML(s Slide) string {
	return xml.Header + `<p:sld ` + nsDecl + `><p:cSld>` + background(s.Background) +
		spTree(strings.Join(s.Shapes, "")) + `</p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

func notesXML(text string) string {
	shapes := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody([]string{P(text)}) + `</p:sp>`
	return xml.Header + `<p:notes ` + nsDecl + `><p:cSld>` + spTree(shapes) + `</p:cSld></p:notes>`
}

// SlideID returns the p:sldId id of the i-th slide of a built deck.
func SlideID(i int) int {
	return 256 + i
}

// Bytes builds the presentation package.
func (d Deck) Bytes() ([]byte, error) {
	parts := []struct{ name, body string }{}
	add := func(name, body string) { parts = append(parts, struct{ name, body string }{name, body}) }

	overrides := []string{
		`<Override PartName="/ppt/presentation.xml" ContentType="` + ctPrefix + `presentation.main+xml"/>`,
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="` + ctPrefix + `slideMaster+xml"/>`,
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="` + ctPrefix + `slideLayout+xml"/>`,
		`<Override PartName="/ppt/slideLayouts/slideLayout2.xml" ContentType="` + ctPrefix + `slideLayout+xml"/>`,
	}
	presRels := []string{rel("rId1", relMaster, "slideMasters/slideMaster1.xml")}
	var sldIDs, sectionIDs strings.Builder

	for i, s := range d.Slides {
		n := i + 1
		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		overrides = append(overrides, fmt.Sprintf(`<Override PartName="/%s" ContentType="%sslide+xml"/>`, slidePart, ctPrefix))
		relID := fmt.Sprintf("rId%d", n+1)
		presRels = append(presRels, rel(relID, relSlide, fmt.Sprintf("slides/slide%d.xml", n)))
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, SlideID(i), relID)
		fmt.Fprintf(&sectionIDs, `<p14:sldId id="%d"/>`, SlideID(i))

		slideRels := []string{rel("rId1", relLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", s.Layout+1))}
		if s.Notes != "" {
			notesPart := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)
			slideRels = append(slideRels, rel("rId2", relNotes, fmt.Sprintf("../notesSlides/notesSlide%d.xml", n)))
			overrides = append(overrides, fmt.Sprintf(`<Override PartName="/%s" ContentType="%snotesSlide+xml"/>`, notesPart, ctPrefix))
			add(notesPart, notesXML(s.Notes))
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n),
				rels(rel("rId1", relSlide, fmt.Sprintf("../slides/slide%d.xml", n))))
		}
		for k := 0; k < s.Images; k++ {
			media := fmt.Sprintf("media/image%d_%d.png", n, k+1)
			slideRels = append(slideRels, rel(ImageRelID(k), relImage, "../"+media))
			add("ppt/"+media, "\x89PNG\r\n\x1a\n")
		}
		add(slidePart, slideXML(s))
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels(slideRels...))
	}

	ext := ""
	if d.Sections {
		ext = `<p:extLst><p:ext uri="{521415D9-36F7-43E2-AB2F-B90AF26B5E84}">` +
			`<p14:sectionLst xmlns:p14="http://schemas.microsoft.com/office/powerpoint/2010/main">` +
			`<p14:section name="Default Section" id="{8F7B6C2A-1D3E-4F5A-9B8C-7D6E5F4A3B2C}"><p14:sldIdLst>` +
			sectionIDs.String() + `</p14:sldIdLst></p14:section></p14:sectionLst></p:ext></p:extLst>`
	}
	presentation := xml.Header + `<p:presentation ` + nsDecl + `>` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst>` +
		`<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>` + ext + `</p:presentation>`

	contentTypes := xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		strings.Join(overrides, "") + `</Types>`

	all := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels(rel("rId1", relOffice, "ppt/presentation.xml"))},
		{"ppt/presentation.xml", presentation},
		{"ppt/_rels/presentation.xml.rels", rels(presRels...)},
		{"ppt/slideMasters/slideMaster1.xml", masterXML(d.MasterBackground)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
			rel("rId1", relLayout, "../slideLayouts/slideLayout1.xml"),
			rel("rId2", relLayout, "../slideLayouts/slideLayout2.xml"))},
		{"ppt/slideLayouts/slideLayout1.xml", layoutXML("Title Only", false)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(rel("rId1", relMaster, "../slideMasters/slideMaster1.xml"))},
		{"ppt/slideLayouts/slideLayout2.xml", layoutXML("Title and Content", true)},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", rels(rel("rId1", relMaster, "../slideMasters/slideMaster1.xml"))},
	}
	all = append(all, parts...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range all {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build returns the package bytes, failing the test on error.
func Build(t testing.TB, d Deck) []byte {
	t.Helper()
	data, err := d.Bytes()
	if err != nil {
		t.Fatalf("building deck: %v", err)
	}
	return data
}

// WriteFile writes the deck into a temporary directory and returns its path.
func WriteFile(t testing.TB, d Deck) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, Build(t, d), 0644); err != nil {
		t.Fatalf("writing deck: %v", err)
	}
	return path
}
