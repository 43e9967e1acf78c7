package pptx

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
)

// Slide is an entry of the presentation's slide list.
type Slide struct {
	// Index is the 0-based position in the slide list.
	Index int
	// ID is the p:sldId id attribute.
	ID    string
	RelID string
	Part  string
}

// Layout is a slide layout of the first slide master.
type Layout struct {
	Index int
	Part  string
	Name  string
}

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Presentation returns the root element of the presentation part.
func (p *Package) Presentation() (*etree.Element, error) {
	doc, err := p.Part(p.presentation)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// Slides returns the slides in presentation order. Entries whose
// relationship cannot be resolved are skipped.
func (p *Package) Slides() ([]Slide, error) {
	root, err := p.Presentation()
	if err != nil {
		return nil, err
	}
	rels, err := p.Rels(p.presentation)
	if err != nil {
		return nil, err
	}

	var slides []Slide
	for _, sldID := range parser.Children(parser.Child(root, "sldIdLst"), "sldId") {
		relID := parser.RelAttr(sldID, "id")
		rel, ok := rels.ByID(relID)
		if !ok {
			continue
		}
		part := rels.TargetPart(rel)
		if !p.Has(part) {
			continue
		}
		id, _ := parser.Attr(sldID, "id")
		slides = append(slides, Slide{
			Index: len(slides),
			ID:    id,
			RelID: relID,
			Part:  part,
		})
	}
	return slides, nil
}

// SlideContext loads a slide together with its layout and master.
func (p *Package) SlideContext(s Slide) (parser.SlideContext, error) {
	doc, err := p.Part(s.Part)
	if err != nil {
		return parser.SlideContext{}, err
	}
	ctx := parser.SlideContext{Slide: doc.Root()}

	layoutPart := p.related(s.Part, RelSlideLayout)
	if layoutPart == "" {
		return ctx, nil
	}
	if layout, err := p.Part(layoutPart); err == nil {
		ctx.Layout = layout.Root()
	}

	if masterPart := p.related(layoutPart, RelSlideMaster); masterPart != "" {
		if master, err := p.Part(masterPart); err == nil {
			ctx.Master = master.Root()
		}
	}
	return ctx, nil
}

// related returns the part targeted by the first relationship of relType from source.
func (p *Package) related(source, relType string) string {
	rels, err := p.Rels(source)
	if err != nil {
		return ""
	}
	rel, ok := rels.FirstOfType(relType)
	if !ok {
		return ""
	}
	part := rels.TargetPart(rel)
	if !p.Has(part) {
		return ""
	}
	return part
}

// NotesPart returns the notes slide part of a slide, or "" when it has none.
func (p *Package) NotesPart(s Slide) string {
	return p.related(s.Part, RelNotesSlide)
}

// NotesText returns the text of the body placeholder of a slide's notes.
func (p *Package) NotesText(s Slide) string {
	notes := p.NotesPart(s)
	if notes == "" {
		return ""
	}
	doc, err := p.Part(notes)
	if err != nil {
		return ""
	}
	for _, sp := range parser.Children(parser.ShapeTree(doc.Root()), "sp") {
		if ph, ok := parser.PlaceholderOf(sp); ok && ph.Kind == parser.PlaceholderBody {
			return parser.TextBodyText(parser.Child(sp, "txBody"))
		}
	}
	return ""
}

// ImageCount returns the number of picture relationships of a slide.
func (p *Package) ImageCount(s Slide) int {
	rels, err := p.Rels(s.Part)
	if err != nil {
		return 0
	}
	return len(rels.OfType(RelImage))
}

// DeleteSlide removes a slide from the slide list, the section list and the
// presentation relationships. The slide part, its notes and their content
// type overrides are removed unless another part still references the slide.
func (p *Package) DeleteSlide(s Slide) error {
	root, err := p.Presentation()
	if err != nil {
		return err
	}
	rels, err := p.Rels(p.presentation)
	if err != nil {
		return err
	}

	sldIDLst := parser.Child(root, "sldIdLst")
	removed := false
	for _, sldID := range parser.Children(sldIDLst, "sldId") {
		if parser.RelAttr(sldID, "id") == s.RelID {
			sldIDLst.RemoveChild(sldID)
			removed = true
			break
		}
	}
	if !removed {
		return errors.Errorf("slide %d (%s) not in slide list", s.Index, s.RelID)
	}
	rels.Remove(s.RelID)
	removeFromSections(root, s.ID)

	if p.referenced(s.Part) {
		return nil
	}

	if notes := p.NotesPart(s); notes != "" {
		p.RemovePart(notes)
		if err := p.RemoveContentTypeOverride(notes); err != nil {
			return err
		}
	}
	p.RemovePart(s.Part)
	return p.RemoveContentTypeOverride(s.Part)
}

// referenced reports whether any part other than part itself and its notes
// slide has a relationship targeting part.
func (p *Package) referenced(part string) bool {
	notes := p.related(part, RelNotesSlide)
	for _, name := range p.Names() {
		source, ok := relsSource(name)
		if !ok || source == part || source == notes {
			continue
		}
		rels, err := p.Rels(source)
		if err != nil {
			continue
		}
		for _, rel := range rels.All() {
			if rels.TargetPart(rel) == part {
				return true
			}
		}
	}
	return false
}

// removeFromSections drops a slide id from the p14 section list, if any.
func removeFromSections(root *etree.Element, id string) {
	for _, section := range sections(root) {
		list := parser.Child(section, "sldIdLst")
		for _, entry := range parser.Children(list, "sldId") {
			if v, _ := parser.Attr(entry, "id"); v == id {
				list.RemoveChild(entry)
			}
		}
	}
}

func sections(root *etree.Element) []*etree.Element {
	var result []*etree.Element
	for _, ext := range parser.Children(parser.Child(root, "extLst"), "ext") {
		result = append(result, parser.Children(parser.Child(ext, "sectionLst"), "section")...)
	}
	return result
}

// Layouts returns the layouts of the first slide master in master order.
func (p *Package) Layouts() ([]Layout, error) {
	root, err := p.Presentation()
	if err != nil {
		return nil, err
	}
	presRels, err := p.Rels(p.presentation)
	if err != nil {
		return nil, err
	}

	masterID := parser.Child(parser.Child(root, "sldMasterIdLst"), "sldMasterId")
	rel, ok := presRels.ByID(parser.RelAttr(masterID, "id"))
	if !ok {
		return nil, errors.New("presentation has no slide master")
	}
	masterPart := presRels.TargetPart(rel)
	master, err := p.Part(masterPart)
	if err != nil {
		return nil, err
	}
	masterRels, err := p.Rels(masterPart)
	if err != nil {
		return nil, err
	}

	var layouts []Layout
	for _, entry := range parser.Children(parser.Child(master.Root(), "sldLayoutIdLst"), "sldLayoutId") {
		rel, ok := masterRels.ByID(parser.RelAttr(entry, "id"))
		if !ok {
			continue
		}
		part := masterRels.TargetPart(rel)
		doc, err := p.Part(part)
		if err != nil {
			continue
		}
		name, _ := parser.Attr(parser.Child(doc.Root(), "cSld"), "name")
		layouts = append(layouts, Layout{Index: len(layouts), Part: part, Name: name})
	}
	return layouts, nil
}

// LayoutHasTitleAndBody reports whether a layout carries both a title and a body placeholder.
func (p *Package) LayoutHasTitleAndBody(l Layout) bool {
	doc, err := p.Part(l.Part)
	if err != nil {
		return false
	}
	tree := parser.ShapeTree(doc.Root())
	if tree == nil {
		return false
	}
	var title, body bool
	for _, el := range tree.ChildElements() {
		ph, ok := parser.PlaceholderOf(el)
		if !ok {
			continue
		}
		switch ph.Kind {
		case parser.PlaceholderTitle:
			title = true
		case parser.PlaceholderBody:
			body = true
		}
	}
	return title && body
}

// AddSlide creates a slide from a layout and inserts it at position in the
// slide list. Positions outside the list append the slide.
func (p *Package) AddSlide(l Layout, position int) (Slide, error) {
	layoutDoc, err := p.Part(l.Part)
	if err != nil {
		return Slide{}, err
	}
	root, err := p.Presentation()
	if err != nil {
		return Slide{}, err
	}

	part := p.nextSlidePart()
	p.AddPart(part, newSlideDocument(layoutDoc.Root()))
	if err := p.AddContentTypeOverride(part, ContentTypeSlide); err != nil {
		return Slide{}, err
	}

	slideRels, err := p.Rels(part)
	if err != nil {
		return Slide{}, err
	}
	slideRels.Add(RelSlideLayout, l.Part)

	presRels, err := p.Rels(p.presentation)
	if err != nil {
		return Slide{}, err
	}
	relID := presRels.Add(RelSlide, part)

	sldIDLst := parser.Child(root, "sldIdLst")
	if sldIDLst == nil {
		sldIDLst = etree.NewElement("p:sldIdLst")
		insertPresentationList(root, sldIDLst)
	}
	existing := parser.Children(sldIDLst, "sldId")

	id := strconv.Itoa(nextSlideID(existing))
	entry := etree.NewElement("p:sldId")
	entry.CreateAttr("id", id)
	entry.CreateAttr("r:id", relID)

	if position < 0 || position >= len(existing) {
		position = len(existing)
		sldIDLst.AddChild(entry)
	} else {
		sldIDLst.InsertChildAt(existing[position].Index(), entry)
	}

	var previous string
	if position > 0 {
		previous, _ = parser.Attr(existing[position-1], "id")
	}
	addToSection(root, id, previous)

	return Slide{Index: position, ID: id, RelID: relID, Part: part}, nil
}

func (p *Package) nextSlidePart() string {
	highest := 0
	for _, name := range p.names {
		if m := slidePartPattern.FindStringSubmatch(name); m != nil {
			if n, _ := strconv.Atoi(m[1]); n > highest {
				highest = n
			}
		}
	}
	return fmt.Sprintf("ppt/slides/slide%d.xml", highest+1)
}

// nextSlideID returns an unused slide id. Slide ids start at 256.
func nextSlideID(entries []*etree.Element) int {
	highest := 255
	for _, e := range entries {
		if n, ok := parser.AttrInt(e, "id"); ok && int(n) > highest {
			highest = int(n)
		}
	}
	return highest + 1
}

// insertPresentationList places a new p:sldIdLst after the master lists.
func insertPresentationList(root, list *etree.Element) {
	index := 0
	for _, c := range root.ChildElements() {
		switch c.Tag {
		case "sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst":
			index = c.Index() + 1
		}
	}
	root.InsertChildAt(index, list)
}

// addToSection files a new slide id into the section holding previous, or
// the first section when previous is empty or unknown.
func addToSection(root *etree.Element, id, previous string) {
	secs := sections(root)
	if len(secs) == 0 {
		return
	}

	target := secs[0]
	var after *etree.Element
	for _, section := range secs {
		for _, entry := range parser.Children(parser.Child(section, "sldIdLst"), "sldId") {
			if v, _ := parser.Attr(entry, "id"); previous != "" && v == previous {
				target, after = section, entry
			}
		}
	}

	list := parser.Child(target, "sldIdLst")
	if list == nil {
		list = target.CreateElement("p14:sldIdLst")
	}
	entry := etree.NewElement("p14:sldId")
	entry.CreateAttr("id", id)
	if after != nil {
		list.InsertChildAt(after.Index()+1, entry)
	} else {
		list.InsertChildAt(0, entry)
	}
}

// newSlideDocument builds a slide whose shape tree holds empty copies of
// the layout's content placeholders.
func newSlideDocument(layout *etree.Element) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", parser.NSA)
	sld.CreateAttr("xmlns:r", parser.NSR)
	sld.CreateAttr("xmlns:p", parser.NSP)

	tree := sld.CreateElement("p:cSld").CreateElement("p:spTree")
	nvGrp := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nvGrp.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nvGrp.CreateElement("p:cNvGrpSpPr")
	nvGrp.CreateElement("p:nvPr")
	tree.CreateElement("p:grpSpPr")

	var layoutShapes []*etree.Element
	if layoutTree := parser.ShapeTree(layout); layoutTree != nil {
		layoutShapes = layoutTree.ChildElements()
	}

	nextID := 2
	for _, el := range layoutShapes {
		ph, ok := parser.PlaceholderOf(el)
		if !ok || ph.Kind.IsChrome() {
			continue
		}
		tree.AddChild(placeholderShape(el, ph, nextID))
		nextID++
	}

	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return doc
}

// placeholderShape returns an empty p:sp inheriting everything from the
// layout placeholder it is cloned from.
func placeholderShape(layoutShape *etree.Element, ph parser.Placeholder, id int) *etree.Element {
	name := ph.Kind.String()
	if cNvPr := parser.Descend(layoutShape, "nvSpPr", "cNvPr"); cNvPr != nil {
		if v, ok := parser.Attr(cNvPr, "name"); ok {
			name = v
		}
	}

	sp := etree.NewElement("p:sp")
	nvSpPr := sp.CreateElement("p:nvSpPr")
	cNvPr := nvSpPr.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nvSpPr.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")

	phEl := nvSpPr.CreateElement("p:nvPr").CreateElement("p:ph")
	if ph.Kind != parser.PlaceholderObject {
		phEl.CreateAttr("type", ph.Kind.XMLType())
	}
	if ph.Idx != 0 {
		phEl.CreateAttr("idx", strconv.Itoa(ph.Idx))
	}
	sp.CreateElement("p:spPr")

	switch ph.Kind {
	case parser.PlaceholderTitle, parser.PlaceholderCenterTitle, parser.PlaceholderSubtitle,
		parser.PlaceholderBody, parser.PlaceholderObject:
		txBody := sp.CreateElement("p:txBody")
		txBody.CreateElement("a:bodyPr")
		txBody.CreateElement("a:lstStyle")
		txBody.CreateElement("a:p")
	}
	return sp
}
