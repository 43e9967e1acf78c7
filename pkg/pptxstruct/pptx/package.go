// Package pptx reads, edits and writes the OOXML package of a presentation.
// Parts are loaded lazily: XML parts as etree documents, relationship parts
// with a streaming decoder. Everything else is carried through as raw bytes.
package pptx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// ContentTypesPart is the name of the package content types part.
const ContentTypesPart = "[Content_Types].xml"

// Relationship types used by presentations.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	RelImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Content types of presentation parts.
const (
	ContentTypeSlide      = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ContentTypeNotesSlide = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
)

// Package is an opened presentation package held in memory.
type Package struct {
	names []string
	data  map[string][]byte
	docs  map[string]*etree.Document
	rels  map[string]*Relationships

	presentation string
}

// Open reads a presentation package from disk.
func Open(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	pkg, err := OpenBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return pkg, nil
}

// OpenBytes reads a presentation package from memory.
func OpenBytes(data []byte) (*Package, error) {
	if err := sniffContainer(data); err != nil {
		return nil, err
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}

	pkg := &Package{
		data: make(map[string][]byte, len(r.File)),
		docs: make(map[string]*etree.Document),
		rels: make(map[string]*Relationships),
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFormat, "reading %s: %v", f.Name, err)
		}
		pkg.names = append(pkg.names, f.Name)
		pkg.data[f.Name] = content
	}

	if !pkg.Has(ContentTypesPart) {
		return nil, errors.Wrap(ErrInvalidFormat, "missing "+ContentTypesPart)
	}

	rootRels, err := pkg.Rels("")
	if err != nil {
		return nil, err
	}
	main, ok := rootRels.FirstOfType(RelOfficeDocument)
	if !ok || !pkg.Has(rootRels.TargetPart(main)) {
		return nil, errors.Wrap(ErrInvalidFormat, "no presentation part")
	}
	pkg.presentation = rootRels.TargetPart(main)
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// PresentationPart returns the name of the main presentation part.
func (p *Package) PresentationPart() string {
	return p.presentation
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.data[name]
	return ok
}

// Names returns the part names in package order.
func (p *Package) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Part returns the parsed XML document of a part. The document is cached
// and written back on Save, so edits to it persist.
func (p *Package) Part(name string) (*etree.Document, error) {
	if doc, ok := p.docs[name]; ok {
		return doc, nil
	}
	raw, ok := p.data[name]
	if !ok {
		return nil, errors.Errorf("part %s not found", name)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	p.docs[name] = doc
	return doc, nil
}

// AddPart adds a new XML part, replacing any existing part of the same name.
func (p *Package) AddPart(name string, doc *etree.Document) {
	if !p.Has(name) {
		p.names = append(p.names, name)
	}
	p.data[name] = nil
	p.docs[name] = doc
}

// RemovePart removes a part and its relationships part from the package.
func (p *Package) RemovePart(name string) {
	for _, n := range []string{name, relsPath(name)} {
		delete(p.data, n)
		delete(p.docs, n)
	}
	delete(p.rels, name)

	kept := p.names[:0]
	for _, n := range p.names {
		if p.Has(n) {
			kept = append(kept, n)
		}
	}
	p.names = kept
}

// Write serializes the package as a zip archive. Loaded parts are written
// from their in-memory state.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	var added []string
	for source, rels := range p.rels {
		if name := relsPath(source); !p.Has(name) && len(rels.items) > 0 {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	names := append(p.Names(), added...)

	for _, name := range names {
		content, err := p.serialize(name)
		if err != nil {
			return err
		}
		if content == nil {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
		if _, err := fw.Write(content); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
	}
	return zw.Close()
}

func (p *Package) serialize(name string) ([]byte, error) {
	if source, ok := relsSource(name); ok {
		if rels, loaded := p.rels[source]; loaded {
			if len(rels.items) == 0 && !p.Has(name) {
				return nil, nil
			}
			return rels.marshal()
		}
	}
	if doc, ok := p.docs[name]; ok {
		return doc.WriteToBytes()
	}
	return p.data[name], nil
}

// Bytes returns the serialized package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to path. The archive is written to a temporary
// file in the target directory and renamed into place.
func (p *Package) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".pptxstruct-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if err := p.Write(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming to %s", path)
	}
	return nil
}

// AddContentTypeOverride registers the content type of a part.
func (p *Package) AddContentTypeOverride(part, contentType string) error {
	doc, err := p.Part(ContentTypesPart)
	if err != nil {
		return err
	}
	partName := "/" + part
	root := doc.Root()
	for _, o := range root.SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == partName {
			o.CreateAttr("ContentType", contentType)
			return nil
		}
	}
	o := root.CreateElement("Override")
	o.CreateAttr("PartName", partName)
	o.CreateAttr("ContentType", contentType)
	return nil
}

// RemoveContentTypeOverride drops the content type override of a part.
func (p *Package) RemoveContentTypeOverride(part string) error {
	doc, err := p.Part(ContentTypesPart)
	if err != nil {
		return err
	}
	partName := "/" + part
	root := doc.Root()
	for _, o := range root.SelectElements("Override") {
		if strings.EqualFold(o.SelectAttrValue("PartName", ""), partName) {
			root.RemoveChild(o)
		}
	}
	return nil
}
