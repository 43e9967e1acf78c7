package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Relationship is a single entry of a relationships part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the relationship points outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships are the outgoing relationships of one source part.
type Relationships struct {
	source string
	items  []Relationship
}

// Rels returns the relationships of a part. The root relationships use the
// empty source name. A part without a relationships part has an empty set.
func (p *Package) Rels(source string) (*Relationships, error) {
	if rels, ok := p.rels[source]; ok {
		return rels, nil
	}
	rels := &Relationships{source: source}
	if raw, ok := p.data[relsPath(source)]; ok {
		items, err := parseRelationships(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", relsPath(source))
		}
		rels.items = items
	}
	p.rels[source] = rels
	return rels, nil
}

// parseRelationships reads the Relationship entries of a relationships part.
func parseRelationships(data []byte) ([]Relationship, error) {
	var result []Relationship

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel Relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.ID = attr.Value
				case "Target":
					rel.Target = attr.Value
				case "Type":
					rel.Type = attr.Value
				case "TargetMode":
					rel.TargetMode = attr.Value
				}
			}
			result = append(result, rel)
		}
	}

	return result, nil
}

func (r *Relationships) marshal() ([]byte, error) {
	doc := struct {
		XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
		Items   []Relationship `xml:"Relationship"`
	}{Items: r.items}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", relsPath(r.source))
	}
	return append([]byte(xml.Header), out...), nil
}

// All returns every relationship in document order.
func (r *Relationships) All() []Relationship {
	out := make([]Relationship, len(r.items))
	copy(out, r.items)
	return out
}

// ByID looks up a relationship by its id.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// OfType returns the relationships with the given type.
func (r *Relationships) OfType(relType string) []Relationship {
	var result []Relationship
	for _, rel := range r.items {
		if rel.Type == relType {
			result = append(result, rel)
		}
	}
	return result
}

// FirstOfType returns the first relationship with the given type.
func (r *Relationships) FirstOfType(relType string) (Relationship, bool) {
	for _, rel := range r.items {
		if rel.Type == relType {
			return rel, true
		}
	}
	return Relationship{}, false
}

// TargetPart resolves a relationship target to a part name. External
// targets resolve to the empty string.
func (r *Relationships) TargetPart(rel Relationship) string {
	if rel.External() {
		return ""
	}
	return resolveTarget(r.source, rel.Target)
}

// Add appends a relationship to part and returns its new id.
func (r *Relationships) Add(relType, part string) string {
	id := r.nextID()
	r.items = append(r.items, Relationship{
		ID:     id,
		Type:   relType,
		Target: relativeTarget(r.source, part),
	})
	return id
}

// Remove drops the relationship with the given id.
func (r *Relationships) Remove(id string) bool {
	for i, rel := range r.items {
		if rel.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Relationships) nextID() string {
	highest := 0
	for _, rel := range r.items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("rId%d", highest+1)
}

// relsPath returns the relationships part name of a source part.
func relsPath(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

// relsSource is the inverse of relsPath.
func relsSource(name string) (string, bool) {
	if name == "_rels/.rels" {
		return "", true
	}
	dir, base := path.Split(name)
	if !strings.HasSuffix(dir, "_rels/") || !strings.HasSuffix(base, ".rels") {
		return "", false
	}
	return strings.TrimSuffix(dir, "_rels/") + strings.TrimSuffix(base, ".rels"), true
}

// resolveTarget converts a relationship target relative to source into a part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "./")
}

// relativeTarget returns the target of part as seen from source.
func relativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	if path.Dir(source) == "." {
		from = nil
	}
	to := strings.Split(part, "/")

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	var parts []string
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	return strings.Join(parts, "/")
}
