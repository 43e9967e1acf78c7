package parser

import (
	"strconv"

	"github.com/beevik/etree"
)

// XML namespaces used in PresentationML and DrawingML
const (
	NSP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Child returns the first child element of el with the given local name.
// Namespace prefixes are ignored so documents written with non-default
// prefixes are handled alike.
func Child(el *etree.Element, local string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

// Children returns all child elements of el with the given local name.
func Children(el *etree.Element, local string) []*etree.Element {
	if el == nil {
		return nil
	}
	var result []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			result = append(result, c)
		}
	}
	return result
}

// Descend follows a chain of local names from el, returning nil when any step is missing.
func Descend(el *etree.Element, locals ...string) *etree.Element {
	for _, local := range locals {
		el = Child(el, local)
		if el == nil {
			return nil
		}
	}
	return el
}

// Attr returns the value of the attribute with the given local name.
// Prefixed attributes (r:id) are matched by local name and a non-empty prefix.
func Attr(el *etree.Element, local string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, a := range el.Attr {
		if a.Key == local && a.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// RelAttr returns the value of a relationship-namespaced attribute such as r:id.
func RelAttr(el *etree.Element, local string) string {
	if el == nil {
		return ""
	}
	for _, a := range el.Attr {
		if a.Key == local && a.Space != "" && a.Space != "xmlns" {
			return a.Value
		}
	}
	return ""
}

// AttrInt parses an integer attribute.
func AttrInt(el *etree.Element, local string) (int64, bool) {
	v, ok := Attr(el, local)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AttrBool parses an OOXML boolean attribute ("1", "true", "0", "false").
func AttrBool(el *etree.Element, local string) (bool, bool) {
	v, ok := Attr(el, local)
	if !ok {
		return false, false
	}
	switch v {
	case "1", "true", "on":
		return true, true
	case "0", "false", "off":
		return false, true
	}
	return false, false
}
