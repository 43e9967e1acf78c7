package parser

import (
	"strconv"

	"github.com/beevik/etree"
)

// PlaceholderKind is the closed set of placeholder types a shape can carry.
type PlaceholderKind int

const (
	PlaceholderNone PlaceholderKind = iota
	PlaceholderTitle
	PlaceholderCenterTitle
	PlaceholderSubtitle
	PlaceholderBody
	PlaceholderObject
	PlaceholderChart
	PlaceholderTable
	PlaceholderClipArt
	PlaceholderDiagram
	PlaceholderMedia
	PlaceholderSlideImage
	PlaceholderPicture
	PlaceholderHeader
	PlaceholderFooter
	PlaceholderDate
	PlaceholderSlideNumber
)

// placeholderXMLTypes maps p:ph type attribute values to kinds.
var placeholderXMLTypes = map[string]PlaceholderKind{
	"title":    PlaceholderTitle,
	"ctrTitle": PlaceholderCenterTitle,
	"subTitle": PlaceholderSubtitle,
	"body":     PlaceholderBody,
	"obj":      PlaceholderObject,
	"chart":    PlaceholderChart,
	"tbl":      PlaceholderTable,
	"clipArt":  PlaceholderClipArt,
	"dgm":      PlaceholderDiagram,
	"media":    PlaceholderMedia,
	"sldImg":   PlaceholderSlideImage,
	"pic":      PlaceholderPicture,
	"hdr":      PlaceholderHeader,
	"ftr":      PlaceholderFooter,
	"dt":       PlaceholderDate,
	"sldNum":   PlaceholderSlideNumber,
}

var placeholderNames = map[PlaceholderKind]string{
	PlaceholderTitle:       "TITLE",
	PlaceholderCenterTitle: "CENTER_TITLE",
	PlaceholderSubtitle:    "SUBTITLE",
	PlaceholderBody:        "BODY",
	PlaceholderObject:      "OBJECT",
	PlaceholderChart:       "CHART",
	PlaceholderTable:       "TABLE",
	PlaceholderClipArt:     "CLIP_ART",
	PlaceholderDiagram:     "ORG_CHART",
	PlaceholderMedia:       "MEDIA_CLIP",
	PlaceholderSlideImage:  "SLIDE_IMAGE",
	PlaceholderPicture:     "PICTURE",
	PlaceholderHeader:      "HEADER",
	PlaceholderFooter:      "FOOTER",
	PlaceholderDate:        "DATE",
	PlaceholderSlideNumber: "SLIDE_NUMBER",
}

// String returns the placeholder name used in inventory JSON ("" for none).
func (k PlaceholderKind) String() string {
	return placeholderNames[k]
}

// XMLType returns the p:ph type attribute value.
func (k PlaceholderKind) XMLType() string {
	for v, kind := range placeholderXMLTypes {
		if kind == k {
			return v
		}
	}
	return ""
}

// IsChrome reports whether the kind is slide furniture (slide number, footer,
// date) that never takes part in the inventory.
func (k PlaceholderKind) IsChrome() bool {
	switch k {
	case PlaceholderSlideNumber, PlaceholderFooter, PlaceholderDate:
		return true
	}
	return false
}

// IsTitle reports whether the kind is a slide title.
func (k PlaceholderKind) IsTitle() bool {
	return k == PlaceholderTitle || k == PlaceholderCenterTitle
}

// MasterKind returns the kind of the slide-master placeholder a layout
// placeholder of this kind inherits from.
func (k PlaceholderKind) MasterKind() PlaceholderKind {
	switch k {
	case PlaceholderTitle, PlaceholderCenterTitle:
		return PlaceholderTitle
	case PlaceholderDate, PlaceholderFooter, PlaceholderSlideNumber, PlaceholderHeader:
		return k
	case PlaceholderNone:
		return PlaceholderNone
	}
	return PlaceholderBody
}

// Placeholder identifies a placeholder by kind and index.
type Placeholder struct {
	Kind PlaceholderKind
	Idx  int
}

// PlaceholderOf returns the placeholder identity of a shape element
// (p:sp, p:pic, p:graphicFrame). The second result is false for shapes that
// are not placeholders.
func PlaceholderOf(shape *etree.Element) (Placeholder, bool) {
	var nv *etree.Element
	for _, c := range shape.ChildElements() {
		switch c.Tag {
		case "nvSpPr", "nvPicPr", "nvGraphicFramePr", "nvGrpSpPr", "nvCxnSpPr":
			nv = c
		}
	}
	ph := Descend(nv, "nvPr", "ph")
	if ph == nil {
		return Placeholder{}, false
	}

	result := Placeholder{Kind: PlaceholderObject}
	if v, ok := Attr(ph, "type"); ok {
		if kind, known := placeholderXMLTypes[v]; known {
			result.Kind = kind
		}
	}
	if v, ok := Attr(ph, "idx"); ok {
		if idx, err := strconv.Atoi(v); err == nil {
			result.Idx = idx
		}
	}
	return result, true
}
