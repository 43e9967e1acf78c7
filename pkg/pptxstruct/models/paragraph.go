package models

import (
	"encoding/json"
	"strings"
)

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignLeft    Alignment = "LEFT"
	AlignCenter  Alignment = "CENTER"
	AlignRight   Alignment = "RIGHT"
	AlignJustify Alignment = "JUSTIFY"
)

var alignmentToXML = map[Alignment]string{
	AlignLeft:    "l",
	AlignCenter:  "ctr",
	AlignRight:   "r",
	AlignJustify: "just",
}

// ParseAlignment parses an alignment name case-insensitively.
func ParseAlignment(s string) (Alignment, bool) {
	a := Alignment(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := alignmentToXML[a]
	return a, ok
}

// AlignmentFromXML maps an a:pPr algn value to an Alignment.
// Values outside the four supported alignments map to "".
func AlignmentFromXML(v string) Alignment {
	for a, x := range alignmentToXML {
		if x == v {
			return a
		}
	}
	return ""
}

// XML returns the a:pPr algn value for the alignment.
func (a Alignment) XML() string {
	return alignmentToXML[a]
}

// Paragraph represents one paragraph of text plus its display attributes.
// Font and color attributes describe the paragraph's first run.
type Paragraph struct {
	// Text is the concatenated run text with soft line breaks turned into spaces.
	Text string
	// Bullet is true when a bullet character or auto-number marker is present.
	Bullet bool
	// Level is the 0-based indent depth. Only meaningful when Bullet is true.
	Level int
	// Alignment is the horizontal alignment, "" when inherited.
	Alignment Alignment
	// SpaceBefore is the spacing before the paragraph in points.
	SpaceBefore *float64
	// SpaceAfter is the spacing after the paragraph in points.
	SpaceAfter *float64
	// LineSpacing is the line spacing as a multiple of single spacing.
	LineSpacing *float64
	// FontSize is the first run's font size in points.
	FontSize *float64
	// FontName is the first run's latin typeface.
	FontName string
	Bold      *bool
	Italic    *bool
	Underline *bool
	// Color is an explicit RGB color as six hex digits.
	Color string
	// ThemeColor is a named theme color reference (e.g. ACCENT_1).
	ThemeColor string
}

type paragraphJSON struct {
	Text        string    `json:"text"`
	Bullet      bool      `json:"bullet,omitempty"`
	Level       *int      `json:"level,omitempty"`
	Alignment   Alignment `json:"alignment,omitempty"`
	SpaceBefore *float64  `json:"space_before,omitempty"`
	SpaceAfter  *float64  `json:"space_after,omitempty"`
	LineSpacing *float64  `json:"line_spacing,omitempty"`
	FontSize    *float64  `json:"font_size,omitempty"`
	FontName    string    `json:"font_name,omitempty"`
	Bold        *bool     `json:"bold,omitempty"`
	Italic      *bool     `json:"italic,omitempty"`
	Underline   *bool     `json:"underline,omitempty"`
	Color       string    `json:"color,omitempty"`
	ThemeColor  string    `json:"theme_color,omitempty"`
}

// MarshalJSON emits level only for bullet paragraphs, and at most one of
// color and theme_color.
func (p Paragraph) MarshalJSON() ([]byte, error) {
	out := paragraphJSON{
		Text:        p.Text,
		Bullet:      p.Bullet,
		Alignment:   p.Alignment,
		SpaceBefore: p.SpaceBefore,
		SpaceAfter:  p.SpaceAfter,
		LineSpacing: p.LineSpacing,
		FontSize:    p.FontSize,
		FontName:    p.FontName,
		Bold:        p.Bold,
		Italic:      p.Italic,
		Underline:   p.Underline,
		Color:       p.Color,
	}
	if p.Bullet {
		level := p.Level
		out.Level = &level
	}
	if p.Color == "" {
		out.ThemeColor = p.ThemeColor
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a paragraph directive.
func (p *Paragraph) UnmarshalJSON(data []byte) error {
	var in paragraphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Paragraph{
		Text:        in.Text,
		Bullet:      in.Bullet,
		Alignment:   in.Alignment,
		SpaceBefore: in.SpaceBefore,
		SpaceAfter:  in.SpaceAfter,
		LineSpacing: in.LineSpacing,
		FontSize:    in.FontSize,
		FontName:    in.FontName,
		Bold:        in.Bold,
		Italic:      in.Italic,
		Underline:   in.Underline,
		Color:       in.Color,
		ThemeColor:  in.ThemeColor,
	}
	if in.Level != nil {
		p.Level = *in.Level
	}
	return nil
}
