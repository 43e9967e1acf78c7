package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ThemeColor is a named reference into the presentation theme's color scheme.
type ThemeColor string

const (
	ThemeAccent1           ThemeColor = "ACCENT_1"
	ThemeAccent2           ThemeColor = "ACCENT_2"
	ThemeAccent3           ThemeColor = "ACCENT_3"
	ThemeAccent4           ThemeColor = "ACCENT_4"
	ThemeAccent5           ThemeColor = "ACCENT_5"
	ThemeAccent6           ThemeColor = "ACCENT_6"
	ThemeBackground1       ThemeColor = "BACKGROUND_1"
	ThemeBackground2       ThemeColor = "BACKGROUND_2"
	ThemeDark1             ThemeColor = "DARK_1"
	ThemeDark2             ThemeColor = "DARK_2"
	ThemeLight1            ThemeColor = "LIGHT_1"
	ThemeLight2            ThemeColor = "LIGHT_2"
	ThemeText1             ThemeColor = "TEXT_1"
	ThemeText2             ThemeColor = "TEXT_2"
	ThemeHyperlink         ThemeColor = "HYPERLINK"
	ThemeFollowedHyperlink ThemeColor = "FOLLOWED_HYPERLINK"
)

// themeSchemeValues maps theme color names to a:schemeClr val attributes.
var themeSchemeValues = map[ThemeColor]string{
	ThemeAccent1:           "accent1",
	ThemeAccent2:           "accent2",
	ThemeAccent3:           "accent3",
	ThemeAccent4:           "accent4",
	ThemeAccent5:           "accent5",
	ThemeAccent6:           "accent6",
	ThemeBackground1:       "bg1",
	ThemeBackground2:       "bg2",
	ThemeDark1:             "dk1",
	ThemeDark2:             "dk2",
	ThemeLight1:            "lt1",
	ThemeLight2:            "lt2",
	ThemeText1:             "tx1",
	ThemeText2:             "tx2",
	ThemeHyperlink:         "hlink",
	ThemeFollowedHyperlink: "folHlink",
}

// ParseThemeColor parses a theme color name. It accepts a trailing
// enumeration value such as "ACCENT_1 (5)".
func ParseThemeColor(name string) (ThemeColor, bool) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	tc := ThemeColor(strings.ToUpper(name))
	_, ok := themeSchemeValues[tc]
	return tc, ok
}

// ThemeColorFromScheme maps an a:schemeClr val to a theme color name.
func ThemeColorFromScheme(val string) (ThemeColor, bool) {
	for tc, v := range themeSchemeValues {
		if v == val {
			return tc, true
		}
	}
	return "", false
}

// SchemeValue returns the a:schemeClr val for the theme color.
func (t ThemeColor) SchemeValue() string {
	return themeSchemeValues[t]
}

// RGB is an explicit 24-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseRGB parses six hex digits with an optional leading '#'.
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the color as six upper-case hex digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
