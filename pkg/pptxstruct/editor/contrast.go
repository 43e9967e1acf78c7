package editor

import (
	"math"

	"github.com/beevik/etree"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/parser"
)

var (
	// LightText is used on dark backgrounds.
	LightText = models.RGB{R: 0xFF, G: 0xFF, B: 0xFF}
	// DarkText is used on light or unknown backgrounds.
	DarkText = models.RGB{R: 0x33, G: 0x33, B: 0x33}
)

// Backgrounds assumed when only the existing text colors hint at one.
var (
	assumedDarkBackground  = models.RGB{R: 30, G: 30, B: 60}
	assumedLightBackground = models.RGB{R: 240, G: 240, B: 245}
)

// Luminance returns the WCAG relative luminance of a color, 0 to 1.
func Luminance(c models.RGB) float64 {
	channel := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// IsDark reports whether a background color is dark.
func IsDark(c models.RGB) bool {
	return Luminance(c) < 0.5
}

// ContrastColor returns the text color readable on the given background.
func ContrastColor(background models.RGB) models.RGB {
	if IsDark(background) {
		return LightText
	}
	return DarkText
}

// TextColorForSlide picks a text color for a slide from its background,
// looking at the slide, then its layout, then its master. When no solid
// background is declared the colors of existing text decide, and DarkText is
// the final fallback.
func TextColorForSlide(ctx parser.SlideContext) models.RGB {
	if bg, ok := BackgroundColor(ctx); ok {
		return ContrastColor(bg)
	}
	if bg, ok := backgroundFromText(ctx.Slide); ok {
		return ContrastColor(bg)
	}
	return DarkText
}

// BackgroundColor returns the first solid RGB background of the slide, layout or master.
func BackgroundColor(ctx parser.SlideContext) (models.RGB, bool) {
	for _, root := range []*etree.Element{ctx.Slide, ctx.Layout, ctx.Master} {
		fill := parser.Descend(root, "cSld", "bg", "bgPr", "solidFill", "srgbClr")
		if v, ok := parser.Attr(fill, "val"); ok {
			if c, err := models.ParseRGB(v); err == nil {
				return c, true
			}
		}
	}
	return models.RGB{}, false
}

// backgroundFromText infers a background from explicit run colors: mostly
// light text implies a dark background and vice versa.
func backgroundFromText(slide *etree.Element) (models.RGB, bool) {
	tree := parser.ShapeTree(slide)
	if tree == nil {
		return models.RGB{}, false
	}

	var light, dark int
	for _, clr := range tree.FindElements(".//rPr/solidFill/srgbClr") {
		v, _ := parser.Attr(clr, "val")
		c, err := models.ParseRGB(v)
		if err != nil {
			continue
		}
		switch lum := Luminance(c); {
		case lum > 0.8:
			light++
		case lum < 0.3:
			dark++
		}
	}

	switch {
	case light > dark:
		return assumedDarkBackground, true
	case dark > light:
		return assumedLightBackground, true
	}
	return models.RGB{}, false
}
