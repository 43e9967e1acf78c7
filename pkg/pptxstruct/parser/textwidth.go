package parser

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Relative character widths in em. Wide characters (kana, CJK ideographs,
// full-width forms) render close to a full em; everything else about half.
const (
	WideCharEm   = 0.9
	NarrowCharEm = 0.5
)

// Width margins applied when comparing estimated text width to shape width.
const (
	// ShrinkMargin is the share of the shape width text must fit in before it is shrunk.
	ShrinkMargin = 0.95
	// WarnMargin is the share of the shape width beyond which an overflow warning is raised.
	WarnMargin = 1.0
)

// IsWide reports whether r renders at full width.
func IsWide(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	}
	return width.LookupRune(r).Kind() == width.EastAsianFullwidth
}

// EstimateTextWidth estimates the rendered width in inches of a single line
// of text at the given font size in points.
func EstimateTextWidth(text string, fontSizePt float64) float64 {
	wide := 0
	for _, r := range text {
		if IsWide(r) {
			wide++
		}
	}
	narrow := utf8.RuneCountInString(text) - wide

	wideWidth := float64(wide) * (fontSizePt / 72) * WideCharEm
	narrowWidth := float64(narrow) * (fontSizePt / 72) * NarrowCharEm
	return wideWidth + narrowWidth
}

// LongestLine returns the line of text with the most characters.
// Ties resolve to the first such line.
func LongestLine(text string) string {
	longest := ""
	count := -1
	for _, line := range strings.Split(text, "\n") {
		if n := utf8.RuneCountInString(line); n > count {
			longest, count = line, n
		}
	}
	return longest
}

// OptimalFontSize returns the font size at which text fits within 95% of the
// available width. It never returns more than originalPt and never less than
// minPt unless minPt itself exceeds originalPt.
func OptimalFontSize(text string, availableWidthIn, originalPt, minPt float64) float64 {
	return FitFontSize(text, availableWidthIn, originalPt, minPt, ShrinkMargin)
}

// FitFontSize is OptimalFontSize with an explicit width margin.
func FitFontSize(text string, availableWidthIn, originalPt, minPt, margin float64) float64 {
	estimated := EstimateTextWidth(LongestLine(text), originalPt)
	limit := availableWidthIn * margin
	if estimated <= limit {
		return originalPt
	}

	ratio := limit / estimated
	size := math.Max(originalPt*ratio, minPt)
	return math.Min(size, originalPt)
}

// CheckOverflow estimates the longest line's width and reports whether it
// exceeds the shape width times margin.
func CheckOverflow(text string, shapeWidthIn, fontSizePt, margin float64) (estimated float64, overflows bool) {
	estimated = EstimateTextWidth(LongestLine(text), fontSizePt)
	return estimated, estimated > shapeWidthIn*margin
}
