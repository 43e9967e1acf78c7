package parser

import "math"

// Box is an axis-aligned bounding box in inches.
type Box struct {
	Left, Top, Width, Height float64
}

// Right returns the right edge.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// IntersectionArea returns the area of the intersection of two boxes, 0 when
// they do not overlap or only touch.
func IntersectionArea(a, b Box) float64 {
	if !(a.Left < b.Right() && a.Right() > b.Left && a.Top < b.Bottom() && a.Bottom() > b.Top) {
		return 0
	}
	w := math.Min(a.Right(), b.Right()) - math.Max(a.Left, b.Left)
	h := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Top, b.Top)
	return w * h
}

// DetectOverlaps computes pairwise bounding-box intersections of positioned
// shapes. The result maps a shape's ordinal to the ordinals of the shapes it
// overlaps with the overlap area in square inches, rounded to two decimals.
// Both directions of every pair are recorded.
func DetectOverlaps(shapes []Positioned) map[int]map[int]float64 {
	result := make(map[int]map[int]float64)
	for i, a := range shapes {
		boxA := a.Box()
		for j, b := range shapes {
			if i == j {
				continue
			}
			area := IntersectionArea(boxA, b.Box())
			if area <= 0 {
				continue
			}
			if result[a.Ordinal] == nil {
				result[a.Ordinal] = make(map[int]float64)
			}
			result[a.Ordinal][b.Ordinal] = Round2(area)
		}
	}
	return result
}
