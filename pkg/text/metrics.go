// Package text measures, wraps and fits strings against pixel budgets.
//
// All measurements use the ink bounds of the rendered glyphs rather than the
// nominal font metrics, so wrap and fit decisions stay accurate whichever
// font the fallback chain resolved.
package text

import "golang.org/x/image/font"

// Measure returns the width and height in pixels of the tight bounding box
// of s rendered in face. An empty string measures (0, 0).
func Measure(face font.Face, s string) (w, h int) {
	if s == "" {
		return 0, 0
	}
	b, _ := font.BoundString(face, s)
	return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
}

// Width returns the measured width of s.
func Width(face font.Face, s string) int {
	w, _ := Measure(face, s)
	return w
}

// Height returns the measured height of s.
func Height(face font.Face, s string) int {
	_, h := Measure(face, s)
	return h
}
