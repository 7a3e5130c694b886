package text

import "golang.org/x/image/font"

// Fit returns the largest size in [minSize, start] at which s fits on one
// line within maxWidth, trying integer sizes downward. When nothing fits the
// face at minSize is returned; overflow is accepted rather than reported.
func (f *Faces) Fit(src Source, s string, start, maxWidth, minSize int) (font.Face, int) {
	minSize = max(minSize, 1)
	start = max(start, minSize)

	for size := start; size >= minSize; size-- {
		face := f.Face(src, size)
		if Width(face, s) <= maxWidth {
			return face, size
		}
	}
	return f.Face(src, minSize), minSize
}
