// Package card composes one ID card from a record, a template and a photo.
package card

import "strings"

// Record is one input row. It is never modified after parsing.
type Record struct {
	Row       int // 1-based data row index
	FirstName string
	LastName  string
	Role      string
	School    string
	District  string
	PhotoRef  string // file name relative to the photo source, optional
}

// Anonymous reports whether both name fields are blank. Such records are
// skipped before composition.
func (r Record) Anonymous() bool {
	return strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == ""
}
