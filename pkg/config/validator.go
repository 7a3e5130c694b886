// validator.go — Check a layout for unusable geometry and soft issues.
package config

import (
	"fmt"
	"image"
	"strings"

	"github.com/xob0t/CardStencil/pkg/generator"
)

// Validate returns warnings for degraded but renderable settings and an error
// when the layout cannot be rendered at all.
func Validate(c *Config) (warnings []string, err error) {
	var errs []string
	l := c.Layout

	if l.Template == "" {
		errs = append(errs, "layout.template: path is required")
	}
	if l.Text.WrapWidth <= 0 {
		errs = append(errs, fmt.Sprintf("layout.text.wrapWidth: must be positive, got %d", l.Text.WrapWidth))
	}
	if l.Photo.Width <= 0 || l.Photo.Height <= 0 {
		errs = append(errs, fmt.Sprintf("layout.photo: size must be positive, got %dx%d", l.Photo.Width, l.Photo.Height))
	}

	sizes := []struct {
		name string
		size int
	}{
		{"layout.fonts.name.size", l.Fonts.Name.Size},
		{"layout.fonts.id.size", l.Fonts.ID.Size},
		{"layout.fonts.role.size", l.Fonts.Role.Size},
		{"layout.fonts.small.size", l.Fonts.Small.Size},
	}
	for _, s := range sizes {
		if s.size <= 0 {
			errs = append(errs, fmt.Sprintf("%s: must be positive, got %d", s.name, s.size))
		}
	}

	fitted := []struct {
		name string
		f    FittedFont
	}{
		{"layout.fonts.name", l.Fonts.Name},
		{"layout.fonts.role", l.Fonts.Role},
	}
	for _, ff := range fitted {
		if ff.f.Min <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s.min: %d is not positive, 1 is used", ff.name, ff.f.Min))
		} else if ff.f.Min > ff.f.Size {
			warnings = append(warnings, fmt.Sprintf("%s: min %d exceeds size %d, text is drawn at %d", ff.name, ff.f.Min, ff.f.Size, ff.f.Min))
		}
	}

	limits := []struct {
		name string
		n    int
	}{
		{"layout.limits.nameLines", l.Limits.NameLines},
		{"layout.limits.schoolLines", l.Limits.SchoolLines},
		{"layout.limits.districtLines", l.Limits.DistrictLines},
	}
	for _, lim := range limits {
		switch {
		case lim.n < 0:
			errs = append(errs, fmt.Sprintf("%s: must not be negative, got %d", lim.name, lim.n))
		case lim.n == 0:
			warnings = append(warnings, fmt.Sprintf("%s: 0 hides the block", lim.name))
		}
	}

	colors := []struct{ name, hex string }{
		{"layout.colors.ink", l.Colors.Ink},
		{"layout.colors.accent", l.Colors.Accent},
	}
	for _, c := range colors {
		if _, err := generator.ParseColor(c.hex); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, black is used", c.name, err))
		}
	}

	if l.QR.Enabled() {
		if _, err := generator.ParseQRLevel(l.QR.Level); err != nil {
			warnings = append(warnings, fmt.Sprintf("layout.qr.level: %v, medium is used", err))
		}
	}

	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Sprintf("batch.workers: must not be negative, got %d", c.Batch.Workers))
	}
	if c.Columns.FirstName == "" && c.Columns.LastName == "" {
		errs = append(errs, "columns: firstName or lastName header is required")
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}

// CheckBounds warns about layout regions that fall outside the template.
// Drawing outside is clipped, not an error.
func CheckBounds(l Layout, template image.Rectangle) []string {
	var warnings []string

	if !l.Photo.Rect().In(template) {
		warnings = append(warnings, fmt.Sprintf("photo box %v exceeds template bounds %v", l.Photo.Rect(), template))
	}
	column := image.Rect(l.Text.X, l.Text.Y, l.Text.X+l.Text.WrapWidth, l.Text.Y+1)
	if !column.In(template) {
		warnings = append(warnings, fmt.Sprintf("text column %v starts outside template bounds %v", column, template))
	}
	if l.QR.Enabled() {
		qr := image.Rect(l.QR.X, l.QR.Y, l.QR.X+l.QR.Size, l.QR.Y+l.QR.Size)
		if !qr.In(template) {
			warnings = append(warnings, fmt.Sprintf("qr box %v exceeds template bounds %v", qr, template))
		}
	}
	return warnings
}
