package config

import "github.com/xob0t/CardStencil/pkg/text"

const (
	DefaultConfigFile = "cardstencil.yml"
	DefaultTemplate   = "id_template.png"
)

// DefaultLayout matches the stock ID template: a 180px photo box with the
// text column flowing down from 16px below it.
func DefaultLayout() Layout {
	photo := Box{X: 520, Y: 200, Width: 180, Height: 180}
	return Layout{
		Meta:     Meta{Name: "Default ID card"},
		Template: DefaultTemplate,
		Text: TextBox{
			X:          photo.X,
			Y:          photo.Y + photo.Height + 16,
			WrapWidth:  260,
			LineGap:    2,
			SectionGap: 10,
			BlockGap:   4,
		},
		Fonts: Fonts{
			Name:   FittedFont{FontSpec: text.FontSpec{Size: 56}, Min: 28},
			ID:     text.FontSpec{Size: 34},
			Role:   FittedFont{FontSpec: text.FontSpec{Size: 52}, Min: 20},
			Small:  text.FontSpec{Size: 22},
			System: []string{"arial.ttf"},
		},
		Colors: Colors{Ink: "#000000", Accent: "#FF0000"},
		Photo:  photo,
		Limits: Limits{NameLines: 2, SchoolLines: 3, DistrictLines: 3},
	}
}

// DefaultBatch returns the stock input and output locations.
func DefaultBatch() Batch {
	return Batch{
		CSV:     "id_data.csv",
		Photos:  "photos",
		Output:  "output",
		Workers: 1,
	}
}

// DefaultColumns returns the header names of the stock spreadsheet export.
func DefaultColumns() Columns {
	return Columns{
		FirstName: "firstname",
		LastName:  "lastname",
		Role:      "Role",
		Photo:     "Photo",
		District:  "District",
		School:    "School",
	}
}

// Default returns a complete default configuration.
func Default() *Config {
	return &Config{
		Layout:  DefaultLayout(),
		Batch:   DefaultBatch(),
		Columns: DefaultColumns(),
	}
}
