// Package config holds the card layout and batch settings loaded from YAML.
package config

import (
	"image"

	"github.com/xob0t/CardStencil/pkg/text"
)

// Config is the top-level structure of a cardstencil.yml file.
type Config struct {
	Layout  Layout  `yaml:"layout" json:"layout"`
	Batch   Batch   `yaml:"batch" json:"batch"`
	Columns Columns `yaml:"columns" json:"columns"`
}

// ── Layout ──

// Layout is the immutable geometry, typography and color set for one card
// template. The composer reads it and never mutates it.
type Layout struct {
	Meta     Meta    `yaml:"meta" json:"meta"`
	Template string  `yaml:"template" json:"template"` // background image path
	Text     TextBox `yaml:"text" json:"text"`
	Fonts    Fonts   `yaml:"fonts" json:"fonts"`
	Colors   Colors  `yaml:"colors" json:"colors"`
	Photo    Box     `yaml:"photo" json:"photo"`
	Limits   Limits  `yaml:"limits" json:"limits"`
	QR       QR      `yaml:"qr" json:"qr"`
}

// Meta holds layout metadata.
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// TextBox is the origin and spacing of the single text column.
type TextBox struct {
	X          int `yaml:"x" json:"x"`
	Y          int `yaml:"y" json:"y"`
	WrapWidth  int `yaml:"wrapWidth" json:"wrapWidth"`
	LineGap    int `yaml:"lineGap" json:"lineGap"`       // after each drawn line
	SectionGap int `yaml:"sectionGap" json:"sectionGap"` // after name, ID and role
	BlockGap   int `yaml:"blockGap" json:"blockGap"`     // between school and district
}

// FittedFont is a font that shrinks from Size down to Min to fit the wrap width.
type FittedFont struct {
	text.FontSpec `yaml:",inline"`
	Min           int `yaml:"min" json:"min"`
}

// Fonts lists the faces used by each text block.
type Fonts struct {
	Name  FittedFont    `yaml:"name" json:"name"`
	ID    text.FontSpec `yaml:"id" json:"id"`
	Role  FittedFont    `yaml:"role" json:"role"`
	Small text.FontSpec `yaml:"small" json:"small"` // school and district

	// System font file names tried when a custom path is missing, before
	// falling back to the embedded font.
	System []string `yaml:"system" json:"system"`
}

// Colors are "#rrggbb" hex strings.
type Colors struct {
	Ink    string `yaml:"ink" json:"ink"`       // name, ID, school, district
	Accent string `yaml:"accent" json:"accent"` // role
}

// Box is an absolute pixel rectangle.
type Box struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Rect returns the box as an image rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Limits caps the number of wrapped lines per block. Extra lines are dropped.
type Limits struct {
	NameLines     int `yaml:"nameLines" json:"nameLines"`
	SchoolLines   int `yaml:"schoolLines" json:"schoolLines"`
	DistrictLines int `yaml:"districtLines" json:"districtLines"`
}

// QR places a QR code of the generated ID. Size 0 disables it.
type QR struct {
	X     int    `yaml:"x" json:"x"`
	Y     int    `yaml:"y" json:"y"`
	Size  int    `yaml:"size" json:"size"`
	Level string `yaml:"level,omitempty" json:"level,omitempty"` // low, medium, high, highest
}

// Enabled reports whether a QR code should be drawn.
func (q QR) Enabled() bool { return q.Size > 0 }

// ── Batch ──

// Batch locates the inputs and outputs of a batch run.
type Batch struct {
	CSV     string `yaml:"csv" json:"csv"`
	Photos  string `yaml:"photos" json:"photos"`
	Output  string `yaml:"output" json:"output"`
	Workers int    `yaml:"workers" json:"workers"`
}

// Columns maps record fields to CSV header names, matched case-insensitively.
type Columns struct {
	FirstName string `yaml:"firstName" json:"firstName"`
	LastName  string `yaml:"lastName" json:"lastName"`
	Role      string `yaml:"role" json:"role"`
	Photo     string `yaml:"photo" json:"photo"`
	District  string `yaml:"district" json:"district"`
	School    string `yaml:"school" json:"school"`
}
