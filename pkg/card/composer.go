// composer.go - Card composition: stacks text blocks down a single column and
// pastes the normalized photo onto a clone of the template.
// Layers: template -> name -> ID -> role -> school -> district -> photo -> QR.
package card

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/generator"
	"github.com/xob0t/CardStencil/pkg/logging"
	"github.com/xob0t/CardStencil/pkg/photo"
	"github.com/xob0t/CardStencil/pkg/text"
)

// Block names a text section of the card.
type Block string

const (
	BlockName     Block = "name"
	BlockID       Block = "id"
	BlockRole     Block = "role"
	BlockSchool   Block = "school"
	BlockDistrict Block = "district"
)

// Line is one drawn line of text.
type Line struct {
	Block Block
	Text  string
	X, Y  int // top of the ascent
	Size  int // font size in pixels
}

// PhotoStatus reports what happened to the record's photo.
type PhotoStatus int

const (
	PhotoNone    PhotoStatus = iota // no reference
	PhotoPlaced                     // pasted into the photo box
	PhotoMissing                    // reference could not be opened
	PhotoFailed                     // opened but could not be normalized
)

func (s PhotoStatus) String() string {
	switch s {
	case PhotoPlaced:
		return "placed"
	case PhotoMissing:
		return "missing"
	case PhotoFailed:
		return "failed"
	default:
		return "none"
	}
}

// Card is a finished, opaque card raster plus what was drawn on it.
type Card struct {
	Image    *image.RGBA
	ID       string
	Lines    []Line
	Photo    PhotoStatus
	PhotoErr error
}

// Composer renders cards for one layout. It holds no per-record state, so a
// single Composer may render many records concurrently as long as its
// PhotoSource is safe for concurrent use.
type Composer struct {
	layout config.Layout
	fonts  *text.Library
	photos PhotoSource

	ink    color.RGBA
	accent color.RGBA
}

// NewComposer creates a composer. A nil photos source disables photos.
func NewComposer(layout config.Layout, fonts *text.Library, photos PhotoSource) *Composer {
	return &Composer{
		layout: layout,
		fonts:  fonts,
		photos: photos,
		ink:    generator.ParseHexRGBA(layout.Colors.Ink),
		accent: generator.ParseHexRGBA(layout.Colors.Accent),
	}
}

// Layout returns the composer's layout.
func (c *Composer) Layout() config.Layout { return c.layout }

// cursor is the write position of the text column. y only moves down.
type cursor struct {
	x, y int
}

func (cur *cursor) advance(dy int) {
	if dy > 0 {
		cur.y += dy
	}
}

// render is the state of one Compose call.
type render struct {
	canvas *image.NRGBA
	faces  *text.Faces
	cur    cursor
	card   *Card
}

// Compose renders rec onto a clone of tmpl. The template is only read.
func (c *Composer) Compose(rec Record, tmpl image.Image) (*Card, error) {
	if tmpl == nil || tmpl.Bounds().Empty() {
		return nil, &Error{Kind: KindTemplateMissing, Row: rec.Row, Err: errors.New("empty template")}
	}

	l := c.layout
	r := &render{
		canvas: imaging.Clone(tmpl),
		faces:  c.fonts.NewFaces(),
		cur:    cursor{x: l.Text.X, y: l.Text.Y},
		card:   &Card{ID: GeneratedID(rec)},
	}
	defer r.faces.Close()

	// Name: shrink to fit, then wrap whatever still overflows.
	name := DisplayName(rec)
	nameFace, nameSize := r.faces.Fit(l.Fonts.Name.Source, name, l.Fonts.Name.Size, l.Text.WrapWidth, l.Fonts.Name.Min)
	c.drawLines(r, BlockName, text.Wrap(nameFace, name, l.Text.WrapWidth), l.Limits.NameLines, nameFace, nameSize, c.ink)
	r.cur.advance(l.Text.SectionGap)

	idFace := r.faces.Face(l.Fonts.ID.Source, l.Fonts.ID.Size)
	c.drawLine(r, BlockID, "ID: "+r.card.ID, idFace, l.Fonts.ID.Size, c.ink)
	r.cur.advance(l.Text.SectionGap)

	role := Upper(rec.Role)
	roleFace, roleSize := r.faces.Fit(l.Fonts.Role.Source, role, l.Fonts.Role.Size, l.Text.WrapWidth, l.Fonts.Role.Min)
	c.drawLine(r, BlockRole, role, roleFace, roleSize, c.accent)
	r.cur.advance(l.Text.SectionGap)

	small := r.faces.Face(l.Fonts.Small.Source, l.Fonts.Small.Size)
	school := labeled("School", rec.School)
	c.drawLines(r, BlockSchool, text.Wrap(small, school, l.Text.WrapWidth), l.Limits.SchoolLines, small, l.Fonts.Small.Size, c.ink)
	r.cur.advance(l.Text.BlockGap)

	district := labeled("District", rec.District)
	c.drawLines(r, BlockDistrict, text.Wrap(small, district, l.Text.WrapWidth), l.Limits.DistrictLines, small, l.Fonts.Small.Size, c.ink)

	c.placePhoto(r, rec)
	c.placeQR(r, rec)

	r.card.Image = flatten(r.canvas)
	return r.card, nil
}

// drawLines draws at most maxLines of lines; the rest are dropped.
func (c *Composer) drawLines(r *render, block Block, lines []string, maxLines int, face font.Face, size int, col color.RGBA) {
	if len(lines) > maxLines {
		logging.Logger().Debug("truncating block", "block", block, "lines", len(lines), "max", maxLines)
		lines = lines[:max(maxLines, 0)]
	}
	for _, ln := range lines {
		c.drawLine(r, block, ln, face, size, col)
	}
}

// drawLine draws s with the top of its ascent at the cursor, then moves the
// cursor down by the measured height plus the line gap.
func (c *Composer) drawLine(r *render, block Block, s string, face font.Face, size int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  r.canvas,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(r.cur.x), Y: fixed.I(r.cur.y) + face.Metrics().Ascent},
	}
	d.DrawString(s)

	r.card.Lines = append(r.card.Lines, Line{Block: block, Text: s, X: r.cur.x, Y: r.cur.y, Size: size})

	gap := c.layout.Text.LineGap
	if block == BlockID || block == BlockRole {
		gap = 0 // single-line blocks are followed by the section gap only
	}
	r.cur.advance(text.Height(face, s) + gap)
}

// placePhoto pastes the normalized photo using its own alpha. Any failure is
// logged and leaves the template's placeholder visible.
func (c *Composer) placePhoto(r *render, rec Record) {
	if rec.PhotoRef == "" || c.photos == nil {
		return
	}
	log := logging.Logger().With("row", rec.Row, "photo", rec.PhotoRef)

	f, err := c.photos.Open(rec.PhotoRef)
	if err != nil {
		log.Warn("photo not found", "error", err)
		r.card.Photo, r.card.PhotoErr = PhotoMissing, err
		return
	}
	defer f.Close()

	box := c.layout.Photo
	img, err := photo.Normalize(f, box.Width, box.Height)
	if err != nil {
		log.Warn("photo error", "error", err)
		r.card.Photo = PhotoFailed
		r.card.PhotoErr = &Error{Kind: KindPhotoUnresolvable, Row: rec.Row, Ref: rec.PhotoRef, Err: err}
		return
	}

	draw.Draw(r.canvas, box.Rect(), img, image.Point{}, draw.Over)
	r.card.Photo = PhotoPlaced
}

// placeQR draws a QR code of the generated ID when the layout enables it.
func (c *Composer) placeQR(r *render, rec Record) {
	q := c.layout.QR
	if !q.Enabled() {
		return
	}
	img, err := generator.QRImage(r.card.ID, q.Size, q.Level)
	if err != nil {
		logging.Logger().Warn("qr error", "row", rec.Row, "error", err)
		return
	}
	box := image.Rect(q.X, q.Y, q.X+q.Size, q.Y+q.Size)
	draw.Draw(r.canvas, box, img, img.Bounds().Min, draw.Src)
}

// flatten drops alpha, keeping the stored color channels as they are.
func flatten(src *image.NRGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		copy(dst.Pix[di:di+4*b.Dx()], src.Pix[si:si+4*b.Dx()])
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
