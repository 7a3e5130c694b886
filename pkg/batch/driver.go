// Package batch turns a stream of records into card files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/semaphore"

	"github.com/xob0t/CardStencil/pkg/card"
	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/generator"
	"github.com/xob0t/CardStencil/pkg/logging"
	"github.com/xob0t/CardStencil/pkg/text"
)

// Options control where a batch reads its template and writes its cards.
type Options struct {
	Template string
	Output   string
	Format   string // output extension, ".png" when empty
	Workers  int    // concurrent renders, 1 when < 1
}

// Driver renders records with one composer.
type Driver struct {
	composer *card.Composer
	opts     Options
}

func NewDriver(c *card.Composer, opts Options) *Driver {
	if opts.Format == "" {
		opts.Format = ".png"
	}
	if !strings.HasPrefix(opts.Format, ".") {
		opts.Format = "." + opts.Format
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{composer: c, opts: opts}
}

var errNoName = errors.New("missing firstname/lastname")

// LoadTemplate decodes the background image. Any failure is a
// TemplateMissing error.
func LoadTemplate(path string) (image.Image, error) {
	if path == "" {
		return nil, &card.Error{Kind: card.KindTemplateMissing, Err: errors.New("no template configured")}
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &card.Error{Kind: card.KindTemplateMissing, Ref: path, Err: err}
	}
	return img, nil
}

// Run renders every record of src. It fails before reading any record when
// the template cannot be loaded; per-record problems are reported in the
// summary and never stop the batch.
func (d *Driver) Run(ctx context.Context, src RecordSource) (*Summary, error) {
	log := logging.Logger()

	tmpl, err := LoadTemplate(d.opts.Template)
	if err != nil {
		return nil, err
	}
	for _, w := range config.CheckBounds(d.composer.Layout(), tmpl.Bounds()) {
		log.Warn("layout", "warning", w)
	}

	if !generator.Supported(d.opts.Format) {
		return nil, fmt.Errorf("unsupported output format %q", d.opts.Format)
	}
	if err := os.MkdirAll(d.opts.Output, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		summary = &Summary{}
		names   = newNamer()
		readErr error
	)
	record := func(r Result) {
		mu.Lock()
		summary.add(r)
		mu.Unlock()
	}

	sem := semaphore.NewWeighted(int64(d.opts.Workers))

	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var ce *card.Error
			if errors.As(err, &ce) && ce.Kind == card.KindRecordInvalid {
				log.Error("unreadable row", "row", ce.Row, "error", ce.Err)
				record(Result{Row: ce.Row, Status: StatusFailed, Reason: "unreadable row", Err: err})
				continue
			}
			readErr = fmt.Errorf("read records: %w", err)
			break
		}

		if rec.Anonymous() {
			log.Warn("missing firstname/lastname, skipping", "row", rec.Row)
			record(Result{
				Row:    rec.Row,
				Status: StatusSkipped,
				Reason: errNoName.Error(),
				Err:    &card.Error{Kind: card.KindRecordInvalid, Row: rec.Row, Err: errNoName},
			})
			continue
		}

		out := filepath.Join(d.opts.Output, names.claim(card.FileStem(rec), rec.Row)+d.opts.Format)

		if err := sem.Acquire(ctx, 1); err != nil {
			readErr = err
			break
		}
		wg.Add(1)
		go func(rec card.Record, out string) {
			defer wg.Done()
			defer sem.Release(1)
			record(d.render(rec, tmpl, out))
		}(rec, out)
	}

	wg.Wait()
	summary.sort()

	if readErr != nil {
		return summary, readErr
	}
	log.Info("batch done", "rendered", summary.Rendered, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// render composes and writes one card. Panics are recovered into a Failed
// result.
func (d *Driver) render(rec card.Record, tmpl image.Image, out string) (res Result) {
	log := logging.Logger().With("row", rec.Row)
	res = Result{Row: rec.Row, ID: card.GeneratedID(rec)}

	defer func() {
		if p := recover(); p != nil {
			log.Error("render panicked", "panic", p, "stack", string(debug.Stack()))
			res.Status = StatusFailed
			res.Reason = "panic"
			res.Err = fmt.Errorf("panic: %v", p)
		}
	}()

	c, err := d.composer.Compose(rec, tmpl)
	if err != nil {
		log.Error("compose failed", "error", err)
		res.Status, res.Reason, res.Err = StatusFailed, "compose", err
		return res
	}
	res.Photo = c.Photo

	if err := generator.Generate(out, c.Image); err != nil {
		log.Error("write failed", "path", out, "error", err)
		res.Status, res.Reason, res.Err = StatusFailed, "write", err
		return res
	}

	log.Info("saved", "path", out)
	res.Status, res.Output = StatusRendered, out
	return res
}

// namer hands out unique file stems, compared case-insensitively. A later
// row with a taken stem gets the lowest free numeric suffix, and the
// suffixed name is itself reserved.
type namer struct {
	used map[string]bool
}

func newNamer() *namer { return &namer{used: make(map[string]bool)} }

func (n *namer) claim(stem string, row int) string {
	name := stem
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d", stem, i)
	}
	if name != stem {
		logging.Logger().Warn("duplicate output name", "row", row, "name", stem, "using", name)
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// Execute runs a batch configured entirely by cfg: CSV records, photos from
// the photo directory, cards into the output directory.
func Execute(ctx context.Context, cfg *config.Config) (*Summary, error) {
	// Check the template before touching the CSV.
	if _, err := os.Stat(cfg.Layout.Template); err != nil {
		return nil, &card.Error{Kind: card.KindTemplateMissing, Ref: cfg.Layout.Template, Err: err}
	}

	f, err := os.Open(cfg.Batch.CSV)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	src, err := NewCSVSource(f, cfg.Columns)
	if err != nil {
		return nil, err
	}

	fonts := text.NewLibrary(text.DefaultChain(cfg.Layout.Fonts.System)...)
	composer := card.NewComposer(cfg.Layout, fonts, card.DirPhotos{Dir: cfg.Batch.Photos})

	return NewDriver(composer, Options{
		Template: cfg.Layout.Template,
		Output:   cfg.Batch.Output,
		Workers:  cfg.Batch.Workers,
	}).Run(ctx, src)
}
