package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xob0t/CardStencil/pkg/card"
	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/logging"
	"github.com/xob0t/CardStencil/pkg/text"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := logging.Logger()
	t.Cleanup(func() { logging.SetLogger(orig) })
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 820, 720))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(dir, "template.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newDriver(t *testing.T, dir string, photos card.PhotoSource, workers int) *Driver {
	t.Helper()
	c := card.NewComposer(config.DefaultLayout(), text.NewLibrary(text.BuiltinResolver{}), photos)
	return NewDriver(c, Options{
		Template: writeTemplate(t, dir),
		Output:   filepath.Join(dir, "out"),
		Workers:  workers,
	})
}

func csvSource(t *testing.T, data string) *CSVSource {
	t.Helper()
	src, err := NewCSVSource(strings.NewReader(data), config.DefaultColumns())
	if err != nil {
		t.Fatalf("NewCSVSource: %v", err)
	}
	return src
}

func readAll(t *testing.T, src RecordSource) []card.Record {
	t.Helper()
	var recs []card.Record
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return recs
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		recs = append(recs, rec)
	}
}

func TestCSVSource(t *testing.T) {
	logs := captureLogs(t)
	data := "\ufeffFIRSTNAME, LastName ,role,photo,School\n" +
		"  Ana ,Lopez,Teacher, ana.jpg ,Lincoln High\n" +
		"Marcus,O'Neil,Principal\n"

	src := csvSource(t, data)
	if got := src.Headers()[0]; got != "FIRSTNAME" {
		t.Errorf("first header = %q, BOM not removed", got)
	}

	recs := readAll(t, src)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	want := card.Record{Row: 1, FirstName: "Ana", LastName: "Lopez", Role: "Teacher", PhotoRef: "ana.jpg", School: "Lincoln High"}
	if recs[0] != want {
		t.Errorf("record 1 = %+v, want %+v", recs[0], want)
	}
	if recs[1].Row != 2 || recs[1].Role != "Principal" || recs[1].School != "" {
		t.Errorf("short row = %+v", recs[1])
	}

	out := logs.String()
	if !strings.Contains(out, "detected headers") {
		t.Errorf("headers not logged:\n%s", out)
	}
	if !strings.Contains(out, "column=District") {
		t.Errorf("missing District column not reported:\n%s", out)
	}
}

func TestCSVSourceCustomColumns(t *testing.T) {
	cols := config.DefaultColumns()
	cols.FirstName, cols.LastName = "Given", "Family"
	src, err := NewCSVSource(strings.NewReader("Given,Family\nAna,Lopez\n"), cols)
	if err != nil {
		t.Fatal(err)
	}
	recs := readAll(t, src)
	if len(recs) != 1 || recs[0].FirstName != "Ana" || recs[0].LastName != "Lopez" {
		t.Errorf("records = %+v", recs)
	}
}

func TestCSVSourceEmpty(t *testing.T) {
	if _, err := NewCSVSource(strings.NewReader(""), config.DefaultColumns()); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRunMissingPhoto(t *testing.T) {
	logs := captureLogs(t)
	dir := t.TempDir()
	d := newDriver(t, dir, card.DirPhotos{Dir: filepath.Join(dir, "photos")}, 1)

	src := csvSource(t, "firstname,lastname,Role,Photo,District,School\nAna,Lopez,Teacher,missing.jpg,North,Lincoln High\n")
	sum, err := d.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rendered != 1 || sum.Total() != 1 {
		t.Fatalf("summary = %v", sum)
	}

	res := sum.Results[0]
	if res.ID != "LOPEZ_ANA" {
		t.Errorf("ID = %q, want LOPEZ_ANA", res.ID)
	}
	if res.Photo != card.PhotoMissing {
		t.Errorf("photo = %v, want missing", res.Photo)
	}
	if want := filepath.Join(dir, "out", "ANA_LOPEZ.png"); res.Output != want {
		t.Errorf("output = %q, want %q", res.Output, want)
	}

	f, err := os.Open(res.Output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 820 || cfg.Height != 720 {
		t.Errorf("output is %dx%d, want template size", cfg.Width, cfg.Height)
	}

	out := logs.String()
	for _, want := range []string{"photo not found", "saved", "batch done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRunSkipsAnonymousRows(t *testing.T) {
	logs := captureLogs(t)
	dir := t.TempDir()
	d := newDriver(t, dir, nil, 1)

	src := csvSource(t, "firstname,lastname,Role\nAna,Lopez,Teacher\n , ,Janitor\n")
	sum, err := d.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rendered != 1 || sum.Skipped != 1 {
		t.Fatalf("summary = %v", sum)
	}

	res := sum.Results[1]
	if res.Row != 2 || res.Status != StatusSkipped || res.Output != "" {
		t.Errorf("skipped result = %+v", res)
	}
	if !errors.Is(res.Err, card.ErrRecordInvalid) {
		t.Errorf("err = %v, want RecordInvalid", res.Err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d files, want only the named card", len(entries))
	}
	if out := logs.String(); !strings.Contains(out, "skipping") || !strings.Contains(out, "row=2") {
		t.Errorf("skip warning missing row index:\n%s", out)
	}
}

func TestRunTemplateMissing(t *testing.T) {
	dir := t.TempDir()
	c := card.NewComposer(config.DefaultLayout(), text.NewLibrary(text.BuiltinResolver{}), nil)
	d := NewDriver(c, Options{Template: filepath.Join(dir, "none.png"), Output: filepath.Join(dir, "out")})

	src := &SliceSource{Records: []card.Record{{FirstName: "Ana", LastName: "Lopez"}}}
	sum, err := d.Run(context.Background(), src)
	if !errors.Is(err, card.ErrTemplateMissing) {
		t.Fatalf("err = %v, want TemplateMissing", err)
	}
	if sum != nil {
		t.Errorf("summary = %v, want nil", sum)
	}
	if src.next != 0 {
		t.Errorf("records were read before the template check")
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output dir created: %v", err)
	}
}

func TestRunParallelKeepsRowOrder(t *testing.T) {
	dir := t.TempDir()
	d := newDriver(t, dir, nil, 4)

	var recs []card.Record
	for i := 0; i < 12; i++ {
		recs = append(recs, card.Record{FirstName: fmt.Sprintf("First%d", i), LastName: "Person", Role: "Staff"})
	}
	sum, err := d.Run(context.Background(), &SliceSource{Records: recs})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rendered != 12 {
		t.Fatalf("summary = %v", sum)
	}
	for i, r := range sum.Results {
		if r.Row != i+1 {
			t.Fatalf("result %d has row %d", i, r.Row)
		}
		if want := fmt.Sprintf("FIRST%d_PERSON.png", i); filepath.Base(r.Output) != want {
			t.Errorf("row %d output = %s, want %s", r.Row, filepath.Base(r.Output), want)
		}
	}
}

func TestRunDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	d := newDriver(t, dir, nil, 2)

	src := &SliceSource{Records: []card.Record{
		{FirstName: "Ana", LastName: "Lopez_2"},
		{FirstName: "Ana", LastName: "Lopez"},
		{FirstName: "ana", LastName: "lopez"},
		{FirstName: "Ana", LastName: "Lopez"},
	}}
	sum, err := d.Run(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ANA_LOPEZ_2.png", "ANA_LOPEZ.png", "ANA_LOPEZ_3.png", "ANA_LOPEZ_4.png"}
	for i, r := range sum.Results {
		if got := filepath.Base(r.Output); got != want[i] {
			t.Errorf("row %d output = %s, want %s", r.Row, got, want[i])
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(want) {
		t.Errorf("got %d files, want %d distinct cards", len(entries), len(want))
	}
}

func TestNamerNeverReusesAName(t *testing.T) {
	n := newNamer()
	seen := map[string]int{}
	stems := []string{"ANA_LOPEZ_2", "ANA_LOPEZ", "ANA_LOPEZ", "ana_lopez_2", "ANA_LOPEZ"}
	for i, stem := range stems {
		name := strings.ToLower(n.claim(stem, i+1))
		if prev, ok := seen[name]; ok {
			t.Fatalf("row %d reuses row %d's name %q", i+1, prev, name)
		}
		seen[name] = i + 1
	}
}

type errSource struct {
	recs []card.Record
	errs map[int]error // by position
	pos  int
}

func (s *errSource) Next() (card.Record, error) {
	if s.pos >= len(s.recs) {
		return card.Record{}, io.EOF
	}
	s.pos++
	if err, ok := s.errs[s.pos]; ok {
		return card.Record{}, err
	}
	return s.recs[s.pos-1], nil
}

func TestRunUnreadableRowFails(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	d := newDriver(t, dir, nil, 1)

	src := &errSource{
		recs: []card.Record{{}, {Row: 2, FirstName: "Ana", LastName: "Lopez"}},
		errs: map[int]error{1: &card.Error{Kind: card.KindRecordInvalid, Row: 1, Err: errors.New("bare quote")}},
	}
	sum, err := d.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Failed != 1 || sum.Rendered != 1 || sum.Skipped != 0 {
		t.Fatalf("summary = %v", sum)
	}
	if r := sum.Results[0]; r.Row != 1 || r.Status != StatusFailed || !errors.Is(r.Err, card.ErrRecordInvalid) {
		t.Errorf("unreadable row result = %+v", r)
	}
}

type panicPhotos struct{}

func (panicPhotos) Open(string) (io.ReadCloser, error) { panic("boom") }

func TestRunRecoversPanics(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	d := newDriver(t, dir, panicPhotos{}, 1)

	src := &SliceSource{Records: []card.Record{
		{FirstName: "Ana", LastName: "Lopez", PhotoRef: "x.jpg"},
		{FirstName: "Marcus", LastName: "ONeil"},
	}}
	sum, err := d.Run(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 1 || sum.Rendered != 1 {
		t.Fatalf("summary = %v", sum)
	}
	if r := sum.Results[0]; r.Status != StatusFailed || r.Reason != "panic" {
		t.Errorf("first result = %+v", r)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	d := newDriver(t, dir, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx, &SliceSource{Records: []card.Record{{FirstName: "Ana"}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Layout.Template = writeTemplate(t, dir)
	cfg.Batch.CSV = filepath.Join(dir, "id_data.csv")
	cfg.Batch.Photos = filepath.Join(dir, "photos")
	cfg.Batch.Output = filepath.Join(dir, "cards")
	if err := os.WriteFile(cfg.Batch.CSV, []byte(config.ExampleCSV()), 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sum.Rendered != 2 {
		t.Fatalf("summary = %v", sum)
	}
	for _, name := range []string{"ANA_LOPEZ.png", "MARCUS_ONEIL.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Batch.Output, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestExecuteTemplateMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Template = filepath.Join(t.TempDir(), "missing.png")
	cfg.Batch.CSV = filepath.Join(t.TempDir(), "missing.csv")

	_, err := Execute(context.Background(), cfg)
	if !errors.Is(err, card.ErrTemplateMissing) {
		t.Fatalf("err = %v, want TemplateMissing before the CSV is opened", err)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{StatusRendered: "rendered", StatusSkipped: "skipped", StatusFailed: "failed"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
