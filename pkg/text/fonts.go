// fonts.go — Font resolution with an ordered fallback chain and a shared parse cache.
// A source resolves through custom file → system font → embedded Go font, so a
// usable font always comes back. Faces are created per render because an
// opentype face carries a scratch buffer and is not safe for concurrent use.
package text

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xob0t/CardStencil/pkg/logging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Builtin maps config names to embedded font data.
var Builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-medium":  gomedium.TTF,
	"go-mono":    gomono.TTF,
}

// DefaultBuiltin is the embedded font used when a source names none.
const DefaultBuiltin = "go-regular"

// BuiltinNames returns the sorted embedded font names.
func BuiltinNames() []string {
	names := make([]string, 0, len(Builtin))
	for k := range Builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ErrNotResolved is returned by a Resolver that cannot serve a source.
var ErrNotResolved = errors.New("font not resolved")

// Source identifies a font family independent of size.
type Source struct {
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`       // custom TTF/OTF file
	Builtin string `yaml:"builtin,omitempty" json:"builtin,omitempty"` // embedded fallback name
}

func (s Source) key() string { return s.Path + "\x00" + s.Builtin }

// FontSpec is a source at a pixel size.
type FontSpec struct {
	Source `yaml:",inline"`
	Size   int `yaml:"size" json:"size"`
}

// Font is a parsed font, safe for concurrent use.
type Font struct {
	Name   string
	parsed *opentype.Font
}

// NewFace returns a face at size pixels (72 DPI, one point per pixel).
func (f *Font) NewFace(size int) (font.Face, error) {
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(max(size, 1)),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%d: %w", f.Name, size, err)
	}
	return face, nil
}

// ParseFont parses TTF/OTF data.
func ParseFont(name string, data []byte) (*Font, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return &Font{Name: name, parsed: parsed}, nil
}

// Resolver is one strategy in the fallback chain.
type Resolver interface {
	Resolve(src Source) (*Font, error)
}

// FileResolver loads Source.Path from disk.
type FileResolver struct{}

func (FileResolver) Resolve(src Source) (*Font, error) {
	if src.Path == "" {
		return nil, ErrNotResolved
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", src.Path, err)
	}
	return ParseFont(strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path)), data)
}

// SystemResolver searches font directories for the first file whose name
// matches one of Names, case-insensitively.
type SystemResolver struct {
	Names []string
	Dirs  []string
}

// SystemFontDirs lists the usual font locations across platforms.
var SystemFontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

func (r SystemResolver) Resolve(Source) (*Font, error) {
	if len(r.Names) == 0 {
		return nil, ErrNotResolved
	}
	want := make(map[string]int, len(r.Names))
	for i, n := range r.Names {
		want[strings.ToLower(n)] = i
	}

	dirs := r.Dirs
	if dirs == nil {
		dirs = SystemFontDirs
	}

	best, bestRank := "", len(r.Names)
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d == nil {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if rank, ok := want[strings.ToLower(d.Name())]; ok && rank < bestRank {
				best, bestRank = path, rank
			}
			return nil
		})
		if bestRank == 0 {
			break
		}
	}
	if best == "" {
		return nil, ErrNotResolved
	}
	return FileResolver{}.Resolve(Source{Path: best})
}

// BuiltinResolver serves embedded fonts. Unknown names use DefaultBuiltin, so
// it never fails.
type BuiltinResolver struct{}

func (BuiltinResolver) Resolve(src Source) (*Font, error) {
	name := src.Builtin
	data, ok := Builtin[name]
	if !ok {
		name = DefaultBuiltin
		data = Builtin[name]
	}
	return ParseFont(name, data)
}

// DefaultChain returns custom file → system font → builtin.
func DefaultChain(systemNames []string) []Resolver {
	return []Resolver{
		FileResolver{},
		SystemResolver{Names: systemNames},
		BuiltinResolver{},
	}
}

// Library caches parsed fonts by source. Safe for concurrent use.
type Library struct {
	chain []Resolver

	mu    sync.Mutex
	fonts map[string]*Font
}

// NewLibrary creates a library over the given chain. An empty chain
// resolves everything to the embedded default.
func NewLibrary(chain ...Resolver) *Library {
	return &Library{
		chain: chain,
		fonts: make(map[string]*Font),
	}
}

// Font resolves src, walking the chain once per distinct source.
func (l *Library) Font(src Source) *Font {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := src.key()
	if f, ok := l.fonts[k]; ok {
		return f
	}

	var f *Font
	for _, r := range l.chain {
		got, err := r.Resolve(src)
		if err == nil {
			f = got
			break
		}
		if !errors.Is(err, ErrNotResolved) {
			logging.Logger().Warn("font fallback", "path", src.Path, "error", err)
		}
	}
	if f == nil {
		f, _ = BuiltinResolver{}.Resolve(Source{})
	}
	logging.Logger().Debug("font resolved", "path", src.Path, "builtin", src.Builtin, "font", f.Name)

	l.fonts[k] = f
	return f
}

// Faces is a per-render face cache keyed by (source, size). Not safe for
// concurrent use; create one per render.
type Faces struct {
	lib   *Library
	faces map[faceKey]font.Face
}

type faceKey struct {
	src  string
	size int
}

// NewFaces starts a face cache backed by l.
func (l *Library) NewFaces() *Faces {
	return &Faces{lib: l, faces: make(map[faceKey]font.Face)}
}

// Face returns src at size pixels. It never fails: if the face cannot be
// built, a fixed bitmap face is returned.
func (f *Faces) Face(src Source, size int) font.Face {
	k := faceKey{src: src.key(), size: size}
	if face, ok := f.faces[k]; ok {
		return face
	}
	face, err := f.lib.Font(src).NewFace(size)
	if err != nil {
		logging.Logger().Warn("using bitmap face", "error", err)
		face = basicfont.Face7x13
	}
	f.faces[k] = face
	return face
}

// Close releases all faces.
func (f *Faces) Close() error {
	var errs []error
	for k, face := range f.faces {
		errs = append(errs, face.Close())
		delete(f.faces, k)
	}
	return errors.Join(errs...)
}
