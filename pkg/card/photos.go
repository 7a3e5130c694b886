// photos.go — Photo lookup by reference.
package card

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PhotoSource opens a photo by its record reference.
type PhotoSource interface {
	Open(ref string) (io.ReadCloser, error)
}

// DirPhotos resolves references as file names under Dir.
type DirPhotos struct {
	Dir string
}

// Open returns the referenced file. References that escape Dir are
// unresolvable.
func (d DirPhotos) Open(ref string) (io.ReadCloser, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	target := filepath.Join(dir, ref)

	// Guard against ../ escapes.
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return nil, &Error{Kind: KindPhotoUnresolvable, Ref: ref, Err: fmt.Errorf("path escapes %s", dir)}
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, &Error{Kind: KindPhotoUnresolvable, Ref: target, Err: err}
	}
	return f, nil
}

// MemPhotos serves photos from memory, keyed by reference.
type MemPhotos map[string][]byte

func (m MemPhotos) Open(ref string) (io.ReadCloser, error) {
	data, ok := m[ref]
	if !ok {
		return nil, &Error{Kind: KindPhotoUnresolvable, Ref: ref, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
