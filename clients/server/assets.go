// assets.go — In-memory store of uploaded photos, addressable by ID.
package server

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/xob0t/CardStencil/pkg/card"
)

type asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int    `json:"size"`
	data []byte
}

// photoStore holds uploaded photos. It is a card.PhotoSource keyed by asset
// ID and is safe for concurrent use.
type photoStore struct {
	mu     sync.RWMutex
	assets map[string]*asset
}

func newPhotoStore() *photoStore {
	return &photoStore{assets: make(map[string]*asset)}
}

func (ps *photoStore) add(name, mimeType string, data []byte) *asset {
	a := &asset{ID: randomID(), Name: name, Mime: mimeType, Size: len(data), data: data}
	ps.mu.Lock()
	ps.assets[a.ID] = a
	ps.mu.Unlock()
	return a
}

func (ps *photoStore) get(id string) (*asset, bool) {
	ps.mu.RLock()
	a, ok := ps.assets[id]
	ps.mu.RUnlock()
	return a, ok
}

func (ps *photoStore) list() []*asset {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]*asset, 0, len(ps.assets))
	for _, a := range ps.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (ps *photoStore) remove(id string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, ok := ps.assets[id]; !ok {
		return false
	}
	delete(ps.assets, id)
	return true
}

// Open implements card.PhotoSource.
func (ps *photoStore) Open(ref string) (io.ReadCloser, error) {
	a, ok := ps.get(ref)
	if !ok {
		return nil, &card.Error{Kind: card.KindPhotoUnresolvable, Ref: ref, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
