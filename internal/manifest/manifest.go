// Package manifest records the pages a build registered.
package manifest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/snippetbuilder/internal/pages"
)

// PageManifest is the record of one build's page catalogue.
type PageManifest struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Inputs    Inputs           `json:"inputs"`
	Templates []pages.Template `json:"templates"`
	Pages     []pages.Request  `json:"pages"`
	Status    string           `json:"status"`
	Duration  int64            `json:"duration_ms"`
}

// Inputs captures what the catalogue was derived from.
type Inputs struct {
	ConfigHash     string `json:"config_hash,omitempty"`
	MetadataSource string `json:"metadata_source,omitempty"`
	ItemCount      int    `json:"item_count"`
}

// ToJSON serializes the manifest to indented JSON.
func (m *PageManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*PageManifest, error) {
	var m PageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash returns a stable digest of the page list. Run id, timestamp and
// timing are left out so identical catalogues hash the same. Pages are
// hashed in their decoded JSON form, so a loaded manifest hashes like the
// one that was written.
func (m *PageManifest) Hash() (string, error) {
	data, err := json.Marshal(m.Pages)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return "", fmt.Errorf("normalize for hash: %w", err)
	}
	if data, err = json.Marshal(normalized); err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Writer is a pages.Sink that writes the collected manifest on Close.
type Writer struct {
	path  string
	start time.Time

	mu       sync.Mutex
	manifest PageManifest
	closed   bool
}

// NewWriter creates a writer targeting path. An empty id gets a new UUID.
func NewWriter(path, id string, templates []pages.Template, inputs Inputs) *Writer {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Writer{
		path:  path,
		start: now,
		manifest: PageManifest{
			ID:        id,
			Timestamp: now.UTC(),
			Inputs:    inputs,
			Templates: templates,
			Pages:     []pages.Request{},
		},
	}
}

// Register records req.
func (w *Writer) Register(_ context.Context, req pages.Request) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("manifest %s already written", w.path)
	}
	w.manifest.Pages = append(w.manifest.Pages, req)
	return nil
}

// Manifest returns a snapshot of the collected manifest.
func (w *Writer) Manifest() PageManifest {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.manifest
	m.Pages = append([]pages.Request(nil), w.manifest.Pages...)
	return m
}

// Close stamps status and duration and writes the manifest. The file is
// written next to its target and renamed into place.
func (w *Writer) Close(status string) (*PageManifest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("manifest %s already written", w.path)
	}
	w.closed = true
	w.manifest.Status = status
	w.manifest.Duration = time.Since(w.start).Milliseconds()

	data, err := w.manifest.ToJSON()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
		return nil, fmt.Errorf("create manifest dir: %w", err)
	}
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("replace manifest: %w", err)
	}
	m := w.manifest
	return &m, nil
}

// Load reads a manifest file.
func Load(path string) (*PageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}
