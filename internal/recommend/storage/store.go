// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

// Package storage persists index snapshots as one co-versioned
// artifact set: the catalog table, the fitted vectorizer, and the
// document-term matrix as gzipped gob, the key-to-row mapping as flat
// JSON, plus a manifest carrying SHA-256 checksums. The set is staged
// in a temporary directory and renamed into place, so readers never
// observe a partially written set.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/recommend"
	"github.com/reelradar/reelradar/internal/textindex"
)

// Artifact file names inside the active set directory.
const (
	catalogFile    = "catalog.gob.gz"
	vectorizerFile = "vectorizer.gob.gz"
	matrixFile     = "matrix.gob.gz"
	mappingFile    = "id2row.json"
	manifestFile   = "manifest.json"

	currentDir = "current"
)

// Manifest describes a persisted artifact set.
type Manifest struct {
	Version    int               `json:"version"`
	BuiltAt    time.Time         `json:"built_at"`
	SavedAt    time.Time         `json:"saved_at"`
	Items      int               `json:"items"`
	VocabTerms int               `json:"vocab_terms"`
	MatrixNNZ  int               `json:"matrix_nnz"`
	Checksums  map[string]string `json:"checksums"`
}

// Store manages the on-disk artifact set. It implements
// recommend.ArtifactStore and is safe for concurrent use.
type Store struct {
	dir    string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewStore creates an artifact store rooted at dir.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Exists reports whether an artifact set is present, without
// verifying it.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, currentDir, manifestFile))
	return err == nil
}

// Save writes the snapshot as a staged artifact set and swaps it into
// place. A previously persisted set is replaced wholesale.
func (s *Store) Save(ctx context.Context, snap *recommend.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	stage, err := os.MkdirTemp(s.dir, "stage-")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stage) }() //nolint:errcheck // best-effort cleanup of abandoned stage

	checksums := make(map[string]string, 4)
	if checksums[catalogFile], err = writeGob(filepath.Join(stage, catalogFile), snap.Catalog); err != nil {
		return fmt.Errorf("write catalog artifact: %w", err)
	}
	if checksums[vectorizerFile], err = writeGob(filepath.Join(stage, vectorizerFile), snap.Vectorizer); err != nil {
		return fmt.Errorf("write vectorizer artifact: %w", err)
	}
	if checksums[matrixFile], err = writeGob(filepath.Join(stage, matrixFile), snap.Matrix); err != nil {
		return fmt.Errorf("write matrix artifact: %w", err)
	}
	if checksums[mappingFile], err = writeJSON(filepath.Join(stage, mappingFile), snap.IDToRow); err != nil {
		return fmt.Errorf("write mapping artifact: %w", err)
	}

	manifest := Manifest{
		Version:    snap.Version,
		BuiltAt:    snap.BuiltAt,
		SavedAt:    time.Now().UTC(),
		Items:      len(snap.Catalog),
		VocabTerms: snap.Vectorizer.VocabSize(),
		MatrixNNZ:  snap.Matrix.NNZ(),
		Checksums:  checksums,
	}
	if _, err := writeJSON(filepath.Join(stage, manifestFile), manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	current := filepath.Join(s.dir, currentDir)
	if err := os.RemoveAll(current); err != nil {
		return fmt.Errorf("discard previous artifacts: %w", err)
	}
	if err := os.Rename(stage, current); err != nil {
		return fmt.Errorf("install artifacts: %w", err)
	}

	s.logger.Info().
		Int("version", manifest.Version).
		Int("items", manifest.Items).
		Msg("artifact set saved")
	return nil
}

// Load restores the persisted snapshot. It verifies that all four
// artifacts are present and match their manifest checksums; anything
// incomplete or corrupt reports ErrArtifactsNotFound.
func (s *Store) Load(ctx context.Context) (*recommend.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current := filepath.Join(s.dir, currentDir)
	var manifest Manifest
	if err := readJSON(filepath.Join(current, manifestFile), "", &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrArtifactsNotFound, err)
	}
	for _, name := range []string{catalogFile, vectorizerFile, matrixFile, mappingFile} {
		if manifest.Checksums[name] == "" {
			return nil, fmt.Errorf("%w: manifest missing checksum for %s", recommend.ErrArtifactsNotFound, name)
		}
	}

	var items []catalog.Item
	if err := readGob(filepath.Join(current, catalogFile), manifest.Checksums[catalogFile], &items); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", recommend.ErrArtifactsNotFound, err)
	}
	var vec textindex.Vectorizer
	if err := readGob(filepath.Join(current, vectorizerFile), manifest.Checksums[vectorizerFile], &vec); err != nil {
		return nil, fmt.Errorf("%w: vectorizer: %v", recommend.ErrArtifactsNotFound, err)
	}
	var mat textindex.Matrix
	if err := readGob(filepath.Join(current, matrixFile), manifest.Checksums[matrixFile], &mat); err != nil {
		return nil, fmt.Errorf("%w: matrix: %v", recommend.ErrArtifactsNotFound, err)
	}
	var idToRow map[string]int
	if err := readJSON(filepath.Join(current, mappingFile), manifest.Checksums[mappingFile], &idToRow); err != nil {
		return nil, fmt.Errorf("%w: mapping: %v", recommend.ErrArtifactsNotFound, err)
	}

	s.logger.Info().
		Int("version", manifest.Version).
		Int("items", len(items)).
		Msg("artifact set loaded")
	return &recommend.Snapshot{
		Catalog:    items,
		Vectorizer: &vec,
		Matrix:     &mat,
		IDToRow:    idToRow,
		Version:    manifest.Version,
		BuiltAt:    manifest.BuiltAt,
	}, nil
}

// Delete removes the persisted artifact set. Deleting an absent set
// is not an error.
func (s *Store) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.dir, currentDir)); err != nil {
		return fmt.Errorf("delete artifacts: %w", err)
	}
	return nil
}

// writeGob gob-encodes v, gzips it to path, and returns the SHA-256
// of the uncompressed encoding.
func writeGob(path string, v any) (string, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	raw := buf.Bytes()

	f, err := os.Create(path) //nolint:gosec // path is constructed from the store's own directory
	if err != nil {
		return "", err
	}
	gzw := gzip.NewWriter(f)
	if _, err := gzw.Write(raw); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return "", fmt.Errorf("compress: %w", err)
	}
	if err := gzw.Close(); err != nil {
		_ = f.Close() //nolint:errcheck // compression error takes precedence
		return "", fmt.Errorf("finalize compression: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return checksum(raw), nil
}

// readGob reads a gzipped gob file, verifies the checksum of the
// uncompressed bytes when one is expected, and decodes into target.
func readGob(path, wantChecksum string, target any) error {
	f, err := os.Open(path) //nolint:gosec // path is constructed from the store's own directory
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := verifyChecksum(raw, wantChecksum); err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// writeJSON writes v as JSON and returns the SHA-256 of the bytes.
func writeJSON(path string, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o640); err != nil { //nolint:gosec // 0640 is acceptable for artifacts
		return "", err
	}
	return checksum(raw), nil
}

// readJSON reads a JSON file, verifying its checksum when one is
// expected.
func readJSON(path, wantChecksum string, target any) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path is constructed from the store's own directory
	if err != nil {
		return err
	}
	if err := verifyChecksum(raw, wantChecksum); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func checksum(raw []byte) string {
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}

func verifyChecksum(raw []byte, want string) error {
	if want == "" {
		return nil
	}
	if got := checksum(raw); got != want {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", want, got)
	}
	return nil
}
