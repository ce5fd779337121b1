// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// Transcript mirrors echoed lines into a gzip-compressed per-session log
// file named by a fresh session id. The file is created lazily on the first
// write so silent sessions leave nothing behind.
type Transcript struct {
	dir string
	id  string
	f   *os.File
	zw  *gzip.Writer
}

// NewTranscript prepares a transcript under dir without touching the disk.
func NewTranscript(dir string) *Transcript {
	return &Transcript{dir: dir, id: uuid.New().String()}
}

// Path returns the transcript file path.
func (t *Transcript) Path() string {
	return filepath.Join(t.dir, t.id+".log.gz")
}

func (t *Transcript) open() error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.Create(t.Path())
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	t.f = f
	t.zw = gzip.NewWriter(f)
	return nil
}

func (t *Transcript) Write(p []byte) (int, error) {
	if t.zw == nil {
		if err := t.open(); err != nil {
			return 0, err
		}
	}
	return t.zw.Write(p)
}

// Recorded reports whether any lines were written this session.
func (t *Transcript) Recorded() bool {
	return t.zw != nil
}

// Close flushes and closes the transcript. Closing a transcript that was
// never written to is a no-op.
func (t *Transcript) Close() error {
	if t.zw == nil {
		return nil
	}
	if err := t.zw.Close(); err != nil {
		t.f.Close()
		return fmt.Errorf("flush transcript: %w", err)
	}
	return t.f.Close()
}
