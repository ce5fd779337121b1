// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRunEmitsSequence(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  []string
	}{
		{name: "default five", count: 5, want: []string{"0", "1", "2", "3", "4"}},
		{name: "single", count: 1, want: []string{"0"}},
		{name: "zero", count: 0, want: nil},
		{name: "negative", count: -3, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &Counter{Count: tt.count, Output: &buf}
			if err := c.Run(context.Background()); err != nil {
				t.Fatalf("Run error: %v", err)
			}
			var got []string
			if buf.Len() > 0 {
				got = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	c := &Counter{Count: 5, Output: &buf}
	if err := c.Run(ctx); err != context.Canceled {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output after cancellation, got %q", buf.String())
	}
}

// cancelWriter cancels the session context on the first write, so the
// counter observes cancellation while waiting out the pause.
type cancelWriter struct {
	buf    bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelWriter) Write(p []byte) (int, error) {
	w.cancel()
	return w.buf.Write(p)
}

func TestRunCanceledDuringPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &cancelWriter{cancel: cancel}
	c := &Counter{Count: 5, Interval: time.Minute, Output: w}
	if err := c.Run(ctx); err != context.Canceled {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if got := w.buf.String(); got != "0\n" {
		t.Fatalf("output = %q, want %q", got, "0\n")
	}
}
