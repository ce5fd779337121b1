// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session orchestrates the two phases of a server run: the startup
// countdown followed by the interactive echo loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoorayphyer/rhlatex/pkg/countdown"
	"github.com/hoorayphyer/rhlatex/pkg/echo"
)

// Options carries the resolved knobs for one session. The caller is
// responsible for precedence (flags over prefs over config file); Options
// holds final values only.
type Options struct {
	Count    int
	Interval time.Duration
	Prefix   string
	Colorize bool

	In    io.Reader
	Out   io.Writer
	Stdin *os.File // terminal for raw mode; nil disables raw input
	Raw   bool

	Transcripts   bool
	TranscriptDir string
}

// Session runs the countdown phase and the echo phase under one context.
type Session struct {
	opts Options
}

func New(opts Options) *Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Prefix == "" {
		opts.Prefix = echo.DefaultPrefix
	}
	if opts.TranscriptDir == "" {
		opts.TranscriptDir = DefaultTranscriptDir()
	}
	return &Session{opts: opts}
}

// DefaultTranscriptDir returns the per-user transcript directory.
func DefaultTranscriptDir() string {
	return filepath.Join(os.Getenv("HOME"), ".rhlatex", "transcripts")
}

// Run executes both phases in order. All countdown lines are emitted before
// any echo output.
func (s *Session) Run(ctx context.Context) error {
	if err := s.RunCountdown(ctx); err != nil {
		return err
	}
	return s.RunEcho(ctx)
}

// RunCountdown executes only the counting phase.
func (s *Session) RunCountdown(ctx context.Context) error {
	c := &countdown.Counter{
		Count:    s.opts.Count,
		Interval: s.opts.Interval,
		Output:   s.opts.Out,
		Colorize: s.opts.Colorize,
	}
	return c.Run(ctx)
}

// RunEcho executes only the echo phase. Raw keystroke input is used when
// requested and stdin is a terminal; otherwise tokens are read buffered.
// With transcripts enabled, echoed lines are recorded through a pipe so disk
// writes never stall the interactive loop. Cancellation flows through the
// echo loops themselves, so the terminal is restored and the transcript is
// flushed before RunEcho returns.
func (s *Session) RunEcho(ctx context.Context) error {
	e := &echo.Echoer{In: s.opts.In, Out: s.opts.Out, Prefix: s.opts.Prefix}
	run := func(ctx context.Context) error {
		if s.opts.Raw && s.opts.Stdin != nil && echo.IsInteractive(s.opts.Stdin) {
			return e.RunRaw(ctx, s.opts.Stdin)
		}
		return e.Run(ctx)
	}

	if !s.opts.Transcripts {
		return run(ctx)
	}

	t := NewTranscript(s.opts.TranscriptDir)
	pr, pw := io.Pipe()
	e.Transcript = pw

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer pw.Close()
		return run(gctx)
	})
	g.Go(func() error {
		if _, err := io.Copy(t, pr); err != nil {
			// Fail any echo write still pending on the pipe, or the
			// session would block forever on a dead recorder.
			pr.CloseWithError(err)
			t.Close()
			return fmt.Errorf("record transcript: %w", err)
		}
		return t.Close()
	})
	err := g.Wait()
	if t.Recorded() && (err == nil || errors.Is(err, context.Canceled)) {
		log.Printf("transcript saved to %s", t.Path())
	}
	return err
}
