// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package countdown implements the startup counting phase: indices printed
// one per line with a fixed pause after each.
package countdown

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// DefaultCount and DefaultInterval match the historical startup sequence:
// five lines, one second apart.
const (
	DefaultCount    = 5
	DefaultInterval = time.Second
)

var palette = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
	color.New(color.FgWhite),
}

// Counter prints the integers 0 through Count-1 to Output, pausing Interval
// after each line. All lines are emitted before Run returns nil.
type Counter struct {
	Count    int
	Interval time.Duration
	Output   io.Writer
	Colorize bool
}

// Run emits the counting sequence. A Count of zero or less emits nothing.
// Cancellation aborts the pending pause and returns the context error.
func (c *Counter) Run(ctx context.Context) error {
	for i := 0; i < c.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strconv.Itoa(i)
		if c.Colorize {
			line = palette[i%len(palette)].Sprint(line)
		}
		if _, err := fmt.Fprintln(c.Output, line); err != nil {
			return fmt.Errorf("write countdown line: %w", err)
		}
		if err := sleep(ctx, c.Interval); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
