// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return isTerminalFn(int(f.Fd()))
}

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// RunRaw echoes single keystrokes from a terminal without waiting for
// newlines. The terminal is placed in raw mode for the duration of the call
// and restored on every return path, including cancellation: the blocking
// reads happen on a separate goroutine so the loop that owns the restore is
// never stuck in a read. Whitespace keys are skipped, matching the token
// semantics of Run; Ctrl-C and Ctrl-D end the phase cleanly.
func (e *Echoer) RunRaw(ctx context.Context, f *os.File) error {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := f.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		case b := <-keys:
			switch b {
			case ctrlC, ctrlD:
				return nil
			case ' ', '\t', '\r', '\n':
				// skipped, like the whitespace between tokens
			default:
				// Raw mode delivers one byte per read, so
				// multi-byte input is echoed per byte. Tokens
				// start at their first byte either way.
				if err := e.echoRune(rune(b), "\r\n"); err != nil {
					return err
				}
			}
		}
	}
}
