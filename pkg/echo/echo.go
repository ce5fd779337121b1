// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package echo implements the interactive echo phase: input is consumed one
// whitespace-delimited token at a time and the first character of each token
// is written back with a fixed prefix.
package echo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultPrefix is the prefix applied to every echoed character.
const DefaultPrefix = "a = "

// Echoer reads tokens from In and writes one echoed line per token to Out.
// If Transcript is non-nil every echoed line is mirrored there, always with
// LF endings regardless of the terminal mode.
type Echoer struct {
	In         io.Reader
	Out        io.Writer
	Prefix     string
	Transcript io.Writer
}

func (e *Echoer) prefix() string {
	if e.Prefix == "" {
		return DefaultPrefix
	}
	return e.Prefix
}

// Run consumes whitespace-delimited tokens until In is exhausted. EOF ends
// the phase cleanly; under an open input stream Run returns only once the
// context is canceled. The blocking scan cannot be interrupted, so tokens
// are read on a separate goroutine that dies with the process if input never
// arrives; the consuming loop owns all writes and returns promptly.
func (e *Echoer) Run(ctx context.Context) error {
	sc := bufio.NewScanner(e.In)
	sc.Split(bufio.ScanWords)
	tokens := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		for sc.Scan() {
			select {
			case tokens <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case tok := <-tokens:
			r, _ := utf8.DecodeRuneInString(tok)
			if err := e.echoRune(r, "\n"); err != nil {
				return err
			}
		}
	}
}

func (e *Echoer) echoRune(r rune, eol string) error {
	line := e.prefix() + string(r)
	if _, err := io.WriteString(e.Out, line+eol); err != nil {
		return fmt.Errorf("write echo line: %w", err)
	}
	if e.Transcript != nil {
		if _, err := io.WriteString(e.Transcript, line+"\n"); err != nil {
			return fmt.Errorf("write transcript line: %w", err)
		}
	}
	return nil
}
