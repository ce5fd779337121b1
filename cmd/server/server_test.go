// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoorayphyer/rhlatex/pkg/session"
)

func withPrefs(t *testing.T, p prefs) {
	t.Helper()
	orig := loadedPrefs
	loadedPrefs = p
	t.Cleanup(func() { loadedPrefs = orig })
}

func withTerminal(t *testing.T, isTTY bool) {
	t.Helper()
	orig := isTerminalFn
	isTerminalFn = func(int) bool { return isTTY }
	t.Cleanup(func() { isTerminalFn = orig })
}

func TestResolveSettingsDefaults(t *testing.T) {
	withPrefs(t, prefs{})
	withTerminal(t, false)
	defer resetGlobalFlags()

	st, err := resolveSettings(nil)
	if err != nil {
		t.Fatalf("resolveSettings error: %v", err)
	}
	if st.count != 5 {
		t.Fatalf("count = %d, want 5", st.count)
	}
	if st.interval != time.Second {
		t.Fatalf("interval = %v, want 1s", st.interval)
	}
	if st.prefix != "a = " {
		t.Fatalf("prefix = %q, want %q", st.prefix, "a = ")
	}
	if st.colorize {
		t.Fatal("color should be off without a TTY")
	}
}

func TestResolveSettingsConfigOverrides(t *testing.T) {
	withPrefs(t, prefs{})
	withTerminal(t, false)
	defer resetGlobalFlags()

	cfg := &session.Config{
		Server: session.ServerConfig{
			Count:    7,
			Interval: "250ms",
			Prefix:   "c: ",
			Color:    "always",
		},
	}
	st, err := resolveSettings(cfg)
	if err != nil {
		t.Fatalf("resolveSettings error: %v", err)
	}
	if st.count != 7 {
		t.Fatalf("count = %d, want 7", st.count)
	}
	if st.interval != 250*time.Millisecond {
		t.Fatalf("interval = %v, want 250ms", st.interval)
	}
	if st.prefix != "c: " {
		t.Fatalf("prefix = %q, want %q", st.prefix, "c: ")
	}
	if !st.colorize {
		t.Fatal("config color=always should enable color without a TTY")
	}
}

func TestResolveSettingsPrefsBeatConfig(t *testing.T) {
	withPrefs(t, prefs{Color: "never", TranscriptDir: "/tmp/prefs-transcripts"})
	withTerminal(t, true)
	defer resetGlobalFlags()

	cfg := &session.Config{
		Server: session.ServerConfig{Color: "always", TranscriptDir: "/tmp/cfg-transcripts"},
	}
	st, err := resolveSettings(cfg)
	if err != nil {
		t.Fatalf("resolveSettings error: %v", err)
	}
	if st.colorize {
		t.Fatal("prefs color=never should beat config color=always")
	}
	if st.transcriptDir != "/tmp/prefs-transcripts" {
		t.Fatalf("transcriptDir = %q, want prefs value", st.transcriptDir)
	}
}

func TestResolveSettingsFlagBeatsPrefs(t *testing.T) {
	withPrefs(t, prefs{Color: "never"})
	withTerminal(t, false)
	defer resetGlobalFlags()

	if err := applyGlobalFlags(globalFlagsParsed{Color: "always"}); err != nil {
		t.Fatalf("applyGlobalFlags error: %v", err)
	}
	st, err := resolveSettings(nil)
	if err != nil {
		t.Fatalf("resolveSettings error: %v", err)
	}
	if !st.colorize {
		t.Fatal("--color=always should beat prefs color=never")
	}
}

func TestResolveSettingsBadConfigColor(t *testing.T) {
	withPrefs(t, prefs{})
	withTerminal(t, false)
	defer resetGlobalFlags()

	cfg := &session.Config{Server: session.ServerConfig{Color: "rainbow"}}
	if _, err := resolveSettings(cfg); err == nil {
		t.Fatal("expected error for invalid config color mode")
	}
}

func TestFinishSwallowsCancellation(t *testing.T) {
	if err := finish(context.Canceled); err != nil {
		t.Fatalf("finish(context.Canceled) = %v, want nil", err)
	}
	sentinel := errors.New("boom")
	if err := finish(sentinel); !errors.Is(err, sentinel) {
		t.Fatalf("finish(sentinel) = %v, want sentinel", err)
	}
	if err := finish(nil); err != nil {
		t.Fatalf("finish(nil) = %v, want nil", err)
	}
}

func TestApplyCountFlags(t *testing.T) {
	st := settings{count: 5, interval: time.Second}
	if err := applyCountFlags(&st, 0, "50ms"); err != nil {
		t.Fatalf("applyCountFlags error: %v", err)
	}
	if st.count != 0 || st.interval != 50*time.Millisecond {
		t.Fatalf("settings not applied: %+v", st)
	}

	st = settings{count: 5, interval: time.Second}
	if err := applyCountFlags(&st, -1, ""); err != nil {
		t.Fatalf("applyCountFlags error: %v", err)
	}
	if st.count != 5 || st.interval != time.Second {
		t.Fatalf("unset flags should leave settings alone: %+v", st)
	}

	if err := applyCountFlags(&st, -1, "soon"); err == nil {
		t.Fatal("expected error for malformed interval")
	}
}

func TestApplyRunFlags(t *testing.T) {
	st := settings{count: 5, interval: time.Second, prefix: "a = "}
	err := applyRunFlags(&st, runFlagsParsed{Count: 2, Interval: "10ms", Prefix: "> ", Transcript: true})
	if err != nil {
		t.Fatalf("applyRunFlags error: %v", err)
	}
	if st.count != 2 || st.interval != 10*time.Millisecond || st.prefix != "> " || !st.transcripts {
		t.Fatalf("settings not applied: %+v", st)
	}

	st = settings{count: 5}
	if err := applyRunFlags(&st, runFlagsParsed{Count: -1}); err != nil {
		t.Fatalf("applyRunFlags error: %v", err)
	}
	if st.count != 5 {
		t.Fatalf("count = %d, want unchanged 5", st.count)
	}

	if err := applyRunFlags(&st, runFlagsParsed{Count: -1, Interval: "soon"}); err == nil {
		t.Fatal("expected error for malformed interval")
	}
}
