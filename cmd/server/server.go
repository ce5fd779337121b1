// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command server runs an interactive terminal session: a startup countdown
// followed by an echo loop that repeats the first character of every input
// token.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shayne/yargs"
	"golang.org/x/term"

	"github.com/hoorayphyer/rhlatex/pkg/cli"
	"github.com/hoorayphyer/rhlatex/pkg/countdown"
	"github.com/hoorayphyer/rhlatex/pkg/echo"
	"github.com/hoorayphyer/rhlatex/pkg/session"
)

var prefsFile = filepath.Join(os.Getenv("HOME"), ".rhlatex", "prefs.json")

func init() {
	if err := loadedPrefs.load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to load preferences: %v", err)
		}
	}
	if mode := os.Getenv("RHLATEX_COLOR"); mode != "" {
		loadedPrefs.Color = mode
	}
	if dir := os.Getenv("RHLATEX_TRANSCRIPT_DIR"); dir != "" {
		loadedPrefs.TranscriptDir = dir
	}
}

var loadedPrefs prefs

type prefs struct {
	changed       bool   `json:"-"`
	Color         string `json:"color"`
	TranscriptDir string `json:"transcriptDir"`
}

func (p *prefs) save() error {
	if err := os.MkdirAll(filepath.Dir(prefsFile), 0755); err != nil {
		return err
	}
	j, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(prefsFile, j, 0600)
}

func (p *prefs) load() error {
	j, err := os.ReadFile(prefsFile)
	if err != nil {
		return err
	}
	return json.Unmarshal(j, p)
}

func main() {
	args := os.Args[1:]
	globalFlags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := applyGlobalFlags(globalFlags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	helpConfig := cli.BuildHelpConfig()
	args = yargs.ApplyAliases(remaining, helpConfig)
	if len(args) == 0 {
		args = []string{"run"}
	}

	handlers := map[string]yargs.SubcommandHandler{
		"run":     handleRun,
		"count":   handleCount,
		"echo":    handleEcho,
		"version": handleVersion,
		"prefs":   handlePrefs,
	}
	if err := yargs.RunSubcommands(context.Background(), args, helpConfig, globalFlagsParsed{}, handlers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// settings are the fully resolved session knobs: defaults, then config file,
// then prefs/env, then flags.
type settings struct {
	count         int
	interval      time.Duration
	prefix        string
	colorize      bool
	transcripts   bool
	transcriptDir string
}

func loadConfig() (*session.Config, error) {
	if configOverride != "" {
		loc, err := session.LoadConfigFile(configOverride)
		if err != nil {
			return nil, err
		}
		return loc.Config, nil
	}
	loc, err := session.LoadConfigFromCwd()
	if err != nil || loc == nil {
		return nil, err
	}
	return loc.Config, nil
}

func resolveSettings(cfg *session.Config) (settings, error) {
	st := settings{
		count:    countdown.DefaultCount,
		interval: countdown.DefaultInterval,
		prefix:   echo.DefaultPrefix,
	}
	mode := session.ColorAuto
	if cfg != nil {
		if cfg.Server.Count > 0 {
			st.count = cfg.Server.Count
		}
		if cfg.Server.Interval != "" {
			d, err := cfg.Server.IntervalDuration()
			if err != nil {
				return settings{}, err
			}
			st.interval = d
		}
		if cfg.Server.Prefix != "" {
			st.prefix = cfg.Server.Prefix
		}
		if cfg.Server.Color != "" {
			m, err := session.ParseColorMode(cfg.Server.Color)
			if err != nil {
				return settings{}, err
			}
			mode = m
		}
		st.transcripts = cfg.Server.Transcripts
		st.transcriptDir = cfg.Server.TranscriptDir
	}
	if loadedPrefs.Color != "" {
		m, err := session.ParseColorMode(loadedPrefs.Color)
		if err != nil {
			return settings{}, err
		}
		mode = m
	}
	if loadedPrefs.TranscriptDir != "" {
		st.transcriptDir = loadedPrefs.TranscriptDir
	}
	if colorOverride != nil {
		mode = *colorOverride
	}
	st.colorize = mode.Enabled(isTerminalFn(int(os.Stdout.Fd())))
	return st, nil
}

var isTerminalFn = term.IsTerminal

// watchInterrupts cancels the returned context on SIGINT or SIGTERM so the
// session can restore the terminal before exit.
func watchInterrupts(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func prepare(ctx context.Context) (settings, context.Context, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return settings{}, nil, nil, err
	}
	if cfg != nil {
		if err := session.CheckRequirement(cfg.Requires); err != nil {
			return settings{}, nil, nil, err
		}
	}
	st, err := resolveSettings(cfg)
	if err != nil {
		return settings{}, nil, nil, err
	}
	ctx, stop := watchInterrupts(ctx)
	return st, ctx, stop, nil
}

func handleRun(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "run" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[runFlagsParsed](args)
	if err != nil {
		return err
	}
	st, ctx, stop, err := prepare(ctx)
	if err != nil {
		return err
	}
	defer stop()
	if err := applyRunFlags(&st, result.Flags); err != nil {
		return err
	}
	raw, err := rawMode(result.Flags.Raw, result.Flags.NoRaw)
	if err != nil {
		return err
	}

	s := session.New(session.Options{
		Count:         st.count,
		Interval:      st.interval,
		Prefix:        st.prefix,
		Colorize:      st.colorize,
		Stdin:         os.Stdin,
		Raw:           raw,
		Transcripts:   st.transcripts,
		TranscriptDir: st.transcriptDir,
	})
	return finish(s.Run(ctx))
}

func handleCount(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "count" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[countFlagsParsed](args)
	if err != nil {
		return err
	}
	st, ctx, stop, err := prepare(ctx)
	if err != nil {
		return err
	}
	defer stop()
	if err := applyCountFlags(&st, result.Flags.Count, result.Flags.Interval); err != nil {
		return err
	}

	s := session.New(session.Options{
		Count:    st.count,
		Interval: st.interval,
		Colorize: st.colorize,
	})
	return finish(s.RunCountdown(ctx))
}

func handleEcho(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "echo" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[echoFlagsParsed](args)
	if err != nil {
		return err
	}
	st, ctx, stop, err := prepare(ctx)
	if err != nil {
		return err
	}
	defer stop()
	if result.Flags.Prefix != "" {
		st.prefix = result.Flags.Prefix
	}
	if result.Flags.Transcript {
		st.transcripts = true
	}
	raw, err := rawMode(result.Flags.Raw, result.Flags.NoRaw)
	if err != nil {
		return err
	}

	s := session.New(session.Options{
		Prefix:        st.prefix,
		Colorize:      st.colorize,
		Stdin:         os.Stdin,
		Raw:           raw,
		Transcripts:   st.transcripts,
		TranscriptDir: st.transcriptDir,
	})
	return finish(s.RunEcho(ctx))
}

// applyCountFlags overlays the counting flags shared by `run` and `count`.
// A negative count means the flag was not given.
func applyCountFlags(st *settings, count int, interval string) error {
	if count >= 0 {
		st.count = count
	}
	if interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("parse interval %q: %w", interval, err)
		}
		st.interval = d
	}
	return nil
}

func applyRunFlags(st *settings, flags runFlagsParsed) error {
	if err := applyCountFlags(st, flags.Count, flags.Interval); err != nil {
		return err
	}
	if flags.Prefix != "" {
		st.prefix = flags.Prefix
	}
	if flags.Transcript {
		st.transcripts = true
	}
	return nil
}

func rawMode(raw, noRaw bool) (bool, error) {
	if raw && noRaw {
		return false, fmt.Errorf("cannot use --raw and --no-raw together")
	}
	return raw, nil
}

// finish maps a signal-canceled session onto a clean exit; the interrupt
// already did its job.
func finish(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func handleVersion(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "version" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[versionFlagsParsed](args)
	if err != nil {
		return err
	}
	if result.Flags.JSON {
		fmt.Println(asJSON(versionInfo{Version: session.Version(), Commit: session.VersionCommit()}))
		return nil
	}
	fmt.Printf("server %s (%s)\n", session.Version(), session.VersionCommit())
	return nil
}

func handlePrefs(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "prefs" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[prefsFlagsParsed](args)
	if err != nil {
		return err
	}
	fmt.Println(asJSON(loadedPrefs))
	if result.Flags.Save {
		if !loadedPrefs.changed {
			fmt.Fprintln(os.Stderr, "No changes to save")
			return nil
		}
		if err := loadedPrefs.save(); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
	}
	return nil
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
