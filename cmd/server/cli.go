// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shayne/yargs"

	"github.com/hoorayphyer/rhlatex/pkg/session"
)

var (
	configOverride string
	colorOverride  *session.ColorMode
)

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Explicit path to rhlatex.toml"`
	Color   string `flag:"color" help:"Colorize output (auto|always|never, RHLATEX_COLOR)"`
	NoColor bool   `flag:"no-color" help:"Disable colorized output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func resetGlobalFlags() {
	configOverride = ""
	colorOverride = nil
	color.NoColor = false
}

func applyGlobalFlags(flags globalFlagsParsed) error {
	resetGlobalFlags()
	if flags.Color != "" && flags.NoColor {
		return fmt.Errorf("cannot use --color and --no-color together")
	}
	if flags.Config != "" {
		configOverride = flags.Config
	}
	if flags.Color != "" {
		if _, err := session.ParseColorMode(flags.Color); err != nil {
			return err
		}
		if flags.Color != loadedPrefs.Color {
			loadedPrefs.Color = flags.Color
			loadedPrefs.changed = true
		}
	}
	if flags.NoColor {
		mode := session.ColorNever
		colorOverride = &mode
		color.NoColor = true
	}
	return nil
}

type runFlagsParsed struct {
	Count      int    `flag:"count" short:"n" default:"-1"`
	Interval   string `flag:"interval"`
	Prefix     string `flag:"prefix"`
	Raw        bool   `flag:"raw"`
	NoRaw      bool   `flag:"no-raw"`
	Transcript bool   `flag:"transcript"`
}

type countFlagsParsed struct {
	Count    int    `flag:"count" short:"n" default:"-1"`
	Interval string `flag:"interval"`
}

type echoFlagsParsed struct {
	Prefix     string `flag:"prefix"`
	Raw        bool   `flag:"raw"`
	NoRaw      bool   `flag:"no-raw"`
	Transcript bool   `flag:"transcript"`
}

type versionFlagsParsed struct {
	JSON bool `flag:"json"`
}

type prefsFlagsParsed struct {
	Save bool `flag:"save"`
}
