// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the command metadata consumed by cmd/server for
// dispatch and help generation.
package cli

import (
	"sort"

	"github.com/shayne/yargs"
)

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

var commandInfos = map[string]CommandInfo{
	"run": {Name: "run", Description: "Count up, then echo input tokens (the default command)", Usage: "[--count=5] [--interval=1s] [--prefix='a = '] [--transcript]", Examples: []string{
		"server",
		"server run --count=10 --interval=500ms",
		"server run --transcript",
	}},
	"count": {Name: "count", Description: "Run only the counting phase", Usage: "[--count=5] [--interval=1s]", Examples: []string{
		"server count --count=3",
	}},
	"echo": {Name: "echo", Description: "Run only the echo loop", Usage: "[--prefix='a = '] [--raw|--no-raw] [--transcript]", Examples: []string{
		"server echo",
		"echo 'x y z' | server echo",
	}},
	"version": {Name: "version", Description: "Show the server version", Usage: "[--json]"},
	"prefs":   {Name: "prefs", Description: "Show the current preferences", Usage: "[--save]"},
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildHelpConfig assembles the yargs help metadata for the server command.
func BuildHelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = yargs.SubCommandInfo{
			Name:        name,
			Description: info.Description,
			Usage:       info.Usage,
			Examples:    info.Examples,
			Hidden:      info.Hidden,
			Aliases:     info.Aliases,
		}
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "server",
			Description: "Interactive countdown-and-echo terminal session.",
			Examples: []string{
				"server",
				"server count --count=3",
				"server echo --prefix='a = '",
			},
		},
		SubCommands: subcommands,
	}
}
