// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"reflect"
	"testing"
)

func TestCommandNamesSorted(t *testing.T) {
	want := []string{"count", "echo", "prefs", "run", "version"}
	if got := CommandNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("CommandNames = %v, want %v", got, want)
	}
}

func TestBuildHelpConfigCoversAllCommands(t *testing.T) {
	config := BuildHelpConfig()
	if config.Command.Name != "server" {
		t.Fatalf("Command.Name = %q, want %q", config.Command.Name, "server")
	}
	for name := range CommandInfos() {
		info, ok := config.SubCommands[name]
		if !ok {
			t.Fatalf("help config missing command %q", name)
		}
		if info.Description == "" {
			t.Fatalf("command %q has no description", name)
		}
	}
}
