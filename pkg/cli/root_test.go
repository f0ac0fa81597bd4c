package cli

import "testing"

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "arivctl" {
		t.Errorf("Use = %q, want %q", cmd.Use, "arivctl")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true")
	}

	expected := map[string]bool{"status": false, "start": false, "bench": false, "download": false}
	for _, sub := range cmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
