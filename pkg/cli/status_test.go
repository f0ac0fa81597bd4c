package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatusCommand_PrintsHardwareAndModels(t *testing.T) {
	cmd := NewStatusCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Hardware:") {
		t.Fatalf("output missing hardware line: %q", out)
	}
	if !strings.Contains(out, "llama-3.2-1b-q4_k_m") {
		t.Fatalf("output missing default catalog entry: %q", out)
	}
}
