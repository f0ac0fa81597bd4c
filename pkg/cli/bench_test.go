package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestBenchCommand_RunsAgainstDefaultDataset(t *testing.T) {
	t.Setenv("ARIV_MOCK_LLAMA", "1")
	defer os.Unsetenv("ARIV_MOCK_LLAMA")

	cmd := NewBenchCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())

	opts := &benchOptions{models: []string{"llama-3.2-1b-q4_k_m"}, lang: "en", subset: "dev"}
	if err := runBench(cmd, opts); err != nil {
		t.Fatalf("runBench() error = %v", err)
	}

	if !strings.Contains(buf.String(), "llama-3.2-1b-q4_k_m") {
		t.Fatalf("output missing model row: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "csv:") {
		t.Fatalf("output missing csv path: %q", buf.String())
	}
}
