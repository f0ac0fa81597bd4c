package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadCommand_InvokesHelperWithDryRun(t *testing.T) {
	script := filepath.Join(t.TempDir(), "download.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho args: \"$@\"\n"), 0o755); err != nil {
		t.Fatalf("write helper script: %v", err)
	}

	cmd := NewDownloadCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())

	opts := &downloadOptions{script: script, dryRun: true}
	if err := runDownload(cmd, opts); err != nil {
		t.Fatalf("runDownload() error = %v", err)
	}

	if !strings.Contains(buf.String(), "--dry-run") {
		t.Fatalf("helper was not invoked with --dry-run: %q", buf.String())
	}
}
