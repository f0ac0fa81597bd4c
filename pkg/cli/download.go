/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

type downloadOptions struct {
	dryRun bool
	script string
}

// NewDownloadCommand creates the download command. It is a thin wrapper
// around an external shell helper; model fetching itself is out of
// scope for this module (see Non-goals).
func NewDownloadCommand() *cobra.Command {
	opts := &downloadOptions{script: "scripts/download_models.sh"}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Invoke the model download helper script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the download plan without fetching")
	cmd.Flags().StringVar(&opts.script, "script", opts.script, "path to the download helper script")

	return cmd
}

func runDownload(cmd *cobra.Command, opts *downloadOptions) error {
	args := []string{}
	if opts.dryRun {
		args = append(args, "--dry-run")
	}

	helper := exec.CommandContext(cmd.Context(), opts.script, args...)
	helper.Stdout = cmd.OutOrStdout()
	helper.Stderr = cmd.ErrOrStderr()
	helper.Stdin = os.Stdin

	if err := helper.Run(); err != nil {
		return fmt.Errorf("run download helper %s: %w", opts.script, err)
	}
	return nil
}
