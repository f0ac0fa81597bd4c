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

// Package cli implements arivctl, the thin control surface over the
// registry, router, manager, runner, frontend and benchmark harness. It
// carries no novel design of its own.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the arivctl CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "arivctl",
		Short:        "Control surface for the ARIV inference gateway",
		Long:         `arivctl inspects hardware and the model registry, starts the gateway, runs benchmarks, and drives model downloads.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewBenchCommand())
	cmd.AddCommand(NewDownloadCommand())

	return cmd
}
