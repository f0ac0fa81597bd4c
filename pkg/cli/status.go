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

	"github.com/spf13/cobra"

	"github.com/harvatechs/ariv/internal/config"
	"github.com/harvatechs/ariv/internal/probe"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show probed hardware and registry model availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	cfg := config.Load()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	hw := probe.New(cfg.FakeVRAMMB).Probe()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Hardware: gpu=%t vram_mb=%d cpu_mem_mb=%d device=%q\n",
		hw.GPU, hw.VRAMMB, hw.CPUMemMB, hw.DeviceName)

	local := make(map[string]bool)
	for _, m := range reg.AvailableLocal() {
		local[m.Name] = true
	}

	for _, m := range reg.List() {
		exists := "no"
		if local[m.Name] {
			exists = "yes"
		}
		fmt.Fprintf(out, "%s: quant=%s vram=%dMB local=%s task=%s\n",
			m.Name, m.Quant, m.VRAMMB, exists, m.Task)
	}

	return nil
}
