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

	"github.com/harvatechs/ariv/internal/bench"
	"github.com/harvatechs/ariv/internal/config"
	"github.com/harvatechs/ariv/internal/runner"
)

type benchOptions struct {
	models []string
	lang   string
	subset string
}

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Replay the translation dataset through the harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.models, "models", nil, "model names to benchmark")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "dataset language")
	cmd.Flags().StringVar(&opts.subset, "subset", "dev", "dataset subset")
	_ = cmd.MarkFlagRequired("models")
	_ = cmd.MarkFlagRequired("lang")

	return cmd
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	cfg := config.Load()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	r := runner.New(cfg.LlamaCppBin, cfg.MockLlama, cfg.GracePeriod)
	harness := bench.New(reg, r, "")

	rows, csvPath, mdPath, err := harness.Run(cmd.Context(), "", opts.models, opts.lang, opts.subset)
	if err != nil {
		return fmt.Errorf("run benchmark: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(out, "%s: throughput=%.2f tok/s p50=%.4fs p95=%.4fs bleu=%.4f chrf=%.4f\n",
			row.Model, row.ThroughputTPS, row.LatencyP50, row.LatencyP95, row.BLEU, row.ChrF)
	}
	fmt.Fprintf(out, "csv: %s\nmd:  %s\n", csvPath, mdPath)

	return nil
}
