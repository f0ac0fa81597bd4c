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

// Package bench replays a labeled translation dataset through the
// streaming runner and reports latency percentiles, throughput, and
// quality surrogate scores, one row per model.
package bench

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harvatechs/ariv/internal/apperr"
	"github.com/harvatechs/ariv/internal/data"
	"github.com/harvatechs/ariv/internal/metrics"
	"github.com/harvatechs/ariv/internal/registry"
	"github.com/harvatechs/ariv/internal/runner"
)

const (
	fixedNumGPULayers = 10
	fixedMaxTokens    = 64
	fixedTemperature  = 0.2
	minDuration       = 1e-6
)

// Record is one labeled (source, reference) pair from the dataset.
type Record struct {
	Lang      string `json:"lang"`
	Subset    string `json:"subset"`
	Source    string `json:"source"`
	Reference string `json:"reference"`
}

// Result is one row of benchmark output: one (model, lang, subset).
type Result struct {
	Model         string
	Lang          string
	Subset        string
	BLEU          float64
	ChrF          float64
	ThroughputTPS float64
	LatencyP50    float64
	LatencyP95    float64
}

// ModelResolver looks up a model's local artifact path by name.
type ModelResolver interface {
	Get(name string) (registry.ModelSpec, error)
}

// Streamer is the subset of *runner.Runner the harness depends on.
type Streamer interface {
	Stream(ctx context.Context, cfg runner.Config) (*runner.Session, error)
}

// Harness runs benchmark replays and writes CSV/Markdown artifacts.
type Harness struct {
	Registry ModelResolver
	Runner   Streamer
	OutDir   string
}

// New returns a Harness. outDir defaults to "benchmarks/results".
func New(reg ModelResolver, r Streamer, outDir string) *Harness {
	if outDir == "" {
		outDir = filepath.Join("benchmarks", "results")
	}
	return &Harness{Registry: reg, Runner: r, OutDir: outDir}
}

// LoadDataset parses newline-delimited JSON records. A malformed line
// fails the whole load, matching the source contract.
func LoadDataset(raw []byte) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, apperr.Wrap(apperr.KindDatasetMissing, "malformed dataset line", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindDatasetMissing, "read dataset", err)
	}
	return records, nil
}

// loadFiltered loads either datasetPath or the embedded default, then
// filters to the requested (lang, subset), preserving read order.
func loadFiltered(datasetPath, lang, subset string) ([]Record, error) {
	raw := data.DefaultDataset()
	if datasetPath != "" {
		b, err := os.ReadFile(datasetPath)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDatasetMissing, "read dataset file", err)
		}
		raw = b
	}

	all, err := LoadDataset(raw)
	if err != nil {
		return nil, err
	}

	var filtered []Record
	for _, r := range all {
		if r.Lang == lang && r.Subset == subset {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, apperr.New(apperr.KindDatasetMissing,
			fmt.Sprintf("no dataset records for lang=%s, subset=%s", lang, subset))
	}
	return filtered, nil
}

// Run replays datasetPath (or the embedded default, when empty) across
// models for the given (lang, subset), writing CSV and Markdown
// artifacts under OutDir. It returns the computed rows and both
// artifact paths.
func (h *Harness) Run(ctx context.Context, datasetPath string, models []string, lang, subset string) ([]Result, string, string, error) {
	dataset, err := loadFiltered(datasetPath, lang, subset)
	if err != nil {
		return nil, "", "", err
	}

	if err := os.MkdirAll(h.OutDir, 0o755); err != nil {
		return nil, "", "", apperr.Wrap(apperr.KindRuntimeFailure, "create output dir", err)
	}

	var rows []Result
	for _, model := range models {
		spec, err := h.Registry.Get(model)
		if err != nil {
			return nil, "", "", err
		}

		var (
			latencies  []float64
			totalToks  int
			totalTime  float64
			bleuScores []float64
			chrfScores []float64
		)

		for _, rec := range dataset {
			hyp, duration, tokens, err := h.runOne(ctx, spec.LocalPath, rec.Source)
			if err != nil {
				return nil, "", "", err
			}
			totalToks += tokens
			totalTime += duration
			latencies = append(latencies, duration)
			bleuScores = append(bleuScores, simpleBLEU(hyp, rec.Reference))
			chrfScores = append(chrfScores, simpleChrF(hyp, rec.Reference))
		}

		throughput := float64(totalToks) / math.Max(totalTime, minDuration)
		row := Result{
			Model:         model,
			Lang:          lang,
			Subset:        subset,
			BLEU:          round(mean(bleuScores), 4),
			ChrF:          round(mean(chrfScores), 4),
			ThroughputTPS: round(throughput, 2),
			LatencyP50:    round(percentileMedian(latencies), 4),
			LatencyP95:    round(percentile(latencies, 0.95), 4),
		}
		rows = append(rows, row)

		metrics.BenchmarkRunsTotal.WithLabelValues(model).Inc()
		metrics.BenchmarkThroughput.WithLabelValues(model, lang, subset).Set(row.ThroughputTPS)
	}

	base := filepath.Base(models[0])
	csvPath := filepath.Join(h.OutDir, fmt.Sprintf("%s-%s-%s.csv", base, lang, subset))
	mdPath := filepath.Join(h.OutDir, fmt.Sprintf("%s-%s-%s.md", base, lang, subset))

	if err := writeCSV(csvPath, rows); err != nil {
		return nil, "", "", err
	}
	if err := writeMarkdown(mdPath, rows); err != nil {
		return nil, "", "", err
	}

	return rows, csvPath, mdPath, nil
}

func (h *Harness) runOne(ctx context.Context, modelPath, prompt string) (string, float64, int, error) {
	start := time.Now()

	sess, err := h.Runner.Stream(ctx, runner.Config{
		ModelPath:    modelPath,
		Prompt:       prompt,
		NumGPULayers: fixedNumGPULayers,
		MaxTokens:    fixedMaxTokens,
		Temperature:  fixedTemperature,
	})
	if err != nil {
		return "", 0, 0, err
	}

	var sb strings.Builder
	tokenCount := 0
	for tok := range sess.Tokens {
		sb.WriteString(tok)
		tokenCount++
	}

	if res := sess.Wait(); res.Err != nil {
		return "", 0, 0, res.Err
	}

	duration := math.Max(time.Since(start).Seconds(), minDuration)
	return sb.String(), duration, tokenCount, nil
}

func simpleBLEU(hyp, ref string) float64 {
	hypTokens := strings.Fields(hyp)
	refTokens := strings.Fields(ref)
	if len(hypTokens) == 0 || len(refTokens) == 0 {
		return 0
	}
	refSet := make(map[string]bool, len(refTokens))
	for _, t := range refTokens {
		refSet[t] = true
	}
	overlap := 0
	for _, t := range hypTokens {
		if refSet[t] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(hypTokens))
}

func simpleChrF(hyp, ref string) float64 {
	if hyp == "" || ref == "" {
		return 0
	}
	refSet := make(map[rune]bool, len(ref))
	for _, c := range ref {
		refSet[c] = true
	}
	overlap := 0
	hypLen := 0
	for _, c := range hyp {
		hypLen++
		if refSet[c] {
			overlap++
		}
	}
	return float64(overlap) / float64(hypLen)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// percentileMedian matches the source's statistics.median: average of
// the two middle values for an even-length slice.
func percentileMedian(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile implements the spec's discrete order-statistic rule:
// sort(durations)[floor(pct*n)], clamped to [0, n-1].
func percentile(vals []float64, pct float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * pct)
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func round(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+sign(v)*0.5)) / scale
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func writeCSV(path string, rows []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Wrap(apperr.KindRuntimeFailure, "create csv artifact", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"model", "lang", "subset", "bleu", "chrf", "throughput_tps", "latency_p50", "latency_p95"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.Model, r.Lang, r.Subset,
			formatFloat(r.BLEU), formatFloat(r.ChrF),
			formatFloat(r.ThroughputTPS), formatFloat(r.LatencyP50), formatFloat(r.LatencyP95),
		})
	}
	w.Flush()
	return w.Error()
}

func writeMarkdown(path string, rows []Result) error {
	var sb strings.Builder
	sb.WriteString("# Benchmark Summary\n\n")
	sb.WriteString("| Model | Lang | Subset | BLEU | chrF | Throughput (tok/s) | p50 Latency | p95 Latency |\n")
	sb.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Model, r.Lang, r.Subset,
			formatFloat(r.BLEU), formatFloat(r.ChrF),
			formatFloat(r.ThroughputTPS), formatFloat(r.LatencyP50), formatFloat(r.LatencyP95))
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
