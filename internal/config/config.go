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

// Package config centralizes every environment variable ARIV recognizes
// into one typed record, populated once at process startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds every recognized environment override (spec §6).
type Config struct {
	LlamaCppBin     string
	MockLlama       bool
	FakeVRAMMB      int
	ModelsYAMLPath  string // empty means "use the embedded default catalog"
	LogLevel        string
	MaxLoadedModels int
	GracePeriod     time.Duration
}

const (
	envLlamaCppBin     = "LLAMA_CPP_BIN"
	envMockLlama       = "ARIV_MOCK_LLAMA"
	envFakeVRAM        = "ARIV_FAKE_VRAM_MB"
	envModelsYAML      = "ARIV_MODELS_YAML"
	envLogLevel        = "ARIV_LOG_LEVEL"
	envMaxLoadedModels = "ARIV_MAX_LOADED_MODELS"
	envGracePeriod     = "ARIV_GRACE_PERIOD"

	defaultLlamaCppBin     = "llama-cli"
	defaultMaxLoadedModels = 2
	defaultGracePeriod     = 5 * time.Second
)

// Load reads the environment and returns a populated Config. It never
// fails: every recognized variable degrades to a documented default,
// matching the probe's "never raise, fall back quietly" philosophy.
func Load() *Config {
	cfg := &Config{
		LlamaCppBin:     defaultLlamaCppBin,
		MockLlama:       false,
		FakeVRAMMB:      0,
		ModelsYAMLPath:  "",
		LogLevel:        "info",
		MaxLoadedModels: defaultMaxLoadedModels,
		GracePeriod:     defaultGracePeriod,
	}

	if v := os.Getenv(envLlamaCppBin); v != "" {
		cfg.LlamaCppBin = v
	}
	if os.Getenv(envMockLlama) == "1" {
		cfg.MockLlama = true
	}
	if v := os.Getenv(envFakeVRAM); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FakeVRAMMB = n
		}
	}
	if v := os.Getenv(envModelsYAML); v != "" {
		cfg.ModelsYAMLPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envMaxLoadedModels); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.MaxLoadedModels = n
		}
	}
	if v := os.Getenv(envGracePeriod); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.GracePeriod = d
		}
	}

	return cfg
}

// ZapLevel maps the configured log level string to a zapcore.Level,
// defaulting to Info for anything unrecognized.
func ZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
