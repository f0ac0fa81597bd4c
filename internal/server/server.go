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

// Package server is the HTTP frontend: list models, stream chat
// completions, and run benchmark evaluations. It holds no state of its
// own beyond the process-singleton AppState (spec §9 re-architecture
// note: module-level singletons become an explicit struct passed by
// reference to handlers).
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/harvatechs/ariv/internal/apperr"
	"github.com/harvatechs/ariv/internal/bench"
	"github.com/harvatechs/ariv/internal/metrics"
	"github.com/harvatechs/ariv/internal/probe"
	"github.com/harvatechs/ariv/internal/registry"
	"github.com/harvatechs/ariv/internal/router"
	"github.com/harvatechs/ariv/internal/runner"
)

var tracer = otel.Tracer("github.com/harvatechs/ariv/internal/server")

// RegistryReader is the subset of *registry.Registry the frontend needs.
type RegistryReader interface {
	Get(name string) (registry.ModelSpec, error)
	Has(name string) bool
	List() []registry.ModelSpec
}

// ModelManager tracks resident models and reports evictions.
type ModelManager interface {
	Touch(name string) []string
}

// HardwareProber reports the current hardware profile.
type HardwareProber interface {
	Probe() probe.HardwareProfile
}

// Chooser selects a model for a chat request.
type Chooser interface {
	Choose(hw probe.HardwareProfile, preferredLang, taskHint, text string) (router.RouteDecision, error)
}

// Streamer runs an inference session.
type Streamer interface {
	Stream(ctx context.Context, cfg runner.Config) (*runner.Session, error)
}

// BenchRunner replays a dataset across models.
type BenchRunner interface {
	Run(ctx context.Context, datasetPath string, models []string, lang, subset string) ([]bench.Result, string, string, error)
}

// AppState is the process-singleton state shared by every handler.
type AppState struct {
	Registry RegistryReader
	Manager  ModelManager
	Prober   HardwareProber
	Router   Chooser
	Runner   Streamer
	Bench    BenchRunner
	Logger   *zap.SugaredLogger

	DefaultMaxTokens   int
	DefaultTemperature float64
}

// NewMux builds the frontend's http.Handler.
func NewMux(state *AppState) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", state.instrument("/v1/models", state.handleModels))
	mux.HandleFunc("/v1/chat", state.instrument("/v1/chat", state.handleChat))
	mux.HandleFunc("/v1/eval", state.instrument("/v1/eval", state.handleEval))
	mux.HandleFunc("/healthz", state.instrument("/healthz", state.handleHealthz))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *AppState) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(route, statusClass(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streaming handlers can still
// flush through the instrumentation wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

type modelListEntry struct {
	Quant     string `json:"quant"`
	VRAMMB    string `json:"vram_mb"`
	LocalPath string `json:"local_path"`
	Task      string `json:"task"`
	Verified  *bool  `json:"verified,omitempty"`
}

// IntegrityVerifier is satisfied by *registry.Registry; handleModels
// uses it only when the caller asks for verification via ?verify=1, so
// the narrow RegistryReader interface stays free of it.
type IntegrityVerifier interface {
	VerifyLocal(name string) (registry.VerifyResult, error)
}

func (s *AppState) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, apperr.New(apperr.KindConfigInvalid, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	verify := r.URL.Query().Get("verify") == "1"
	verifier, canVerify := s.Registry.(IntegrityVerifier)

	out := make(map[string]modelListEntry)
	for _, spec := range s.Registry.List() {
		entry := modelListEntry{
			Quant:     spec.Quant,
			VRAMMB:    itoa(spec.VRAMMB),
			LocalPath: spec.LocalPath,
			Task:      spec.Task,
		}
		if verify && canVerify {
			result, err := verifier.VerifyLocal(spec.Name)
			if err == nil {
				ok := result.Exists && result.GGUFValid && result.SHA256OK
				entry.Verified = &ok
			}
		}
		out[spec.Name] = entry
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type chatRequest struct {
	UserID        string `json:"user_id"`
	Text          string `json:"text"`
	PreferredLang string `json:"preferred_lang"`
	TaskHint      string `json:"task_hint"`
}

type chatMetadata struct {
	Model     string   `json:"model"`
	VRAMUsed  int      `json:"vram_used"`
	Fallback  string   `json:"fallback"`
	Evicted   []string `json:"evicted"`
	Reason    string   `json:"reason"`
}

type chatEnvelope struct {
	Metadata chatMetadata `json:"metadata"`
}

func (s *AppState) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindConfigInvalid, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	ctx, span := tracer.Start(r.Context(), "ariv.chat")
	defer span.End()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindConfigInvalid, "malformed request body", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("ariv.user_id", req.UserID),
		attribute.String("ariv.preferred_lang", req.PreferredLang),
		attribute.String("ariv.task_hint", req.TaskHint),
	)

	hw := s.Prober.Probe()
	decision, err := s.Router.Choose(hw, req.PreferredLang, req.TaskHint, req.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, err, statusFor(err, false))
		return
	}

	evicted := s.Manager.Touch(decision.Model.Name)

	metrics.RouteDecisionsTotal.WithLabelValues(decision.Model.Name, boolLabel(decision.Fallback != "")).Inc()

	w.Header().Set("Content-Type", "text/plain")
	flusher, _ := w.(http.Flusher)

	envelope := chatEnvelope{Metadata: chatMetadata{
		Model:    decision.Model.Name,
		VRAMUsed: decision.EstimatedVRAMMB,
		Fallback: decision.Fallback,
		Evicted:  evicted,
		Reason:   decision.Reason,
	}}
	enc := json.NewEncoder(w)
	_ = enc.Encode(envelope)
	if flusher != nil {
		flusher.Flush()
	}

	sess, err := s.Runner.Stream(ctx, runner.Config{
		ModelPath:    decision.Model.LocalPath,
		Prompt:       req.Text,
		NumGPULayers: decision.NumGPULayers,
		MaxTokens:    s.DefaultMaxTokens,
		Temperature:  s.DefaultTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.Logger.Errorw("chat stream failed to start", "model", decision.Model.Name, "error", err)
		return
	}

	for tok := range sess.Tokens {
		_, _ = w.Write([]byte(tok))
		if flusher != nil {
			flusher.Flush()
		}
	}

	if res := sess.Wait(); res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		s.Logger.Errorw("chat stream ended in failure", "model", decision.Model.Name, "error", res.Err)
	}
}

type evalRequest struct {
	Models []string `json:"models"`
	Lang   string   `json:"lang"`
	Subset string   `json:"subset"`
}

type evalResponse struct {
	CSVPath string `json:"csv"`
	MDPath  string `json:"md"`
}

func (s *AppState) handleEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindConfigInvalid, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	ctx, span := tracer.Start(r.Context(), "ariv.eval")
	defer span.End()

	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindConfigInvalid, "malformed request body", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.StringSlice("ariv.models", req.Models),
		attribute.String("ariv.lang", req.Lang),
		attribute.String("ariv.subset", req.Subset),
	)

	if len(req.Models) == 0 {
		writeError(w, apperr.New(apperr.KindConfigInvalid, "models must not be empty"), http.StatusBadRequest)
		return
	}

	_, csvPath, mdPath, err := s.Bench.Run(ctx, "", req.Models, req.Lang, req.Subset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, err, statusFor(err, true))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(evalResponse{CSVPath: csvPath, MDPath: mdPath})
}

func (s *AppState) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// statusFor maps an apperr.Kind to an HTTP status. userChosen reflects
// whether the model name that triggered the error came directly from
// caller input (eval) rather than router selection (chat), per spec §7.
func statusFor(err error, userChosen bool) int {
	switch {
	case apperr.Is(err, apperr.KindConfigInvalid):
		return http.StatusBadRequest
	case apperr.Is(err, apperr.KindNotFound):
		return http.StatusNotFound
	case apperr.Is(err, apperr.KindDatasetMissing):
		return http.StatusBadRequest
	case apperr.Is(err, apperr.KindModelNotFound):
		if userChosen {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	case apperr.Is(err, apperr.KindRuntimeFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
