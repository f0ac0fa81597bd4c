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

// Package router deterministically selects a model from the registry
// given a hardware profile, an optional preferred language, an optional
// task hint, and the request text. It performs no I/O.
package router

import (
	"fmt"
	"strings"

	"github.com/harvatechs/ariv/internal/probe"
	"github.com/harvatechs/ariv/internal/registry"
)

const (
	primaryCodeLogic = "qwen-2.5-3b-q4_k_m"
	primaryIndic     = "sarvam-2b-q4_k_m"
	primaryGeneral   = "llama-3.2-1b-q4_k_m"
	safetyNetModel   = "llama-3.2-1b-q4_k_m"
	allGPULayers     = 999
)

var codeHints = map[string]struct{}{
	"code": {}, "python": {}, "java": {}, "sql": {}, "debug": {}, "logic": {}, "reasoning": {},
}

var codeShapeTokens = []string{"def ", "class ", "```", "import "}

var indicLangs = map[string]struct{}{
	"hi": {}, "ta": {}, "te": {}, "kn": {}, "bn": {}, "ml": {}, "gu": {}, "pa": {}, "mr": {}, "ur": {},
}

// RouteDecision is the router's product for a single request.
type RouteDecision struct {
	Model           registry.ModelSpec
	Fallback        string // originally selected model name when the VRAM downgrade or the safety net fired; empty otherwise
	NumGPULayers    int
	EstimatedVRAMMB int
	Reason          string
}

// Registry is the subset of registry.Registry the router depends on,
// kept narrow so tests can supply an in-memory double.
type Registry interface {
	Get(name string) (registry.ModelSpec, error)
	Has(name string) bool
}

// Router chooses models deterministically; it holds no mutable state.
type Router struct {
	registry Registry
}

// New returns a Router backed by the given registry.
func New(reg Registry) *Router {
	return &Router{registry: reg}
}

// Choose implements the spec's six-step decision procedure (task
// classification, indic detection, primary selection, VRAM downgrade,
// safety net, GPU-layer estimate). It is a pure function of its
// arguments and the registry's contents.
func (r *Router) Choose(hw probe.HardwareProfile, preferredLang, taskHint, text string) (RouteDecision, error) {
	isIndic := detectIndic(preferredLang, text)
	taskType := classifyTask(taskHint, text)

	var primary string
	switch {
	case taskType == "code_logic":
		primary = primaryCodeLogic
	case isIndic:
		primary = primaryIndic
	default:
		primary = primaryGeneral
	}

	selected, err := r.registry.Get(primary)
	if err != nil {
		return RouteDecision{}, err
	}

	var fallbackName string
	if hw.VRAMMB > 0 && selected.VRAMMB > hw.VRAMMB {
		for _, candidate := range selected.Fallback {
			if !r.registry.Has(candidate) {
				continue
			}
			alt, err := r.registry.Get(candidate)
			if err != nil {
				continue
			}
			if alt.VRAMMB <= hw.VRAMMB {
				fallbackName = selected.Name
				selected = alt
				break
			}
		}
	}

	if hw.VRAMMB < selected.VRAMMB {
		if fallbackName == "" {
			fallbackName = selected.Name
		}
		if r.registry.Has(safetyNetModel) {
			if net, err := r.registry.Get(safetyNetModel); err == nil {
				selected = net
			}
		}
	}

	numGPULayers := estimateGPULayers(hw.VRAMMB, selected.VRAMMB)
	reason := fmt.Sprintf("task=%s, indic=%t, vram=%d", taskType, isIndic, hw.VRAMMB)

	return RouteDecision{
		Model:           selected,
		Fallback:        fallbackName,
		NumGPULayers:    numGPULayers,
		EstimatedVRAMMB: selected.VRAMMB,
		Reason:          reason,
	}, nil
}

func classifyTask(taskHint, text string) string {
	hint := strings.ToLower(taskHint)
	for token := range codeHints {
		if strings.Contains(hint, token) {
			return "code_logic"
		}
	}
	lowerText := strings.ToLower(text)
	for _, token := range codeShapeTokens {
		if strings.Contains(lowerText, token) {
			return "code_logic"
		}
	}
	return "indic"
}

func detectIndic(preferredLang, text string) bool {
	if preferredLang != "" {
		if _, ok := indicLangs[strings.ToLower(preferredLang)]; ok {
			return true
		}
	}
	for _, r := range text {
		if r >= 0x0900 && r <= 0x0DFF {
			return true
		}
	}
	return false
}

func estimateGPULayers(vramMB, modelVRAMMB int) int {
	if vramMB <= 0 {
		return 0
	}
	if vramMB >= modelVRAMMB {
		return allGPULayers
	}
	denom := modelVRAMMB
	if denom <= 0 {
		denom = 1
	}
	ratio := float64(vramMB) / float64(denom)
	if ratio < 0.05 {
		ratio = 0.05
	}
	layers := int(40 * ratio)
	if layers < 1 {
		layers = 1
	}
	return layers
}
