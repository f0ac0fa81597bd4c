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

// Package registry parses and serves the declarative model catalog: an
// immutable, read-only-after-load set of ModelSpec entries keyed by name.
package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harvatechs/ariv/internal/apperr"
)

//go:embed models.yaml
var defaultCatalogYAML []byte

// ModelSpec is an immutable descriptor for one deployable model.
type ModelSpec struct {
	Name           string
	Type           string
	Family         string
	Quant          string
	VRAMMB         int
	Task           string
	URL            string
	License        string
	SHA256         string
	PreferredLangs []string
	Fallback       []string
	LocalPath      string
}

// rawDocument mirrors the on-disk YAML shape: `models: {name: entry}`.
// Models is decoded as a raw yaml.Node, not a Go map, because map
// iteration order is randomized per run and List() must return models
// in document order (spec §4.A).
type rawDocument struct {
	Models yaml.Node `yaml:"models"`
}

type rawEntry struct {
	Type           string   `yaml:"type"`
	Family         string   `yaml:"family"`
	Quant          string   `yaml:"quant"`
	VRAMMB         int      `yaml:"vram_mb"`
	Task           string   `yaml:"task"`
	URL            string   `yaml:"url"`
	License        string   `yaml:"license"`
	SHA256         string   `yaml:"sha256"`
	PreferredLangs []string `yaml:"preferred_langs"`
	Fallback       []string `yaml:"fallback"`
	LocalPath      string   `yaml:"local_path"`
}

// Registry is a read-only, in-memory catalog of ModelSpecs. It is safe
// for concurrent use by multiple goroutines once loaded, since nothing
// ever mutates it after Load/LoadDefault returns.
type Registry struct {
	order  []string
	models map[string]ModelSpec
}

// LoadDefault loads the embedded catalog shipped with the binary, used
// when ARIV_MODELS_YAML is unset.
func LoadDefault() (*Registry, error) {
	return parse(defaultCatalogYAML)
}

// LoadFile loads a registry document from an absolute filesystem path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfigInvalid, "read registry file "+path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Wrap(apperr.KindConfigInvalid, "parse registry document", err)
	}

	r := &Registry{models: make(map[string]ModelSpec)}

	if doc.Models.Kind == 0 {
		return r, nil
	}
	if doc.Models.Kind != yaml.MappingNode {
		return nil, apperr.New(apperr.KindConfigInvalid, "registry document: models must be a mapping")
	}

	content := doc.Models.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value

		var entry rawEntry
		if err := content[i+1].Decode(&entry); err != nil {
			return nil, apperr.Wrap(apperr.KindConfigInvalid, fmt.Sprintf("parse model %q", name), err)
		}

		spec := ModelSpec{
			Name:           name,
			Type:           entry.Type,
			Family:         entry.Family,
			Quant:          entry.Quant,
			VRAMMB:         entry.VRAMMB,
			Task:           entry.Task,
			URL:            entry.URL,
			License:        entry.License,
			SHA256:         entry.SHA256,
			PreferredLangs: entry.PreferredLangs,
			Fallback:       entry.Fallback,
			LocalPath:      entry.LocalPath,
		}
		if spec.Type == "" {
			spec.Type = "gguf"
		}
		if spec.Task == "" {
			spec.Task = "general"
		}
		if spec.VRAMMB < 0 {
			return nil, apperr.New(apperr.KindConfigInvalid, fmt.Sprintf("model %q has negative vram_mb", name))
		}
		r.models[name] = spec
		r.order = append(r.order, name)
	}
	return r, nil
}

// Get returns the ModelSpec registered under name, or a NotFound error.
func (r *Registry) Get(name string) (ModelSpec, error) {
	spec, ok := r.models[name]
	if !ok {
		return ModelSpec{}, apperr.New(apperr.KindNotFound, fmt.Sprintf("model %q not found", name))
	}
	return spec, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.models[name]
	return ok
}

// List returns every ModelSpec in document order.
func (r *Registry) List() []ModelSpec {
	out := make([]ModelSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

// AvailableLocal returns every ModelSpec whose local_path is set and
// exists on disk at call time.
func (r *Registry) AvailableLocal() []ModelSpec {
	out := make([]ModelSpec, 0)
	for _, name := range r.order {
		spec := r.models[name]
		if spec.LocalPath == "" {
			continue
		}
		if _, err := os.Stat(spec.LocalPath); err == nil {
			out = append(out, spec)
		}
	}
	return out
}
