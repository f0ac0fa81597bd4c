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

// Package manager tracks which models are currently "resident" under a
// bounded LRU policy. It never loads or unloads a model itself; it only
// tells callers which names to evict so they can trigger teardown
// side-effects elsewhere. In this module the evicted names are reported
// to clients in the chat metadata envelope (see internal/server).
package manager

import (
	"sort"
	"sync"

	"github.com/harvatechs/ariv/internal/metrics"
)

// Manager is a mutex-protected bounded LRU of model names. The source
// this module was distilled from is single-threaded; the target shares
// one Manager across concurrent request handlers, so every mutation is
// serialized under mu (spec §9 re-architecture note).
type Manager struct {
	mu        sync.Mutex
	loaded    map[string]uint64
	counter   uint64
	maxLoaded int
}

// New returns a Manager bounded to maxLoaded resident models. maxLoaded
// must be at least 1.
func New(maxLoaded int) *Manager {
	if maxLoaded < 1 {
		maxLoaded = 1
	}
	return &Manager{
		loaded:    make(map[string]uint64),
		maxLoaded: maxLoaded,
	}
}

// Touch marks name as most-recently-used, possibly evicting the
// least-recently-used entries to stay within maxLoaded. Touching an
// already-resident name refreshes it rather than evicting it.
func (m *Manager) Touch(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	m.loaded[name] = m.counter

	var evicted []string
	for len(m.loaded) > m.maxLoaded {
		lru := ""
		var lruCounter uint64
		first := true
		for n, c := range m.loaded {
			if first || c < lruCounter {
				lru, lruCounter, first = n, c, false
			}
		}
		delete(m.loaded, lru)
		evicted = append(evicted, lru)
	}

	metrics.ResidentModelsGauge.Set(float64(len(m.loaded)))
	if len(evicted) > 0 {
		metrics.ModelEvictionsTotal.Add(float64(len(evicted)))
	}
	return evicted
}

// Loaded returns a sorted, defensive snapshot of resident model names.
func (m *Manager) Loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.loaded))
	for name := range m.loaded {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
