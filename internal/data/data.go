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

// Package data bundles the default translation dataset used by the
// benchmark harness when no external dataset file is configured.
package data

import _ "embed"

//go:embed dataset.jsonl
var defaultDataset []byte

// DefaultDataset returns the embedded JSON Lines sample dataset.
func DefaultDataset() []byte {
	return defaultDataset
}
