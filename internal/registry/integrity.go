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

package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/harvatechs/ariv/internal/gguf"
)

// VerifyResult reports the outcome of a local artifact integrity check.
type VerifyResult struct {
	Model        string
	Exists       bool
	GGUFValid    bool
	SHA256OK     bool // true when either no digest was declared or it matched
	ComputedHash string
}

// VerifyLocal checks the on-disk artifact for name against its declared
// sha256 and sanity-checks the GGUF container header. It never mutates
// the registry and is independent of AvailableLocal's existence-only
// rule: a model can be "available" but fail VerifyLocal (corrupt
// download), and the caller decides what to do about that.
func (r *Registry) VerifyLocal(name string) (VerifyResult, error) {
	spec, err := r.Get(name)
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{Model: name}
	if spec.LocalPath == "" {
		return result, nil
	}

	f, err := os.Open(spec.LocalPath)
	if err != nil {
		return result, nil // not an error: VerifyLocal reports absence, doesn't fail on it
	}
	defer f.Close()
	result.Exists = true

	hasher := sha256.New()
	tee := io.TeeReader(f, hasher)
	if _, err := gguf.ReadHeader(tee); err == nil {
		result.GGUFValid = true
	}
	if _, err := io.Copy(hasher, f); err != nil {
		return result, fmt.Errorf("hashing %s: %w", spec.LocalPath, err)
	}

	result.ComputedHash = hex.EncodeToString(hasher.Sum(nil))
	if spec.SHA256 == "" || spec.SHA256 == result.ComputedHash {
		result.SHA256OK = true
	}
	return result, nil
}
