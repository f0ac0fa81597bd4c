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

// Package gguf reads just enough of the GGUF container header to tell a
// well-formed model artifact from a truncated or unrelated file. It does
// not parse metadata key/value pairs or tensor descriptors: the registry
// only needs a cheap sanity check before trusting a local_path.
package gguf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic number: bytes [G, G, U, F] read as a little-endian u32.
const magic uint32 = 0x46554747

var (
	ErrInvalidMagic       = errors.New("invalid GGUF magic number")
	ErrUnsupportedVersion = errors.New("unsupported GGUF version")
)

// Header is the fixed-size prefix of a GGUF file.
type Header struct {
	Version         uint32
	TensorCount     uint64
	MetadataKVCount uint64
}

// ReadHeader parses and validates the GGUF header from r, failing fast on
// a bad magic number or an unsupported version (GGUF versions 2 and 3).
func ReadHeader(r io.Reader) (*Header, error) {
	var gotMagic uint32
	if err := binary.Read(r, binary.LittleEndian, &gotMagic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("%w: expected 0x%08X, got 0x%08X", ErrInvalidMagic, magic, gotMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version < 2 || version > 3 {
		return nil, fmt.Errorf("%w: %d (supported: 2, 3)", ErrUnsupportedVersion, version)
	}

	var tensorCount uint64
	if err := binary.Read(r, binary.LittleEndian, &tensorCount); err != nil {
		return nil, fmt.Errorf("reading tensor count: %w", err)
	}

	var metadataKVCount uint64
	if err := binary.Read(r, binary.LittleEndian, &metadataKVCount); err != nil {
		return nil, fmt.Errorf("reading metadata kv count: %w", err)
	}

	return &Header{
		Version:         version,
		TensorCount:     tensorCount,
		MetadataKVCount: metadataKVCount,
	}, nil
}
