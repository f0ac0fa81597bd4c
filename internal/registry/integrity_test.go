package registry

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeGGUF(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	_ = binary.Write(f, binary.LittleEndian, uint32(0x46554747))
	_ = binary.Write(f, binary.LittleEndian, uint32(3))
	_ = binary.Write(f, binary.LittleEndian, uint64(0))
	_ = binary.Write(f, binary.LittleEndian, uint64(0))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestVerifyLocal_MatchingDigest(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "model.gguf")
	digest := writeFakeGGUF(t, path)

	doc := `
models:
  m:
    vram_mb: 1
    local_path: ` + path + `
    sha256: "` + digest + `"
`
	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	result, err := r.VerifyLocal("m")
	if err != nil {
		t.Fatalf("VerifyLocal() error = %v", err)
	}
	if !result.Exists || !result.GGUFValid || !result.SHA256OK {
		t.Errorf("VerifyLocal() = %+v, want all true", result)
	}
}

func TestVerifyLocal_MismatchedDigest(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "model.gguf")
	writeFakeGGUF(t, path)

	doc := `
models:
  m:
    vram_mb: 1
    local_path: ` + path + `
    sha256: "0000000000000000000000000000000000000000000000000000000000000000"
`
	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	result, err := r.VerifyLocal("m")
	if err != nil {
		t.Fatalf("VerifyLocal() error = %v", err)
	}
	if result.SHA256OK {
		t.Error("VerifyLocal().SHA256OK = true, want false on mismatch")
	}
}

func TestVerifyLocal_MissingFile(t *testing.T) {
	doc := `
models:
  m:
    vram_mb: 1
    local_path: /nonexistent/path/model.gguf
`
	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	result, err := r.VerifyLocal("m")
	if err != nil {
		t.Fatalf("VerifyLocal() error = %v", err)
	}
	if result.Exists {
		t.Error("VerifyLocal().Exists = true, want false")
	}
}
