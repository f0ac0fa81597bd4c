package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harvatechs/ariv/internal/apperr"
)

const testDoc = `
models:
  alpha:
    type: gguf
    quant: Q4_K_M
    vram_mb: 1000
    task: general
    fallback: [beta]
  beta:
    vram_mb: 500
`

func TestParse_Defaults(t *testing.T) {
	r, err := parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	beta, err := r.Get("beta")
	if err != nil {
		t.Fatalf("Get(beta) error = %v", err)
	}
	if beta.Type != "gguf" {
		t.Errorf("beta.Type = %q, want default %q", beta.Type, "gguf")
	}
	if beta.Task != "general" {
		t.Errorf("beta.Task = %q, want default %q", beta.Task, "general")
	}
}

func TestRegistry_RoundTrip(t *testing.T) {
	r, err := parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	seen := map[string]bool{}
	for _, m := range list {
		seen[m.Name] = true
		got, err := r.Get(m.Name)
		if err != nil {
			t.Errorf("Get(%s) error = %v", m.Name, err)
		}
		if got.Name != m.Name {
			t.Errorf("Get(%s).Name = %q, want %q", m.Name, got.Name, m.Name)
		}
		if !r.Has(m.Name) {
			t.Errorf("Has(%s) = false, want true", m.Name)
		}
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Errorf("List() = %v, want alpha and beta", list)
	}
}

func TestRegistry_List_PreservesDocumentOrder(t *testing.T) {
	doc := `
models:
  zebra:
    vram_mb: 1
  alpha:
    vram_mb: 1
  mango:
    vram_mb: 1
`
	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	want := []string{"zebra", "alpha", "mango"}
	for i := 0; i < 5; i++ {
		list := r.List()
		got := make([]string, len(list))
		for i, m := range list {
			got[i] = m.Name
		}
		if len(got) != len(want) {
			t.Fatalf("List() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("List()[%d] = %q, want %q (document order): got %v", i, got[i], want[i], got)
			}
		}
	}
}

func TestLoadDefault_PreservesDocumentOrder(t *testing.T) {
	r, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	want := []string{"llama-3.2-1b-q4_k_m", "sarvam-2b-q4_k_m", "qwen-2.5-3b-q4_k_m", "qwen-2.5-7b-q4_k_m"}
	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(list), len(want))
	}
	for i := range want {
		if list[i].Name != want[i] {
			t.Fatalf("List()[%d].Name = %q, want %q (models.yaml document order)", i, list[i].Name, want[i])
		}
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	r, err := parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	_, err = r.Get("missing")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get(missing) error = %v, want NotFound", err)
	}
	if r.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestRegistry_MalformedDocument(t *testing.T) {
	_, err := parse([]byte("models: [this, is, a, list, not, a, map]"))
	if !apperr.Is(err, apperr.KindConfigInvalid) {
		t.Errorf("parse() error = %v, want ConfigInvalid", err)
	}
}

func TestRegistry_AvailableLocal(t *testing.T) {
	tmp := t.TempDir()
	present := filepath.Join(tmp, "present.gguf")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	doc := `
models:
  here:
    vram_mb: 1
    local_path: ` + present + `
  gone:
    vram_mb: 1
    local_path: ` + filepath.Join(tmp, "missing.gguf") + `
  unset:
    vram_mb: 1
`
	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	avail := r.AvailableLocal()
	if len(avail) != 1 || avail[0].Name != "here" {
		t.Errorf("AvailableLocal() = %v, want only [here]", avail)
	}
}

func TestLoadDefault(t *testing.T) {
	r, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	for _, want := range []string{"llama-3.2-1b-q4_k_m", "sarvam-2b-q4_k_m", "qwen-2.5-3b-q4_k_m"} {
		if !r.Has(want) {
			t.Errorf("default catalog missing router contract model %q", want)
		}
	}
}
