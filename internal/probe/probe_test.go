package probe

import (
	"errors"
	"testing"
)

func TestProbe_NvidiaPresent(t *testing.T) {
	p := New(0)
	p.runCommand = func(name string, args ...string) ([]byte, error) {
		return []byte("NVIDIA GeForce RTX 4090, 24564 MiB\n"), nil
	}

	profile := p.Probe()
	if !profile.GPU {
		t.Fatal("Probe().GPU = false, want true")
	}
	if profile.VRAMMB != 24564 {
		t.Errorf("Probe().VRAMMB = %d, want 24564", profile.VRAMMB)
	}
	if profile.DeviceName != "NVIDIA GeForce RTX 4090" {
		t.Errorf("Probe().DeviceName = %q, want %q", profile.DeviceName, "NVIDIA GeForce RTX 4090")
	}
}

func TestProbe_NvidiaAbsent_FallsBackToCPU(t *testing.T) {
	p := New(1234)
	p.runCommand = func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("exec: \"nvidia-smi\": executable file not found in $PATH")
	}

	profile := p.Probe()
	if profile.GPU {
		t.Fatal("Probe().GPU = true, want false")
	}
	if profile.DeviceName != "cpu" {
		t.Errorf("Probe().DeviceName = %q, want cpu", profile.DeviceName)
	}
	if profile.VRAMMB != 1234 {
		t.Errorf("Probe().VRAMMB = %d, want override 1234", profile.VRAMMB)
	}
}

func TestProbe_MalformedNvidiaOutput(t *testing.T) {
	p := New(0)
	p.runCommand = func(name string, args ...string) ([]byte, error) {
		return []byte("garbage output with no comma\n"), nil
	}

	profile := p.Probe()
	if profile.GPU {
		t.Fatal("Probe().GPU = true, want false on malformed output")
	}
}

func TestProbe_NeverPanics(t *testing.T) {
	p := New(0)
	p.runCommand = func(name string, args ...string) ([]byte, error) {
		return []byte(""), nil
	}
	_ = p.Probe()
}
