package config

import "testing"

func TestOutputNameFlagWins(t *testing.T) {
	m := Manifest{Package: "demo", Output: "demo-bin"}
	if got := m.OutputName("explicit"); got != "explicit" {
		t.Errorf("got %q, want %q", got, "explicit")
	}
}

func TestOutputNameFallsBackToManifest(t *testing.T) {
	m := Manifest{Package: "demo", Output: "demo-bin"}
	if got := m.OutputName(""); got != "demo-bin" {
		t.Errorf("got %q, want %q", got, "demo-bin")
	}
}

func TestOutputNameFallsBackToPackage(t *testing.T) {
	m := Manifest{Package: "demo"}
	if got := m.OutputName(""); got != "demo" {
		t.Errorf("got %q, want %q", got, "demo")
	}
}
