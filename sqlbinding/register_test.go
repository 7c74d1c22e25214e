package sqlbinding

import (
	"log/slog"
	"testing"
)

func TestCatalogKeyFormat(t *testing.T) {
	got := catalogKey("ST_Point", 2)
	if got != "ST_Point@2" {
		t.Fatalf("catalogKey = %q, want ST_Point@2", got)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.DriverName != "geolite" {
		t.Fatalf("default DriverName = %q, want geolite", o.DriverName)
	}
	if o.Logger == nil {
		t.Fatalf("default Logger is nil")
	}
}

func TestOptionsWithDefaultsPreservesOverrides(t *testing.T) {
	o := Options{DriverName: "custom"}.withDefaults()
	if o.DriverName != "custom" {
		t.Fatalf("DriverName = %q, want custom", o.DriverName)
	}
}

func TestNormalizeUTF8ComposesCombiningMarks(t *testing.T) {
	// "e" + combining acute accent (U+0301) decomposed form.
	decomposed := "é"
	got := normalizeUTF8(decomposed)
	want := "é" // precomposed "é"
	if string(got) != want {
		t.Fatalf("normalizeUTF8(%q) = %q, want %q", decomposed, got, want)
	}
}

func TestWrapPanicsRecoversPanic(t *testing.T) {
	fn := func(b []byte) ([]byte, error) {
		panic("boom")
	}
	wrapped := wrapPanics(slog.Default(), "ST_Test", fn).(func([]byte) ([]byte, error))
	_, err := wrapped(nil)
	if err == nil {
		t.Fatalf("expected recovered error, got nil")
	}
}
