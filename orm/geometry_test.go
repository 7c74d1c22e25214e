package orm

import (
	"testing"

	"github.com/geolite-go/geolite/algebra"
)

func TestGeometryScanAndValue(t *testing.T) {
	raw, err := algebra.GeomFromText("POINT (1 2)")
	if err != nil {
		t.Fatalf("GeomFromText error: %v", err)
	}
	var g Geometry
	if err := g.Scan(raw); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	val, err := g.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	b, ok := val.([]byte)
	if !ok {
		t.Fatalf("Value() = %T, want []byte", val)
	}
	if string(b) != string(raw) {
		t.Fatalf("Value() bytes do not match scanned bytes")
	}
}

func TestGeometryScanNil(t *testing.T) {
	g := Geometry{EWKB: []byte{1, 2, 3}}
	if err := g.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if g.EWKB != nil {
		t.Fatalf("Scan(nil) left EWKB = %v, want nil", g.EWKB)
	}
}

func TestGeometryScanWrongType(t *testing.T) {
	var g Geometry
	if err := g.Scan("not bytes"); err == nil {
		t.Fatalf("expected error scanning non-[]byte value")
	}
}

func TestGeometryValueNil(t *testing.T) {
	var g Geometry
	val, err := g.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if val != nil {
		t.Fatalf("Value() = %v, want nil", val)
	}
}

func TestGeometryAsText(t *testing.T) {
	raw, err := algebra.GeomFromText("POINT (1 2)")
	if err != nil {
		t.Fatalf("GeomFromText error: %v", err)
	}
	g := Geometry{EWKB: raw}
	got, err := g.AsText()
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "POINT (1 2)" {
		t.Fatalf("AsText = %q", got)
	}
}

func TestGormDataTypeNames(t *testing.T) {
	var g Geometry
	if got := g.GormDataType(); got != "geolite_geometry" {
		t.Fatalf("GormDataType = %q", got)
	}
	if got := g.GormDBDataType(nil, nil); got != "BLOB" {
		t.Fatalf("GormDBDataType = %q, want BLOB", got)
	}
}

func TestFunctionDescriptorsNonEmpty(t *testing.T) {
	descs := FunctionDescriptors()
	if len(descs) == 0 {
		t.Fatalf("FunctionDescriptors() returned no entries")
	}
	found := false
	for _, d := range descs {
		if d.Name == "ST_Distance" && d.Arity == 2 {
			found = true
			if d.CallShape != "ST_Distance(?, ?)" {
				t.Errorf("CallShape = %q, want ST_Distance(?, ?)", d.CallShape)
			}
		}
	}
	if !found {
		t.Fatalf("FunctionDescriptors() missing ST_Distance/2")
	}
}
