package algebra

import (
	"math"
	"testing"
)

func TestPointConstructor(t *testing.T) {
	blob, err := Point(1, 2, nil)
	if err != nil {
		t.Fatalf("Point error: %v", err)
	}
	got, err := AsText(blob)
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "POINT (1 2)" {
		t.Fatalf("AsText = %q", got)
	}
}

func TestPointRejectsNonFinite(t *testing.T) {
	cases := [][2]float64{
		{math.NaN(), 1},
		{1, math.Inf(1)},
	}
	for _, c := range cases {
		if _, err := Point(c[0], c[1], nil); err == nil {
			t.Errorf("Point(%v, %v) expected error", c[0], c[1])
		}
	}
}

func TestMakeLine(t *testing.T) {
	a, _ := Point(0, 0, nil)
	b, _ := Point(1, 1, nil)
	blob, err := MakeLine(a, b)
	if err != nil {
		t.Fatalf("MakeLine error: %v", err)
	}
	got, err := AsText(blob)
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "LINESTRING (0 0,1 1)" {
		t.Fatalf("AsText = %q", got)
	}
}

func TestMakeLineWrongType(t *testing.T) {
	a, _ := Point(0, 0, nil)
	line, _ := GeomFromText("LINESTRING (0 0,1 1)")
	if _, err := MakeLine(a, line); err == nil {
		t.Fatalf("expected WrongType error")
	}
}

func TestMakePolygon(t *testing.T) {
	ls, err := GeomFromText("LINESTRING (0 0,4 0,4 4,0 4,0 0)")
	if err != nil {
		t.Fatalf("GeomFromText error: %v", err)
	}
	blob, err := MakePolygon(ls)
	if err != nil {
		t.Fatalf("MakePolygon error: %v", err)
	}
	got, err := AsText(blob)
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "POLYGON ((0 0,4 0,4 4,0 4,0 0))" {
		t.Fatalf("AsText = %q", got)
	}
}

func TestMakeEnvelope(t *testing.T) {
	blob, err := MakeEnvelope(0, 0, 4, 4, nil)
	if err != nil {
		t.Fatalf("MakeEnvelope error: %v", err)
	}
	area, err := Area(blob)
	if err != nil {
		t.Fatalf("Area error: %v", err)
	}
	if area != 16 {
		t.Fatalf("Area = %v, want 16", area)
	}
}

func TestCollectPoints(t *testing.T) {
	a, _ := Point(0, 0, nil)
	b, _ := Point(1, 1, nil)
	blob, err := Collect(a, b)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	gt, err := GeometryType(blob)
	if err != nil {
		t.Fatalf("GeometryType error: %v", err)
	}
	if gt != "ST_GeometryCollection" {
		t.Fatalf("GeometryType = %q, want ST_GeometryCollection", gt)
	}
}

func TestCollectMixedTypes(t *testing.T) {
	a, _ := Point(0, 0, nil)
	b, err := GeomFromText("LINESTRING (0 0,1 1)")
	if err != nil {
		t.Fatalf("GeomFromText error: %v", err)
	}
	blob, err := Collect(a, b)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	gt, err := GeometryType(blob)
	if err != nil {
		t.Fatalf("GeometryType error: %v", err)
	}
	if gt != "ST_GeometryCollection" {
		t.Fatalf("GeometryType = %q, want ST_GeometryCollection", gt)
	}
}

func TestTileEnvelope(t *testing.T) {
	blob, err := TileEnvelope(0, 0, 0)
	if err != nil {
		t.Fatalf("TileEnvelope error: %v", err)
	}
	area, err := Area(blob)
	if err != nil {
		t.Fatalf("Area error: %v", err)
	}
	h := float64(webMercatorHalfCircumference)
	want := 2 * h * 2 * h
	if area != want {
		t.Fatalf("Area = %v, want %v", area, want)
	}
}

func TestTileEnvelopeRejectsOutOfRange(t *testing.T) {
	if _, err := TileEnvelope(0, 1, 0); err == nil {
		t.Fatalf("expected error for tile x out of range at zoom 0")
	}
	if _, err := TileEnvelope(-1, 0, 0); err == nil {
		t.Fatalf("expected error for negative zoom")
	}
}
