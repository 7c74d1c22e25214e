package algebra

import (
	"testing"
)

func mustText(t *testing.T, wkt string) []byte {
	t.Helper()
	blob, err := GeomFromText(wkt)
	if err != nil {
		t.Fatalf("GeomFromText(%q) error: %v", wkt, err)
	}
	return blob
}

func TestArea(t *testing.T) {
	blob := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	got, err := Area(blob)
	if err != nil {
		t.Fatalf("Area error: %v", err)
	}
	if got != 16 {
		t.Fatalf("Area = %v, want 16", got)
	}
}

func TestAreaNonPolygonIsZero(t *testing.T) {
	blob := mustText(t, "LINESTRING (0 0,1 1)")
	got, err := Area(blob)
	if err != nil {
		t.Fatalf("Area error: %v", err)
	}
	if got != 0 {
		t.Fatalf("Area = %v, want 0", got)
	}
}

func TestLength(t *testing.T) {
	blob := mustText(t, "LINESTRING (0 0,3 4)")
	got, err := Length(blob)
	if err != nil {
		t.Fatalf("Length error: %v", err)
	}
	if got != 5 {
		t.Fatalf("Length = %v, want 5", got)
	}
}

func TestPerimeter(t *testing.T) {
	blob := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	got, err := Perimeter(blob)
	if err != nil {
		t.Fatalf("Perimeter error: %v", err)
	}
	if got != 16 {
		t.Fatalf("Perimeter = %v, want 16", got)
	}
}

func TestBboxFields(t *testing.T) {
	blob := mustText(t, "LINESTRING (0 0,3 4,-1 2)")
	cases := []struct {
		name string
		fn   func([]byte) (float64, error)
		want float64
	}{
		{"XMin", XMin, -1},
		{"XMax", XMax, 3},
		{"YMin", YMin, 0},
		{"YMax", YMax, 4},
	}
	for _, c := range cases {
		got, err := c.fn(blob)
		if err != nil {
			t.Fatalf("%s error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDistance(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "POINT (3 4)")
	got, err := Distance(a, b)
	if err != nil {
		t.Fatalf("Distance error: %v", err)
	}
	if got != 5 {
		t.Fatalf("Distance = %v, want 5", got)
	}
}

func TestDistanceToPolygonBoundary(t *testing.T) {
	// Distance is measured against the polygon's boundary segments, so an
	// interior point's distance is its distance to the nearest edge, not 0.
	a := mustText(t, "POINT (1 1)")
	b := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	got, err := Distance(a, b)
	if err != nil {
		t.Fatalf("Distance error: %v", err)
	}
	if got != 1 {
		t.Fatalf("Distance = %v, want 1", got)
	}
}

func TestClosestPoint(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "LINESTRING (2 0,2 10)")
	blob, _, err := ClosestPoint(b, a)
	if err != nil {
		t.Fatalf("ClosestPoint error: %v", err)
	}
	got, err := AsText(blob)
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "POINT (2 0)" {
		t.Fatalf("ClosestPoint AsText = %q", got)
	}
}

func TestHausdorffDistance(t *testing.T) {
	a := mustText(t, "LINESTRING (0 0,1 0)")
	b := mustText(t, "LINESTRING (0 1,1 1)")
	got, err := HausdorffDistance(a, b)
	if err != nil {
		t.Fatalf("HausdorffDistance error: %v", err)
	}
	if got != 1 {
		t.Fatalf("HausdorffDistance = %v, want 1", got)
	}
}

func TestCentroidOfPolygon(t *testing.T) {
	blob := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	out, _, err := Centroid(blob)
	if err != nil {
		t.Fatalf("Centroid error: %v", err)
	}
	got, err := AsText(out)
	if err != nil {
		t.Fatalf("AsText error: %v", err)
	}
	if got != "POINT (2 2)" {
		t.Fatalf("Centroid AsText = %q, want POINT (2 2)", got)
	}
}

func TestPointOnSurfaceIsInterior(t *testing.T) {
	blob := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	out, _, err := PointOnSurface(blob)
	if err != nil {
		t.Fatalf("PointOnSurface error: %v", err)
	}
	inside, err := geometryContainsPointBlob(t, blob, out)
	if err != nil {
		t.Fatalf("contains check error: %v", err)
	}
	if !inside {
		t.Fatalf("PointOnSurface result not inside source polygon")
	}
}

// geometryContainsPointBlob is a small test-local helper bridging Contains,
// avoiding a direct dependency on predicates_test.go's fixtures.
func geometryContainsPointBlob(t *testing.T, polyBlob, pointBlob []byte) (bool, error) {
	t.Helper()
	return Contains(polyBlob, pointBlob)
}

func TestDistanceRejectsMismatchedSRID(t *testing.T) {
	s1, s2 := int32(4326), int32(3857)
	a, err := Point(0, 0, &s1)
	if err != nil {
		t.Fatalf("Point error: %v", err)
	}
	b, err := Point(1, 1, &s2)
	if err != nil {
		t.Fatalf("Point error: %v", err)
	}
	if _, err := Distance(a, b); err == nil {
		t.Fatalf("expected SRID mismatch error")
	}
}

func TestLengthEmptyIsZero(t *testing.T) {
	empty := mustText(t, "LINESTRING EMPTY")
	got, err := Length(empty)
	if err != nil {
		t.Fatalf("Length error: %v", err)
	}
	if got != 0 {
		t.Fatalf("Length of empty linestring = %v, want 0", got)
	}
}
