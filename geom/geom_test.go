package geom

import (
	"math"
	"testing"
)

func TestEmptyPoint(t *testing.T) {
	p := EmptyPoint()
	if !IsEmptyPoint(p) {
		t.Fatalf("EmptyPoint() not reported empty")
	}
	if IsEmptyPoint(Point{X: 1, Y: 2}) {
		t.Fatalf("ordinary point reported empty")
	}
	if IsEmptyPoint(Point{X: math.NaN(), Y: 1}) {
		t.Fatalf("single-NaN point must not be empty")
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		code uint32
		want string
	}{
		{TypePoint, "ST_Point"},
		{TypePolygon, "ST_Polygon"},
		{99, "ST_Unknown"},
	}
	for _, c := range cases {
		if got := TypeName(c.code); got != c.want {
			t.Errorf("TypeName(%d) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestEnvelope(t *testing.T) {
	ls := LineString{Points: []Point{{0, 0}, {3, 4}, {-1, 2}}}
	bb := Envelope(ls)
	want := Bbox{MinX: -1, MinY: 0, MaxX: 3, MaxY: 4}
	if bb != want {
		t.Fatalf("Envelope = %+v, want %+v", bb, want)
	}
}

func TestDimension(t *testing.T) {
	cases := []struct {
		g    Geometry
		want int
	}{
		{Point{1, 1}, 0},
		{MultiPoint{Points: []Point{{1, 1}}}, 0},
		{LineString{Points: []Point{{0, 0}, {1, 1}}}, 1},
		{Polygon{Rings: [][]Point{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, 2},
		{GeometryCollection{Geometries: []Geometry{Point{0, 0}, Polygon{Rings: [][]Point{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}}}, 2},
	}
	for _, c := range cases {
		if got := Dimension(c.g); got != c.want {
			t.Errorf("Dimension(%T) = %d, want %d", c.g, got, c.want)
		}
	}
}

func TestRectAsPolygon(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	p := r.AsPolygon()
	if len(p.Rings) != 1 || len(p.Rings[0]) != 5 {
		t.Fatalf("Rect.AsPolygon() shape = %+v", p)
	}
	if p.Rings[0][0] != p.Rings[0][4] {
		t.Fatalf("Rect.AsPolygon() ring not closed: %+v", p.Rings[0])
	}
}
