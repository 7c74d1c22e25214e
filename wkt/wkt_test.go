package wkt

import (
	"testing"

	"github.com/geolite-go/geolite/geom"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		g    geom.Geometry
		want string
	}{
		{geom.Point{X: 1, Y: 2}, "POINT (1 2)"},
		{geom.EmptyPoint(), "POINT EMPTY"},
		{geom.LineString{Points: []geom.Point{{0, 0}, {1, 1}}}, "LINESTRING (0 0,1 1)"},
		{geom.LineString{}, "LINESTRING EMPTY"},
		{geom.Polygon{Rings: [][]geom.Point{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, "POLYGON ((0 0,1 0,1 1,0 0))"},
	}
	for _, c := range cases {
		if got := Encode(c.g); got != c.want {
			t.Errorf("Encode(%T) = %q, want %q", c.g, got, c.want)
		}
	}
}

func TestEncodeEWKT(t *testing.T) {
	srid := int32(4326)
	got := EncodeEWKT(geom.Point{X: 1, Y: 2}, &srid)
	want := "SRID=4326;POINT (1 2)"
	if got != want {
		t.Fatalf("EncodeEWKT = %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"POINT (1 2)",
		"POINT EMPTY",
		"LINESTRING (0 0,1 1,2 4)",
		"POLYGON ((0 0,4 0,4 4,0 4,0 0))",
		"MULTIPOINT ((1 1),(2 2))",
		"GEOMETRYCOLLECTION (POINT (1 1),LINESTRING (0 0,1 1))",
	}
	for _, in := range inputs {
		g, srid, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if srid != nil {
			t.Fatalf("Parse(%q) unexpected SRID", in)
		}
		out := Encode(g)
		if out != in {
			t.Errorf("round-trip mismatch: got %q, want %q", out, in)
		}
	}
}

func TestParseSRIDPrefix(t *testing.T) {
	g, srid, err := Parse("SRID=3857;POINT (1 2)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if srid == nil || *srid != 3857 {
		t.Fatalf("expected SRID 3857, got %v", srid)
	}
	if _, ok := g.(geom.Point); !ok {
		t.Fatalf("expected Point, got %T", g)
	}
}

func TestParseInvalid(t *testing.T) {
	_, _, err := Parse("NOTAGEOMETRY (1 2)")
	if err == nil {
		t.Fatalf("expected error for unknown geometry keyword")
	}
}
