package geojson

import (
	"encoding/json"
	"testing"

	"github.com/geolite-go/geolite/geom"
)

func TestEncodePoint(t *testing.T) {
	b, err := Encode(geom.Point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got["type"] != "Point" {
		t.Fatalf("type = %v, want Point", got["type"])
	}
	coords, ok := got["coordinates"].([]any)
	if !ok || len(coords) != 2 || coords[0].(float64) != 1 || coords[1].(float64) != 2 {
		t.Fatalf("coordinates = %v", got["coordinates"])
	}
}

func TestEncodeEmptyPoint(t *testing.T) {
	b, err := Encode(geom.EmptyPoint())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	coords, ok := got["coordinates"].([]any)
	if !ok || len(coords) != 0 {
		t.Fatalf("expected empty coordinates array, got %v", got["coordinates"])
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []geom.Geometry{
		geom.Point{X: 1, Y: 2},
		geom.LineString{Points: []geom.Point{{0, 0}, {1, 1}, {2, 4}}},
		geom.Polygon{Rings: [][]geom.Point{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}},
		geom.MultiPoint{Points: []geom.Point{{1, 1}, {2, 2}}},
		geom.MultiLineString{Lines: []geom.LineString{
			{Points: []geom.Point{{0, 0}, {1, 1}}},
			{Points: []geom.Point{{2, 2}, {3, 3}}},
		}},
		geom.MultiPolygon{Polygons: []geom.Polygon{
			{Rings: [][]geom.Point{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
		}},
		geom.GeometryCollection{Geometries: []geom.Geometry{
			geom.Point{X: 1, Y: 1},
			geom.LineString{Points: []geom.Point{{0, 0}, {1, 1}}},
		}},
	}
	for _, g := range cases {
		b, err := Encode(g)
		if err != nil {
			t.Fatalf("Encode(%T) error: %v", g, err)
		}
		got, err := Parse(b)
		if err != nil {
			t.Fatalf("Parse(%T) error: %v", g, err)
		}
		if got.TypeCode() != g.TypeCode() {
			t.Fatalf("round-trip type mismatch for %T: got %d want %d", g, got.TypeCode(), g.TypeCode())
		}
	}
}

func TestParseMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"Bogus","coordinates":[1,2]}`),
		[]byte(`{"type":"Point","coordinates":[1]}`),
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%s) expected error, got nil", c)
		}
	}
}

func TestParseGeometryCollection(t *testing.T) {
	data := []byte(`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,1]},{"type":"LineString","coordinates":[[0,0],[1,1]]}]}`)
	g, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	gc, ok := g.(geom.GeometryCollection)
	if !ok || len(gc.Geometries) != 2 {
		t.Fatalf("expected 2-member GeometryCollection, got %+v", g)
	}
}
