// Package geojson implements RFC 7946 geometry encoding/decoding for the
// seven OGC variants, including the PostGIS empty-Point extension
// ("coordinates":[]). Grounded on the teacher driver's
// driver/spatial/geojson.go reflection-based coordinate walk, generalized
// from its per-dimension typed geometries to geolite's single XY-only
// geom.Geometry value — geolite needs no reflection since it dispatches on
// a closed interface via a type switch instead of sixteen concrete types.
package geojson

import (
	"encoding/json"

	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  json.RawMessage `json:"geometries,omitempty"`
}

func coordOf(p geom.Point) []float64 { return []float64{p.X, p.Y} }

func coordsFor(g geom.Geometry) any {
	switch v := g.(type) {
	case geom.Point:
		if geom.IsEmptyPoint(v) {
			return []float64{}
		}
		return coordOf(v)
	case geom.LineString:
		return ptsOf(v.Points)
	case geom.Polygon:
		return ringsOf(v.Rings)
	case geom.Rect:
		return ringsOf(v.AsPolygon().Rings)
	case geom.Triangle:
		return ringsOf(v.AsPolygon().Rings)
	case geom.MultiPoint:
		return ptsOf(v.Points)
	case geom.MultiLineString:
		out := make([][][]float64, len(v.Lines))
		for i, ls := range v.Lines {
			out[i] = ptsOf(ls.Points)
		}
		return out
	case geom.MultiPolygon:
		out := make([][][][]float64, len(v.Polygons))
		for i, p := range v.Polygons {
			out[i] = ringsOf(p.Rings)
		}
		return out
	default:
		return nil
	}
}

func ptsOf(pts []geom.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = coordOf(p)
	}
	return out
}

func ringsOf(rings [][]geom.Point) [][][]float64 {
	out := make([][][]float64, len(rings))
	for i, r := range rings {
		out[i] = ptsOf(r)
	}
	return out
}

func typeName(g geom.Geometry) string {
	switch g.(type) {
	case geom.Point:
		return "Point"
	case geom.LineString:
		return "LineString"
	case geom.Polygon, geom.Rect, geom.Triangle:
		return "Polygon"
	case geom.MultiPoint:
		return "MultiPoint"
	case geom.MultiLineString:
		return "MultiLineString"
	case geom.MultiPolygon:
		return "MultiPolygon"
	case geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}

// Encode renders g as RFC 7946 GeoJSON.
func Encode(g geom.Geometry) ([]byte, error) {
	if gc, ok := g.(geom.GeometryCollection); ok {
		members := make([]json.RawMessage, len(gc.Geometries))
		for i, sub := range gc.Geometries {
			b, err := Encode(sub)
			if err != nil {
				return nil, err
			}
			members[i] = b
		}
		return json.Marshal(struct {
			Type       string            `json:"type"`
			Geometries []json.RawMessage `json:"geometries"`
		}{Type: "GeometryCollection", Geometries: members})
	}
	return json.Marshal(struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}{Type: typeName(g), Coordinates: coordsFor(g)})
}

// Parse reads RFC 7946 GeoJSON into a geometry. GeomFromGeoJSON assigns
// SRID 4326 (PostGIS convention); this function itself only returns the
// geometry — the SRID is applied by the algebra's GeomFromGeoJSON wrapper.
func Parse(data []byte) (geom.Geometry, error) {
	var raw rawGeometry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, geoerr.Invalidf("malformed GeoJSON: %v", err)
	}
	switch raw.Type {
	case "Point":
		var c []float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON Point: %v", err)
		}
		if len(c) == 0 {
			return geom.EmptyPoint(), nil
		}
		if len(c) < 2 {
			return nil, geoerr.Invalidf("GeoJSON Point requires 2 coordinates")
		}
		return geom.Point{X: c[0], Y: c[1]}, nil
	case "LineString":
		var c [][]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON LineString: %v", err)
		}
		return geom.LineString{Points: ptsFrom(c)}, nil
	case "Polygon":
		var c [][][]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON Polygon: %v", err)
		}
		return geom.Polygon{Rings: ringsFrom(c)}, nil
	case "MultiPoint":
		var c [][]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON MultiPoint: %v", err)
		}
		return geom.MultiPoint{Points: ptsFrom(c)}, nil
	case "MultiLineString":
		var c [][][]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON MultiLineString: %v", err)
		}
		lines := make([]geom.LineString, len(c))
		for i, l := range c {
			lines[i] = geom.LineString{Points: ptsFrom(l)}
		}
		return geom.MultiLineString{Lines: lines}, nil
	case "MultiPolygon":
		var c [][][][]float64
		if err := json.Unmarshal(raw.Coordinates, &c); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON MultiPolygon: %v", err)
		}
		polys := make([]geom.Polygon, len(c))
		for i, p := range c {
			polys[i] = geom.Polygon{Rings: ringsFrom(p)}
		}
		return geom.MultiPolygon{Polygons: polys}, nil
	case "GeometryCollection":
		var members []json.RawMessage
		if err := json.Unmarshal(raw.Geometries, &members); err != nil {
			return nil, geoerr.Invalidf("malformed GeoJSON GeometryCollection: %v", err)
		}
		geoms := make([]geom.Geometry, len(members))
		for i, m := range members {
			g, err := Parse(m)
			if err != nil {
				return nil, err
			}
			geoms[i] = g
		}
		return geom.GeometryCollection{Geometries: geoms}, nil
	default:
		return nil, geoerr.Invalidf("unrecognized GeoJSON type %q", raw.Type)
	}
}

func ptsFrom(c [][]float64) []geom.Point {
	pts := make([]geom.Point, len(c))
	for i, p := range c {
		if len(p) >= 2 {
			pts[i] = geom.Point{X: p[0], Y: p[1]}
		}
	}
	return pts
}

func ringsFrom(c [][][]float64) [][]geom.Point {
	rings := make([][]geom.Point, len(c))
	for i, r := range c {
		rings[i] = ptsFrom(r)
	}
	return rings
}
