// Package emptiness implements the single "is this geometry empty?"
// predicate shared by every higher layer: measurement, set operations,
// predicates and DE-9IM all import IsEmpty rather than re-deriving it.
package emptiness

import "github.com/geolite-go/geolite/geom"

// IsEmpty reports whether g's point set is empty. A collection is empty if
// it has no members or every member is empty, recursively.
func IsEmpty(g geom.Geometry) bool {
	switch v := g.(type) {
	case geom.Point:
		return geom.IsEmptyPoint(v)
	case geom.LineString:
		return len(v.Points) == 0
	case geom.Polygon:
		return len(v.Rings) == 0 || len(v.Rings[0]) == 0
	case geom.MultiPoint:
		return len(v.Points) == 0 || allEmptyPoints(v.Points)
	case geom.MultiLineString:
		return len(v.Lines) == 0 || allEmptyLineStrings(v.Lines)
	case geom.MultiPolygon:
		return len(v.Polygons) == 0 || allEmptyPolygons(v.Polygons)
	case geom.GeometryCollection:
		if len(v.Geometries) == 0 {
			return true
		}
		for _, sub := range v.Geometries {
			if !IsEmpty(sub) {
				return false
			}
		}
		return true
	case geom.Rect, geom.Triangle:
		return false
	default:
		return false
	}
}

func allEmptyPoints(pts []geom.Point) bool {
	for _, p := range pts {
		if !geom.IsEmptyPoint(p) {
			return false
		}
	}
	return true
}

func allEmptyLineStrings(lines []geom.LineString) bool {
	for _, ls := range lines {
		if len(ls.Points) != 0 {
			return false
		}
	}
	return true
}

func allEmptyPolygons(polys []geom.Polygon) bool {
	for _, p := range polys {
		if len(p.Rings) != 0 && len(p.Rings[0]) != 0 {
			return false
		}
	}
	return true
}

// NumGeometries returns the element count used by NumGeometries/IsEmpty
// invariant 5: non-collection geometries count as 1.
func NumGeometries(g geom.Geometry) int {
	switch v := g.(type) {
	case geom.MultiPoint:
		return len(v.Points)
	case geom.MultiLineString:
		return len(v.Lines)
	case geom.MultiPolygon:
		return len(v.Polygons)
	case geom.GeometryCollection:
		return len(v.Geometries)
	default:
		return 1
	}
}

// NumPoints returns the recursive vertex count used by invariant 6.
func NumPoints(g geom.Geometry) int {
	n := 0
	switch v := g.(type) {
	case geom.Point:
		if !geom.IsEmptyPoint(v) {
			n = 1
		}
	case geom.LineString:
		n = len(v.Points)
	case geom.Polygon:
		for _, r := range v.Rings {
			n += len(r)
		}
	case geom.MultiPoint:
		for _, p := range v.Points {
			if !geom.IsEmptyPoint(p) {
				n++
			}
		}
	case geom.MultiLineString:
		for _, ls := range v.Lines {
			n += len(ls.Points)
		}
	case geom.MultiPolygon:
		for _, p := range v.Polygons {
			for _, r := range p.Rings {
				n += len(r)
			}
		}
	case geom.GeometryCollection:
		for _, sub := range v.Geometries {
			n += NumPoints(sub)
		}
	case geom.Rect:
		n = NumPoints(v.AsPolygon())
	case geom.Triangle:
		n = NumPoints(v.AsPolygon())
	}
	return n
}
