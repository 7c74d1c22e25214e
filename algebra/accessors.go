// Package algebra implements the geometry algebra: accessors, constructors,
// measurement, set operations, predicates and DE-9IM, the largest
// component of geolite (spec.md §4.3). Every exported function here
// consumes and/or produces EWKB blobs or scalars directly, so the SQL
// binding layer (package sqlbinding) is a thin, mechanical NULL/type/panic
// adapter on top of it.
package algebra

import (
	"math"

	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// SRID returns the geometry's SRID, or 0 when the header carries none.
func SRID(blob []byte) (int32, error) {
	h, err := ewkb.ParseHeader(blob)
	if err != nil {
		return 0, err
	}
	return h.SRID, nil
}

// SetSRID rewrites blob's header to carry srid, revalidating the payload.
func SetSRID(blob []byte, srid int32) ([]byte, error) {
	return ewkb.SetSRID(blob, srid)
}

// GeometryType returns the PostGIS-convention type name, using the header
// only.
func GeometryType(blob []byte) (string, error) {
	h, err := ewkb.ParseHeader(blob)
	if err != nil {
		return "", err
	}
	return ewkb.GeomTypeName(h.GeomType), nil
}

// NDims returns the coordinate dimension: 2 for XY, 3 for XYZ or XYM, 4 for
// XYZM.
func NDims(blob []byte) (int, error) {
	h, err := ewkb.ParseHeader(blob)
	if err != nil {
		return 0, err
	}
	n := 2
	if h.HasZ {
		n++
	}
	if h.HasM {
		n++
	}
	return n, nil
}

// CoordDim is an alias for NDims.
func CoordDim(blob []byte) (int, error) { return NDims(blob) }

// Zmflag returns 0 (none), 1 (M), 2 (Z) or 3 (ZM).
func Zmflag(blob []byte) (int, error) {
	h, err := ewkb.ParseHeader(blob)
	if err != nil {
		return 0, err
	}
	flag := 0
	if h.HasM {
		flag |= 1
	}
	if h.HasZ {
		flag |= 2
	}
	return flag, nil
}

// IsEmpty reports whether blob's geometry is empty. Unlike most algebra
// functions it does not reject Z/M, since emptiness only inspects
// structure (ring/point counts), not coordinate values.
func IsEmpty(blob []byte) (bool, error) {
	g, _, err := ewkb.ParseAny(blob)
	if err != nil {
		return false, err
	}
	return emptiness.IsEmpty(g), nil
}

// MemSize returns the byte length of blob.
func MemSize(blob []byte) int64 { return int64(len(blob)) }

// X returns a Point's X coordinate, or NULL (ok=false) when the Point is
// empty.
func X(blob []byte) (v float64, ok bool, err error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, false, err
	}
	p, isPoint := g.(geom.Point)
	if !isPoint {
		return 0, false, &geoerr.WrongType{Expected: "Point"}
	}
	if geom.IsEmptyPoint(p) {
		return 0, false, nil
	}
	return p.X, true, nil
}

// Y returns a Point's Y coordinate, or NULL (ok=false) when the Point is
// empty.
func Y(blob []byte) (v float64, ok bool, err error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, false, err
	}
	p, isPoint := g.(geom.Point)
	if !isPoint {
		return 0, false, &geoerr.WrongType{Expected: "Point"}
	}
	if geom.IsEmptyPoint(p) {
		return 0, false, nil
	}
	return p.Y, true, nil
}

// NumPoints returns the vertex count of a LineString.
func NumPoints(blob []byte) (int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	ls, ok := g.(geom.LineString)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "LineString"}
	}
	return int32(len(ls.Points)), nil
}

// NPoints returns the recursive point count of any geometry.
func NPoints(blob []byte) (int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return int32(emptiness.NumPoints(g)), nil
}

// NumGeometries returns a collection's member count; 1 for non-collections.
func NumGeometries(blob []byte) (int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return int32(emptiness.NumGeometries(g)), nil
}

func asPolygon(g geom.Geometry) (geom.Polygon, bool) {
	switch v := g.(type) {
	case geom.Polygon:
		return v, true
	case geom.Rect:
		return v.AsPolygon(), true
	case geom.Triangle:
		return v.AsPolygon(), true
	default:
		return geom.Polygon{}, false
	}
}

// NumInteriorRings returns a Polygon's interior ring count.
func NumInteriorRings(blob []byte) (int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	p, ok := asPolygon(g)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Polygon"}
	}
	if len(p.Rings) == 0 {
		return 0, nil
	}
	return int32(len(p.Rings) - 1), nil
}

// NumRings is an alias surface for NumInteriorRings's sibling catalog
// entry ST_NumRings, which PostGIS defines identically to
// NumInteriorRings for a simple Polygon.
func NumRings(blob []byte) (int32, error) { return NumInteriorRings(blob) }

// PointN returns the 1-based i-th point of a LineString.
func PointN(blob []byte, i int32) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	ls, ok := g.(geom.LineString)
	if !ok {
		return nil, nil, &geoerr.WrongType{Expected: "LineString"}
	}
	if i < 1 || int(i) > len(ls.Points) {
		return nil, nil, &geoerr.OutOfBounds{Index: int(i), Length: len(ls.Points)}
	}
	return ewkb.Emit(ls.Points[i-1], srid), srid, nil
}

// StartPoint returns a LineString's first point.
func StartPoint(blob []byte) ([]byte, *int32, error) { return PointN(blob, 1) }

// EndPoint returns a LineString's last point.
func EndPoint(blob []byte) ([]byte, *int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	ls, ok := g.(geom.LineString)
	if !ok {
		return nil, nil, &geoerr.WrongType{Expected: "LineString"}
	}
	return PointN(blob, int32(len(ls.Points)))
}

// ExteriorRing returns a Polygon's shell as a LineString.
func ExteriorRing(blob []byte) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	p, ok := asPolygon(g)
	if !ok {
		return nil, nil, &geoerr.WrongType{Expected: "Polygon"}
	}
	var shell []geom.Point
	if len(p.Rings) > 0 {
		shell = p.Rings[0]
	}
	return ewkb.Emit(geom.LineString{Points: shell}, srid), srid, nil
}

// InteriorRingN returns the 1-based i-th interior ring of a Polygon.
func InteriorRingN(blob []byte, i int32) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	p, ok := asPolygon(g)
	if !ok {
		return nil, nil, &geoerr.WrongType{Expected: "Polygon"}
	}
	nInterior := 0
	if len(p.Rings) > 0 {
		nInterior = len(p.Rings) - 1
	}
	if i < 1 || int(i) > nInterior {
		return nil, nil, &geoerr.OutOfBounds{Index: int(i), Length: nInterior}
	}
	return ewkb.Emit(geom.LineString{Points: p.Rings[i]}, srid), srid, nil
}

// GeometryN returns the 1-based i-th member of a collection. A
// non-collection at index 1 returns the geometry itself; any other index
// fails.
func GeometryN(blob []byte, i int32) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	members, isCollection := collectionMembers(g)
	if !isCollection {
		if i == 1 {
			return blob, srid, nil
		}
		return nil, nil, &geoerr.OutOfBounds{Index: int(i), Length: 1}
	}
	if i < 1 || int(i) > len(members) {
		return nil, nil, &geoerr.OutOfBounds{Index: int(i), Length: len(members)}
	}
	return ewkb.Emit(members[i-1], srid), srid, nil
}

func collectionMembers(g geom.Geometry) ([]geom.Geometry, bool) {
	switch v := g.(type) {
	case geom.MultiPoint:
		out := make([]geom.Geometry, len(v.Points))
		for i, p := range v.Points {
			out[i] = p
		}
		return out, true
	case geom.MultiLineString:
		out := make([]geom.Geometry, len(v.Lines))
		for i, l := range v.Lines {
			out[i] = l
		}
		return out, true
	case geom.MultiPolygon:
		out := make([]geom.Geometry, len(v.Polygons))
		for i, p := range v.Polygons {
			out[i] = p
		}
		return out, true
	case geom.GeometryCollection:
		return v.Geometries, true
	default:
		return nil, false
	}
}

// Dimension returns the OGC topological dimension (0/1/2; a collection is
// the max over its members).
func Dimension(blob []byte) (int32, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return int32(geom.Dimension(g)), nil
}

// Envelope returns the bounding rectangle of blob, emitted as Polygon.
func Envelope(blob []byte) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	if emptiness.IsEmpty(g) {
		return ewkb.Emit(geom.Polygon{}, srid), srid, nil
	}
	bb := geom.Envelope(g)
	rect := geom.Rect{MinX: bb.MinX, MinY: bb.MinY, MaxX: bb.MaxX, MaxY: bb.MaxY}
	return ewkb.Emit(rect, srid), srid, nil
}

// IsValid reports whether blob decodes to a structurally valid geometry:
// rings closed and with at least 4 points, LineStrings with at least 2
// points (or 0, for empty), and finite coordinates throughout.
func IsValid(blob []byte) (bool, error) {
	reason, err := IsValidReason(blob)
	if err != nil {
		return false, err
	}
	return reason == "Valid Geometry", nil
}

// IsValidReason returns "Valid Geometry" on success, or a human-readable
// complaint about the first structural problem found.
func IsValidReason(blob []byte) (string, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return "", err
	}
	if reason := invalidReason(g); reason != "" {
		return reason, nil
	}
	return "Valid Geometry", nil
}

func invalidReason(g geom.Geometry) string {
	switch v := g.(type) {
	case geom.Point:
		if !finitePoint(v) && !geom.IsEmptyPoint(v) {
			return "Non-finite coordinate"
		}
	case geom.LineString:
		if len(v.Points) == 1 {
			return "LineString must have 0 or >= 2 points"
		}
		for _, p := range v.Points {
			if !finitePoint(p) {
				return "Non-finite coordinate"
			}
		}
	case geom.Polygon:
		for _, r := range v.Rings {
			if len(r) == 0 {
				continue
			}
			if len(r) < 4 {
				return "Ring must have 0 or >= 4 points"
			}
			if r[0] != r[len(r)-1] {
				return "Ring is not closed"
			}
			for _, p := range r {
				if !finitePoint(p) {
					return "Non-finite coordinate"
				}
			}
		}
	case geom.MultiPoint:
		for _, p := range v.Points {
			if m := invalidReason(p); m != "" {
				return m
			}
		}
	case geom.MultiLineString:
		for _, l := range v.Lines {
			if m := invalidReason(l); m != "" {
				return m
			}
		}
	case geom.MultiPolygon:
		for _, p := range v.Polygons {
			if m := invalidReason(p); m != "" {
				return m
			}
		}
	case geom.GeometryCollection:
		for _, sub := range v.Geometries {
			if m := invalidReason(sub); m != "" {
				return m
			}
		}
	}
	return ""
}

func finitePoint(p geom.Point) bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}
