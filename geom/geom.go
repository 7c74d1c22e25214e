// Package geom implements the seven OGC straight-line geometry variants
// used by every compute path in geolite: Point, LineString, Polygon,
// MultiPoint, MultiLineString, MultiPolygon and GeometryCollection, over
// 64-bit floating XY coordinates. Z and M dimensions are never represented
// here — the EWKB codec preserves them on raw byte pass-through instead of
// decoding them into this model, per the engine's XY-only compute contract.
package geom

import "math"

// Geometry is the closed sum type every algebra operation dispatches over.
// The unexported marker method keeps the set closed to this package: new
// variants are added here, not by external implementers.
type Geometry interface {
	geometry()
	// TypeCode returns the OGC 1..7 wire type code for this variant.
	TypeCode() uint32
}

// OGC type codes, shared with the ewkb package's header flags.
const (
	TypePoint              uint32 = 1
	TypeLineString         uint32 = 2
	TypePolygon            uint32 = 3
	TypeMultiPoint         uint32 = 4
	TypeMultiLineString    uint32 = 5
	TypeMultiPolygon       uint32 = 6
	TypeGeometryCollection uint32 = 7
)

// Point is a single XY coordinate. The empty Point is represented as
// Point{NaN, NaN}, bit-exact with the PostGIS convention — never compare it
// with ==; use IsEmptyPoint.
type Point struct{ X, Y float64 }

// LineString is an ordered sequence of points. The empty LineString has a
// nil or zero-length Points slice.
type LineString struct{ Points []Point }

// Polygon is a shell ring followed by zero or more hole rings, each a
// closed ring of points (first point repeated as last). The empty Polygon
// has a zero-length (or absent) shell; holes are ignored when the shell is
// empty.
type Polygon struct{ Rings [][]Point }

// MultiPoint is an unordered collection of points.
type MultiPoint struct{ Points []Point }

// MultiLineString is a collection of line strings.
type MultiLineString struct{ Lines []LineString }

// MultiPolygon is a collection of polygons.
type MultiPolygon struct{ Polygons []Polygon }

// GeometryCollection is a heterogeneous collection of any Geometry,
// including nested collections.
type GeometryCollection struct{ Geometries []Geometry }

// Rect is an axis-aligned bounding rectangle, produced internally by
// Envelope, MakeEnvelope and TileEnvelope. It is always emitted on the wire
// as a five-point closed Polygon ring; it is never read back off the wire
// as a Rect.
type Rect struct{ MinX, MinY, MaxX, MaxY float64 }

// Triangle is a three-vertex areal value; no geolite function constructs
// one. Like Rect, it is always emitted on the wire as a Polygon.
type Triangle struct{ A, B, C Point }

func (Point) geometry()              {}
func (LineString) geometry()          {}
func (Polygon) geometry()             {}
func (MultiPoint) geometry()          {}
func (MultiLineString) geometry()     {}
func (MultiPolygon) geometry()        {}
func (GeometryCollection) geometry()  {}
func (Rect) geometry()                {}
func (Triangle) geometry()            {}

func (Point) TypeCode() uint32              { return TypePoint }
func (LineString) TypeCode() uint32         { return TypeLineString }
func (Polygon) TypeCode() uint32            { return TypePolygon }
func (MultiPoint) TypeCode() uint32         { return TypeMultiPoint }
func (MultiLineString) TypeCode() uint32    { return TypeMultiLineString }
func (MultiPolygon) TypeCode() uint32       { return TypeMultiPolygon }
func (GeometryCollection) TypeCode() uint32 { return TypeGeometryCollection }
func (Rect) TypeCode() uint32               { return TypePolygon }
func (Triangle) TypeCode() uint32           { return TypePolygon }

// EmptyPoint constructs the canonical empty Point: both coordinates NaN.
func EmptyPoint() Point { return Point{X: math.NaN(), Y: math.NaN()} }

// IsEmptyPoint reports whether p is the canonical empty point. NaN must
// never be compared with ==; both coordinates must be independently tested.
func IsEmptyPoint(p Point) bool { return math.IsNaN(p.X) && math.IsNaN(p.Y) }

// TypeName returns the PostGIS-convention name for a type code, e.g.
// "ST_Point". Unknown codes return "ST_Unknown".
func TypeName(typeCode uint32) string {
	switch typeCode {
	case TypePoint:
		return "ST_Point"
	case TypeLineString:
		return "ST_LineString"
	case TypePolygon:
		return "ST_Polygon"
	case TypeMultiPoint:
		return "ST_MultiPoint"
	case TypeMultiLineString:
		return "ST_MultiLineString"
	case TypeMultiPolygon:
		return "ST_MultiPolygon"
	case TypeGeometryCollection:
		return "ST_GeometryCollection"
	default:
		return "ST_Unknown"
	}
}

// AsPolygon converts a Rect to its five-point closed-ring Polygon form, the
// shape it is always given on the wire.
func (r Rect) AsPolygon() Polygon {
	ring := []Point{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MaxX, r.MaxY}, {r.MinX, r.MaxY}, {r.MinX, r.MinY},
	}
	return Polygon{Rings: [][]Point{ring}}
}

// AsPolygon converts a Triangle to its four-point closed-ring Polygon form.
func (t Triangle) AsPolygon() Polygon {
	return Polygon{Rings: [][]Point{{t.A, t.B, t.C, t.A}}}
}

// Bbox is an axis-aligned bounding box over a non-empty point set.
type Bbox struct{ MinX, MinY, MaxX, MaxY float64 }

// Envelope computes the bounding box of g. The caller must ensure g is
// non-empty; callers that accept empty inputs should check IsEmpty first.
func Envelope(g Geometry) Bbox {
	b := Bbox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	visitPoints(g, func(p Point) {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	})
	return b
}

// visitPoints calls fn for every coordinate in g, recursing through
// collections. Empty points (NaN, NaN) are skipped since they contribute no
// spatial extent.
func visitPoints(g Geometry, fn func(Point)) {
	switch v := g.(type) {
	case Point:
		if !IsEmptyPoint(v) {
			fn(v)
		}
	case LineString:
		for _, p := range v.Points {
			fn(p)
		}
	case Polygon:
		for _, ring := range v.Rings {
			for _, p := range ring {
				fn(p)
			}
		}
	case MultiPoint:
		for _, p := range v.Points {
			if !IsEmptyPoint(p) {
				fn(p)
			}
		}
	case MultiLineString:
		for _, ls := range v.Lines {
			for _, p := range ls.Points {
				fn(p)
			}
		}
	case MultiPolygon:
		for _, poly := range v.Polygons {
			for _, ring := range poly.Rings {
				for _, p := range ring {
					fn(p)
				}
			}
		}
	case GeometryCollection:
		for _, sub := range v.Geometries {
			visitPoints(sub, fn)
		}
	case Rect:
		visitPoints(v.AsPolygon(), fn)
	case Triangle:
		visitPoints(v.AsPolygon(), fn)
	}
}

// Dimension returns the OGC topological dimension of g: 0 for points, 1 for
// lines, 2 for areas, and for a collection the maximum dimension among its
// members (0 for an empty collection).
func Dimension(g Geometry) int {
	switch v := g.(type) {
	case Point, MultiPoint:
		return 0
	case LineString, MultiLineString:
		return 1
	case Polygon, MultiPolygon, Rect, Triangle:
		return 2
	case GeometryCollection:
		max := 0
		for _, sub := range v.Geometries {
			if d := Dimension(sub); d > max {
				max = d
			}
		}
		return max
	default:
		return 0
	}
}
