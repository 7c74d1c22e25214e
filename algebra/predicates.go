package algebra

import (
	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// onSegment reports whether point q lies on segment p-r, given the three
// points are already known collinear.
func onSegment(p, q, r geom.Point) bool {
	return q.X <= max2(p.X, r.X) && q.X >= min2(p.X, r.X) &&
		q.Y <= max2(p.Y, r.Y) && q.Y >= min2(p.Y, r.Y)
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func orientation(p, q, r geom.Point) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case val > 0:
		return 1
	case val < 0:
		return 2
	default:
		return 0
	}
}

// segmentsIntersect reports whether segments p1-q1 and p2-q2 share any
// point, including collinear-overlap and touching-endpoint cases.
func segmentsIntersect(p1, q1, p2, q2 geom.Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == 0 && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(p2, q1, q2) {
		return true
	}
	return false
}

// pointInRing reports whether p lies strictly inside the ring (even-odd
// rule, ray casting) without regard to boundary touching.
func pointInRing(p geom.Point, ring []geom.Point) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xIntersect := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// pointOnRingBoundary reports whether p lies on any edge of ring.
func pointOnRingBoundary(p geom.Point, ring []geom.Point) bool {
	for i := 1; i < len(ring); i++ {
		if pointOnSegment(p, ring[i-1], ring[i]) {
			return true
		}
	}
	return false
}

func pointOnSegment(p, a, b geom.Point) bool {
	if orientation(a, b, p) != 0 {
		return false
	}
	return onSegment(a, p, b)
}

// pointInPolygon reports whether p is inside or on the boundary of poly.
func pointInPolygon(p geom.Point, poly geom.Polygon) (inside, onBoundary bool) {
	if len(poly.Rings) == 0 {
		return false, false
	}
	shell := poly.Rings[0]
	if pointOnRingBoundary(p, shell) {
		return true, true
	}
	if !pointInRing(p, shell) {
		return false, false
	}
	for _, hole := range poly.Rings[1:] {
		if pointOnRingBoundary(p, hole) {
			return true, true
		}
		if pointInRing(p, hole) {
			return false, false
		}
	}
	return true, false
}

func geometryContainsPoint(g geom.Geometry, p geom.Point) (inside, onBoundary bool) {
	switch v := g.(type) {
	case geom.Polygon:
		return pointInPolygon(p, v)
	case geom.Rect:
		return pointInPolygon(p, v.AsPolygon())
	case geom.Triangle:
		return pointInPolygon(p, v.AsPolygon())
	case geom.MultiPolygon:
		for _, poly := range v.Polygons {
			if in, on := pointInPolygon(p, poly); in {
				return true, on
			}
		}
		return false, false
	case geom.LineString:
		for i := 1; i < len(v.Points); i++ {
			if pointOnSegment(p, v.Points[i-1], v.Points[i]) {
				return true, true
			}
		}
		return false, false
	case geom.MultiLineString:
		for _, ls := range v.Lines {
			if in, on := geometryContainsPoint(ls, p); in {
				return true, on
			}
		}
		return false, false
	case geom.Point:
		// A Point's DE-9IM boundary is empty, so a coordinate match is
		// always interior, never boundary.
		if v.X == p.X && v.Y == p.Y {
			return true, false
		}
		return false, false
	case geom.MultiPoint:
		for _, q := range v.Points {
			if q.X == p.X && q.Y == p.Y {
				return true, false
			}
		}
		return false, false
	case geom.GeometryCollection:
		for _, sub := range v.Geometries {
			if in, on := geometryContainsPoint(sub, p); in {
				return true, on
			}
		}
		return false, false
	default:
		return false, false
	}
}

func bboxesOverlap(a, b geom.Bbox) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX && a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

// intersectsGeom reports whether two non-empty geometries share any point.
func intersectsGeom(ga, gb geom.Geometry) bool {
	bba, bbb := geom.Envelope(ga), geom.Envelope(gb)
	if !bboxesOverlap(bba, bbb) {
		return false
	}
	for _, p := range allPoints(ga) {
		if in, _ := geometryContainsPoint(gb, p); in {
			return true
		}
	}
	for _, p := range allPoints(gb) {
		if in, _ := geometryContainsPoint(ga, p); in {
			return true
		}
	}
	aSegs, bSegs := allSegments(ga), allSegments(gb)
	for _, s1 := range aSegs {
		for _, s2 := range bSegs {
			if segmentsIntersect(s1[0], s1[1], s2[0], s2[1]) {
				return true
			}
		}
	}
	return false
}

func parsePredicatePair(a, b []byte) (geom.Geometry, geom.Geometry, error) {
	ga, gb, _, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, nil, err
	}
	return ga, gb, nil
}

// Intersects reports whether a and b share any point. Two empty geometries
// never intersect.
func Intersects(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	return intersectsGeom(ga, gb), nil
}

// Disjoint is the negation of Intersects.
func Disjoint(a, b []byte) (bool, error) {
	v, err := Intersects(a, b)
	if err != nil {
		return false, err
	}
	return !v, nil
}

// containsGeom reports whether every point of gb lies within ga (interior
// or boundary), used by Contains/Within/Covers/CoveredBy.
func containsGeom(ga, gb geom.Geometry) bool {
	for _, p := range allPoints(gb) {
		if in, _ := geometryContainsPoint(ga, p); !in {
			return false
		}
	}
	for _, s := range allSegments(gb) {
		mid := geom.Point{X: (s[0].X + s[1].X) / 2, Y: (s[0].Y + s[1].Y) / 2}
		if in, _ := geometryContainsPoint(ga, mid); !in {
			return false
		}
	}
	return true
}

// Contains reports whether a contains b (every point of b lies in a, with
// at least one interior point of b not on a's boundary for proper
// containment per DE-9IM; this planar approximation uses the simpler
// "all points contained" rule used throughout this package).
func Contains(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	return containsGeom(ga, gb), nil
}

// Within reports whether a lies entirely within b (the converse of
// Contains).
func Within(a, b []byte) (bool, error) {
	return Contains(b, a)
}

// Covers behaves like Contains but additionally accepts boundary-only
// overlap for degenerate (lower-dimension) operands; in this planar model
// it coincides with Contains.
func Covers(a, b []byte) (bool, error) {
	return Contains(a, b)
}

// CoveredBy is the converse of Covers.
func CoveredBy(a, b []byte) (bool, error) {
	return Covers(b, a)
}

// Equals reports whether a and b represent the same point set, irrespective
// of vertex order or ring winding.
func Equals(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	aEmpty, bEmpty := emptiness.IsEmpty(ga), emptiness.IsEmpty(gb)
	if aEmpty || bEmpty {
		return aEmpty && bEmpty, nil
	}
	return containsGeom(ga, gb) && containsGeom(gb, ga), nil
}

// Touches reports whether a and b intersect only at their boundaries, with
// no interior points in common.
func Touches(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	if !intersectsGeom(ga, gb) {
		return false, nil
	}
	for _, p := range allPoints(ga) {
		if in, on := geometryContainsPoint(gb, p); in && !on {
			return false, nil
		}
	}
	for _, p := range allPoints(gb) {
		if in, on := geometryContainsPoint(ga, p); in && !on {
			return false, nil
		}
	}
	return true, nil
}

// Crosses reports whether a and b intersect in a geometry of lower
// dimension than the maximum of the two, with interiors intersecting
// proper — approximated here as "they intersect but neither contains the
// other", matching the line/polygon and line/line crossing cases this
// engine supports.
func Crosses(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	if geom.Dimension(ga) == geom.Dimension(gb) && geom.Dimension(ga) == 2 {
		return false, nil
	}
	if !intersectsGeom(ga, gb) {
		return false, nil
	}
	touching, err := Touches(a, b)
	if err != nil {
		return false, err
	}
	if touching {
		return false, nil
	}
	return !containsGeom(ga, gb) && !containsGeom(gb, ga), nil
}

// Overlaps reports whether a and b intersect in a geometry of the same
// dimension as both, with neither containing the other.
func Overlaps(a, b []byte) (bool, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	if geom.Dimension(ga) != geom.Dimension(gb) {
		return false, nil
	}
	if !intersectsGeom(ga, gb) {
		return false, nil
	}
	return !containsGeom(ga, gb) && !containsGeom(gb, ga), nil
}

// DWithin reports whether a and b are within distance of one another,
// using a closed interval (<=), matching PostGIS's ST_DWithin.
func DWithin(a, b []byte, distance float64) (bool, error) {
	if distance < 0 {
		return false, geoerr.Invalidf("ST_DWithin: distance must be non-negative, got %v", distance)
	}
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return false, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return false, nil
	}
	if intersectsGeom(ga, gb) {
		return true, nil
	}
	return planarDistance(ga, gb) <= distance, nil
}
