package algebra

import (
	"math"

	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

func ringArea(ring []geom.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

func polygonArea(p geom.Polygon) float64 {
	if len(p.Rings) == 0 {
		return 0
	}
	area := math.Abs(ringArea(p.Rings[0]))
	for _, hole := range p.Rings[1:] {
		area -= math.Abs(ringArea(hole))
	}
	if area < 0 {
		return 0
	}
	return area
}

func geometryArea(g geom.Geometry) float64 {
	switch v := g.(type) {
	case geom.Polygon:
		return polygonArea(v)
	case geom.Rect:
		return polygonArea(v.AsPolygon())
	case geom.Triangle:
		return polygonArea(v.AsPolygon())
	case geom.MultiPolygon:
		sum := 0.0
		for _, p := range v.Polygons {
			sum += polygonArea(p)
		}
		return sum
	case geom.GeometryCollection:
		sum := 0.0
		for _, sub := range v.Geometries {
			sum += geometryArea(sub)
		}
		return sum
	default:
		return 0
	}
}

// Area returns the planar area of a Polygon/MultiPolygon (0 for other
// types, matching PostGIS ST_Area).
func Area(blob []byte) (float64, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return geometryArea(g), nil
}

func segmentLength(a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func lineLength(pts []geom.Point) float64 {
	sum := 0.0
	for i := 1; i < len(pts); i++ {
		sum += segmentLength(pts[i-1], pts[i])
	}
	return sum
}

func geometryLength(g geom.Geometry) float64 {
	switch v := g.(type) {
	case geom.LineString:
		return lineLength(v.Points)
	case geom.MultiLineString:
		sum := 0.0
		for _, ls := range v.Lines {
			sum += lineLength(ls.Points)
		}
		return sum
	case geom.GeometryCollection:
		sum := 0.0
		for _, sub := range v.Geometries {
			sum += geometryLength(sub)
		}
		return sum
	default:
		return 0
	}
}

// Length returns the planar length of a LineString/MultiLineString (0 for
// other types).
func Length(blob []byte) (float64, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return geometryLength(g), nil
}

func ringPerimeter(ring []geom.Point) float64 {
	if len(ring) < 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(ring)-1; i++ {
		sum += segmentLength(ring[i], ring[i+1])
	}
	return sum
}

func polygonPerimeter(p geom.Polygon) float64 {
	sum := 0.0
	for _, r := range p.Rings {
		sum += ringPerimeter(r)
	}
	return sum
}

func geometryPerimeter(g geom.Geometry) float64 {
	switch v := g.(type) {
	case geom.Polygon:
		return polygonPerimeter(v)
	case geom.Rect:
		return polygonPerimeter(v.AsPolygon())
	case geom.Triangle:
		return polygonPerimeter(v.AsPolygon())
	case geom.MultiPolygon:
		sum := 0.0
		for _, p := range v.Polygons {
			sum += polygonPerimeter(p)
		}
		return sum
	case geom.GeometryCollection:
		sum := 0.0
		for _, sub := range v.Geometries {
			sum += geometryPerimeter(sub)
		}
		return sum
	default:
		return 0
	}
}

// Perimeter returns the planar perimeter of a Polygon/MultiPolygon (0 for
// other types).
func Perimeter(blob []byte) (float64, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	return geometryPerimeter(g), nil
}

func bboxOf(g geom.Geometry) (geom.Bbox, bool) {
	if emptiness.IsEmpty(g) {
		return geom.Bbox{}, false
	}
	return geom.Envelope(g), true
}

// XMin returns the minimum X of blob's bounding box.
func XMin(blob []byte) (float64, error) { return bboxField(blob, func(b geom.Bbox) float64 { return b.MinX }) }

// XMax returns the maximum X of blob's bounding box.
func XMax(blob []byte) (float64, error) { return bboxField(blob, func(b geom.Bbox) float64 { return b.MaxX }) }

// YMin returns the minimum Y of blob's bounding box.
func YMin(blob []byte) (float64, error) { return bboxField(blob, func(b geom.Bbox) float64 { return b.MinY }) }

// YMax returns the maximum Y of blob's bounding box.
func YMax(blob []byte) (float64, error) { return bboxField(blob, func(b geom.Bbox) float64 { return b.MaxY }) }

func bboxField(blob []byte, sel func(geom.Bbox) float64) (float64, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	bb, ok := bboxOf(g)
	if !ok {
		return 0, geoerr.Invalidf("empty geometry has no bounding box")
	}
	return sel(bb), nil
}

func allPoints(g geom.Geometry) []geom.Point {
	var pts []geom.Point
	switch v := g.(type) {
	case geom.Point:
		if !geom.IsEmptyPoint(v) {
			pts = append(pts, v)
		}
	case geom.LineString:
		pts = append(pts, v.Points...)
	case geom.Polygon:
		for _, r := range v.Rings {
			pts = append(pts, r...)
		}
	case geom.Rect:
		return allPoints(v.AsPolygon())
	case geom.Triangle:
		return allPoints(v.AsPolygon())
	case geom.MultiPoint:
		pts = append(pts, v.Points...)
	case geom.MultiLineString:
		for _, l := range v.Lines {
			pts = append(pts, l.Points...)
		}
	case geom.MultiPolygon:
		for _, p := range v.Polygons {
			for _, r := range p.Rings {
				pts = append(pts, r...)
			}
		}
	case geom.GeometryCollection:
		for _, sub := range v.Geometries {
			pts = append(pts, allPoints(sub)...)
		}
	}
	return pts
}

func allSegments(g geom.Geometry) [][2]geom.Point {
	var segs [][2]geom.Point
	addRing := func(pts []geom.Point) {
		for i := 1; i < len(pts); i++ {
			segs = append(segs, [2]geom.Point{pts[i-1], pts[i]})
		}
	}
	switch v := g.(type) {
	case geom.LineString:
		addRing(v.Points)
	case geom.Polygon:
		for _, r := range v.Rings {
			addRing(r)
		}
	case geom.Rect:
		segs = append(segs, allSegments(v.AsPolygon())...)
	case geom.Triangle:
		segs = append(segs, allSegments(v.AsPolygon())...)
	case geom.MultiLineString:
		for _, l := range v.Lines {
			addRing(l.Points)
		}
	case geom.MultiPolygon:
		for _, p := range v.Polygons {
			for _, r := range p.Rings {
				addRing(r)
			}
		}
	case geom.GeometryCollection:
		for _, sub := range v.Geometries {
			segs = append(segs, allSegments(sub)...)
		}
	}
	return segs
}

// distancePointToSegment returns the Euclidean distance from p to the
// segment [a, b], and the closest point on the segment.
func distancePointToSegment(p, a, b geom.Point) (float64, geom.Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return segmentLength(p, a), a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := geom.Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return segmentLength(p, closest), closest
}

// planarDistance computes the minimum Euclidean distance between two
// non-empty geometries by reducing each to its point/segment set.
func planarDistance(ga, gb geom.Geometry) float64 {
	aPts, bPts := allPoints(ga), allPoints(gb)
	aSegs, bSegs := allSegments(ga), allSegments(gb)

	min := math.Inf(1)
	consider := func(d float64) {
		if d < min {
			min = d
		}
	}

	for _, p := range aPts {
		for _, q := range bPts {
			consider(segmentLength(p, q))
		}
		for _, s := range bSegs {
			d, _ := distancePointToSegment(p, s[0], s[1])
			consider(d)
		}
	}
	for _, q := range bPts {
		for _, s := range aSegs {
			d, _ := distancePointToSegment(q, s[0], s[1])
			consider(d)
		}
	}
	for _, s1 := range aSegs {
		for _, s2 := range bSegs {
			consider(segmentSegmentDistance(s1[0], s1[1], s2[0], s2[1]))
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	return min
}

func segmentSegmentDistance(a1, a2, b1, b2 geom.Point) float64 {
	if segmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	d1, _ := distancePointToSegment(a1, b1, b2)
	d2, _ := distancePointToSegment(a2, b1, b2)
	d3, _ := distancePointToSegment(b1, a1, a2)
	d4, _ := distancePointToSegment(b2, a1, a2)
	return math.Min(math.Min(d1, d2), math.Min(d3, d4))
}

// Distance dispatches on any pair of non-empty geometries (point-point,
// point-line, line-line, polygon-polygon, mixed), using planar Euclidean
// distance. Empty inputs are rejected.
func Distance(a, b []byte) (float64, error) {
	ga, gb, _, err := ewkb.ParsePair(a, b)
	if err != nil {
		return 0, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return 0, geoerr.Invalidf("ST_Distance: empty geometry argument")
	}
	return planarDistance(ga, gb), nil
}

// ClosestPoint returns the point on a nearest to b.
func ClosestPoint(a, b []byte) ([]byte, *int32, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, nil, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return nil, nil, geoerr.Invalidf("ST_ClosestPoint: empty geometry argument")
	}
	best := math.Inf(1)
	var bestPt geom.Point
	aPts := allPoints(ga)
	bPts := allPoints(gb)
	aSegs := allSegments(ga)
	for _, q := range bPts {
		for _, p := range aPts {
			if d := segmentLength(p, q); d < best {
				best, bestPt = d, p
			}
		}
		for _, s := range aSegs {
			if d, cp := distancePointToSegment(q, s[0], s[1]); d < best {
				best, bestPt = d, cp
			}
		}
	}
	return ewkb.Emit(bestPt, srid), srid, nil
}

// HausdorffDistance returns the discrete Hausdorff distance between two
// non-empty geometries: the greater of the two directed distances, each
// being the maximum over one geometry's vertices of the distance to the
// nearest point on the other.
func HausdorffDistance(a, b []byte) (float64, error) {
	ga, gb, _, err := ewkb.ParsePair(a, b)
	if err != nil {
		return 0, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return 0, geoerr.Invalidf("ST_HausdorffDistance: empty geometry argument")
	}
	return math.Max(directedHausdorff(ga, gb), directedHausdorff(gb, ga)), nil
}

func directedHausdorff(ga, gb geom.Geometry) float64 {
	max := 0.0
	for _, p := range allPoints(ga) {
		min := math.Inf(1)
		for _, q := range allPoints(gb) {
			if d := segmentLength(p, q); d < min {
				min = d
			}
		}
		for _, s := range allSegments(gb) {
			if d, _ := distancePointToSegment(p, s[0], s[1]); d < min {
				min = d
			}
		}
		if !math.IsInf(min, 1) && min > max {
			max = min
		}
	}
	return max
}

// Centroid returns the planar centroid of blob.
func Centroid(blob []byte) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	if emptiness.IsEmpty(g) {
		return ewkb.Emit(geom.EmptyPoint(), srid), srid, nil
	}
	c := centroidOf(g)
	return ewkb.Emit(c, srid), srid, nil
}

func centroidOf(g geom.Geometry) geom.Point {
	if p, ok := hasAreaCentroid(g); ok {
		return p
	}
	if p, ok := hasLineCentroid(g); ok {
		return p
	}
	pts := allPoints(g)
	if len(pts) == 0 {
		return geom.EmptyPoint()
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	return geom.Point{X: sx / float64(len(pts)), Y: sy / float64(len(pts))}
}

func hasAreaCentroid(g geom.Geometry) (geom.Point, bool) {
	var polys []geom.Polygon
	switch v := g.(type) {
	case geom.Polygon:
		polys = []geom.Polygon{v}
	case geom.Rect:
		polys = []geom.Polygon{v.AsPolygon()}
	case geom.Triangle:
		polys = []geom.Polygon{v.AsPolygon()}
	case geom.MultiPolygon:
		polys = v.Polygons
	default:
		return geom.Point{}, false
	}
	var sx, sy, sArea float64
	for _, p := range polys {
		if len(p.Rings) == 0 {
			continue
		}
		ring := p.Rings[0]
		a := ringArea(ring)
		cx, cy := ringCentroid(ring, a)
		sx += cx * a
		sy += cy * a
		sArea += a
	}
	if sArea == 0 {
		return geom.Point{}, false
	}
	return geom.Point{X: sx / sArea, Y: sy / sArea}, true
}

func ringCentroid(ring []geom.Point, signedArea float64) (float64, float64) {
	if len(ring) < 3 || signedArea == 0 {
		return 0, 0
	}
	var cx, cy float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}
	factor := 1 / (6 * signedArea)
	return cx * factor, cy * factor
}

func hasLineCentroid(g geom.Geometry) (geom.Point, bool) {
	var lines []geom.LineString
	switch v := g.(type) {
	case geom.LineString:
		lines = []geom.LineString{v}
	case geom.MultiLineString:
		lines = v.Lines
	default:
		return geom.Point{}, false
	}
	var sx, sy, total float64
	for _, ls := range lines {
		for i := 1; i < len(ls.Points); i++ {
			a, b := ls.Points[i-1], ls.Points[i]
			segLen := segmentLength(a, b)
			mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
			sx += mx * segLen
			sy += my * segLen
			total += segLen
		}
	}
	if total == 0 {
		return geom.Point{}, false
	}
	return geom.Point{X: sx / total, Y: sy / total}, true
}

// PointOnSurface returns a representative point of blob. For areal inputs
// it is the area centroid clamped to the bounding box, which lies inside
// convex polygons; for concave polygons (or polygons with holes) the
// point is not guaranteed to lie on the surface. For linear inputs it is
// the middle vertex, and for point inputs the first point.
func PointOnSurface(blob []byte) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, nil, err
	}
	if emptiness.IsEmpty(g) {
		return ewkb.Emit(geom.EmptyPoint(), srid), srid, nil
	}
	switch geom.Dimension(g) {
	case 2:
		p := interiorPointOfArea(g)
		return ewkb.Emit(p, srid), srid, nil
	case 1:
		pts := allPoints(g)
		mid := pts[len(pts)/2]
		return ewkb.Emit(mid, srid), srid, nil
	default:
		pts := allPoints(g)
		return ewkb.Emit(pts[0], srid), srid, nil
	}
}

// interiorPointOfArea picks the centroid, with each coordinate clamped to
// the bounding box — a cheap, always-in-envelope stand-in for a true
// point-in-polygon interior search.
func interiorPointOfArea(g geom.Geometry) geom.Point {
	c := centroidOf(g)
	bb := geom.Envelope(g)
	x := c.X
	if x < bb.MinX {
		x = bb.MinX
	}
	if x > bb.MaxX {
		x = bb.MaxX
	}
	y := c.Y
	if y < bb.MinY {
		y = bb.MinY
	}
	if y > bb.MaxY {
		y = bb.MaxY
	}
	return geom.Point{X: x, Y: y}
}
