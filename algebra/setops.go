package algebra

import (
	"fmt"
	"math"
	"sort"

	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// flattenPolygons returns g's constituent polygon shells: a Polygon (or
// Rect/Triangle, promoted to their polygon form) as a single-element
// slice, a MultiPolygon as its member slice directly. ok is false for any
// other geometry type.
func flattenPolygons(g geom.Geometry) ([]geom.Polygon, bool) {
	switch v := g.(type) {
	case geom.Polygon:
		return []geom.Polygon{v}, true
	case geom.MultiPolygon:
		return append([]geom.Polygon(nil), v.Polygons...), true
	case geom.Rect:
		return []geom.Polygon{v.AsPolygon()}, true
	case geom.Triangle:
		return []geom.Polygon{v.AsPolygon()}, true
	default:
		return nil, false
	}
}

// polygonSetResult emits polys as the most specific type: an empty Polygon
// for zero pieces, a plain Polygon for one, a MultiPolygon otherwise.
func polygonSetResult(polys []geom.Polygon, srid *int32) []byte {
	var nonEmpty []geom.Polygon
	for _, p := range polys {
		if len(p.Rings) > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return emptyPolygonResult(srid)
	case 1:
		return ewkb.Emit(nonEmpty[0], srid)
	default:
		return ewkb.Emit(geom.MultiPolygon{Polygons: nonEmpty}, srid)
	}
}

// sutherlandHodgman clips subject against a convex clip polygon's shell,
// returning the clipped ring. The clip ring's winding direction (CW or
// CCW) is detected from its signed area so the algorithm works regardless
// of input winding.
func sutherlandHodgman(subject []geom.Point, clip []geom.Point) []geom.Point {
	if len(subject) == 0 || len(clip) < 3 {
		return nil
	}
	ccw := ringArea(clip) > 0
	inside := func(p, a, b geom.Point) bool {
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if ccw {
			return cross >= 0
		}
		return cross <= 0
	}
	intersect := func(p1, p2, a, b geom.Point) geom.Point {
		a1 := b.Y - a.Y
		b1 := a.X - b.X
		c1 := a1*a.X + b1*a.Y
		a2 := p2.Y - p1.Y
		b2 := p1.X - p2.X
		c2 := a2*p1.X + b2*p1.Y
		det := a1*b2 - a2*b1
		if det == 0 {
			return p2
		}
		return geom.Point{X: (b2*c1 - b1*c2) / det, Y: (a1*c2 - a2*c1) / det}
	}

	output := subject
	clipN := len(clip)
	for i := 0; i < clipN; i++ {
		a, b := clip[i], clip[(i+1)%clipN]
		if len(output) == 0 {
			break
		}
		input := output
		output = nil
		n := len(input)
		for j := 0; j < n; j++ {
			cur := input[j]
			prev := input[(j-1+n)%n]
			curIn := inside(cur, a, b)
			prevIn := inside(prev, a, b)
			if curIn {
				if !prevIn {
					output = append(output, intersect(prev, cur, a, b))
				}
				output = append(output, cur)
			} else if prevIn {
				output = append(output, intersect(prev, cur, a, b))
			}
		}
	}
	return output
}

func closeRing(pts []geom.Point) []geom.Point {
	if len(pts) == 0 {
		return nil
	}
	if pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return pts
}

func emptyPolygonResult(srid *int32) []byte {
	return ewkb.Emit(geom.Polygon{}, srid)
}

// Intersection returns the polygon-polygon intersection of a and b, a
// plain Polygon or MultiPolygon operand being flattened to its
// constituent shells and clipped pairwise via Sutherland-Hodgman: each
// shell of a is clipped against each shell of b. Exact when every shell
// of b is convex (shells of a may be concave); a concave shell of b is not
// handled correctly, and interior rings (holes) are ignored.
func Intersection(a, b []byte) ([]byte, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, err
	}
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		return emptyPolygonResult(srid), nil
	}
	listA, okA := flattenPolygons(ga)
	listB, okB := flattenPolygons(gb)
	if !okA || !okB {
		return nil, &geoerr.WrongType{Expected: "Polygon or MultiPolygon"}
	}
	var pieces []geom.Polygon
	for _, pa := range listA {
		if len(pa.Rings) == 0 {
			continue
		}
		for _, pb := range listB {
			if len(pb.Rings) == 0 {
				continue
			}
			clipped := sutherlandHodgman(pa.Rings[0], pb.Rings[0])
			if len(clipped) < 3 {
				continue
			}
			pieces = append(pieces, geom.Polygon{Rings: [][]geom.Point{closeRing(clipped)}})
		}
	}
	return polygonSetResult(pieces, srid), nil
}

// Union returns the union of two polygon (or MultiPolygon) operands,
// flattening each to its constituent shells and merging every shell
// pairwise: shells that are disjoint from every other shell stay
// separate pieces of the result MultiPolygon, containment collapses to
// the containing shell, and a genuine overlap is traced into a single
// merged Polygon (see unionPair).
func Union(a, b []byte) ([]byte, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, err
	}
	aEmpty, bEmpty := emptiness.IsEmpty(ga), emptiness.IsEmpty(gb)
	if aEmpty && bEmpty {
		return emptyPolygonResult(srid), nil
	}
	if aEmpty {
		return ewkb.Emit(gb, srid), nil
	}
	if bEmpty {
		return ewkb.Emit(ga, srid), nil
	}
	listA, okA := flattenPolygons(ga)
	listB, okB := flattenPolygons(gb)
	if !okA || !okB {
		return nil, &geoerr.WrongType{Expected: "Polygon or MultiPolygon"}
	}
	all := append(append([]geom.Polygon(nil), listA...), listB...)
	merged := unionPolygonList(all)
	return polygonSetResult(merged, srid), nil
}

func unionPolygonList(polys []geom.Polygon) []geom.Polygon {
	if len(polys) == 0 {
		return nil
	}
	merged := []geom.Polygon{polys[0]}
	for _, p := range polys[1:] {
		merged = mergeIntoList(merged, p)
	}
	return merged
}

// mergeIntoList folds p into list, merging it with every existing piece
// it overlaps or is contained by/contains, leaving pieces it is disjoint
// from untouched.
func mergeIntoList(list []geom.Polygon, p geom.Polygon) []geom.Polygon {
	cur := p
	var rest []geom.Polygon
	for _, q := range list {
		if merged, ok := unionPair(cur, q); ok {
			cur = merged
		} else {
			rest = append(rest, q)
		}
	}
	return append(rest, cur)
}

// unionPair merges two polygon shells into one when one contains the
// other, when they are axis-aligned rectangles sharing a full edge extent,
// or when their boundaries cross transversally. ok is false when they are
// disjoint or when none of these cases resolves the contact (e.g. shells
// that only touch), in which case both shells remain separate pieces of
// the result.
func unionPair(pa, pb geom.Polygon) (geom.Polygon, bool) {
	if len(pa.Rings) == 0 {
		return pb, true
	}
	if len(pb.Rings) == 0 {
		return pa, true
	}
	ga, gb := geom.Geometry(pa), geom.Geometry(pb)
	if containsGeom(ga, gb) {
		return pa, true
	}
	if containsGeom(gb, ga) {
		return pb, true
	}
	if !intersectsGeom(ga, gb) {
		return geom.Polygon{}, false
	}
	if ra, ok := asAxisAlignedRect(pa.Rings[0]); ok {
		if rb, ok := asAxisAlignedRect(pb.Rings[0]); ok {
			if merged, ok := rectUnion(ra, rb); ok {
				return merged.toPolygon(), true
			}
		}
	}
	if merged, ok := traceUnion(pa, pb); ok {
		return merged, true
	}
	// Neither the rectangle fast path nor the boundary trace could
	// resolve this overlap into a single ring (e.g. the shells touch
	// only along a non-rectangular colinear edge). Keep both shells as
	// distinct pieces rather than guess at a shape; the result still
	// uses a spec-legal type, just not the most specific one possible.
	return geom.Polygon{}, false
}

// Difference returns the part of a not in b, a plain Polygon or
// MultiPolygon operand being flattened to its constituent shells and
// each shell of a subtracted pairwise against every shell of b.
func Difference(a, b []byte) ([]byte, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, err
	}
	if emptiness.IsEmpty(ga) {
		return emptyPolygonResult(srid), nil
	}
	if emptiness.IsEmpty(gb) {
		return ewkb.Emit(ga, srid), nil
	}
	listA, okA := flattenPolygons(ga)
	listB, okB := flattenPolygons(gb)
	if !okA || !okB {
		return nil, &geoerr.WrongType{Expected: "Polygon or MultiPolygon"}
	}
	var pieces []geom.Polygon
	for _, pa := range listA {
		piece := pa
		for _, pb := range listB {
			if len(piece.Rings) == 0 {
				break
			}
			if next, ok := subtractPair(piece, pb); ok {
				piece = next
			}
		}
		if len(piece.Rings) > 0 {
			pieces = append(pieces, piece)
		}
	}
	return polygonSetResult(pieces, srid), nil
}

// subtractPair returns pa minus pb. ok is false only when the boundary
// trace could not resolve a partial overlap into a single ring, in which
// case the caller keeps pa unchanged — a conservative (over-) estimate of
// the true difference rather than the unsupported GeometryCollection
// this used to fall back to.
func subtractPair(pa, pb geom.Polygon) (geom.Polygon, bool) {
	if len(pa.Rings) == 0 {
		return pa, true
	}
	ga, gb := geom.Geometry(pa), geom.Geometry(pb)
	if !intersectsGeom(ga, gb) {
		return pa, true
	}
	if containsGeom(gb, ga) {
		return geom.Polygon{}, true
	}
	return traceDifference(pa, pb)
}

// SymDifference returns the union of (a - b) and (b - a).
func SymDifference(a, b []byte) ([]byte, error) {
	aMinusB, err := Difference(a, b)
	if err != nil {
		return nil, err
	}
	bMinusA, err := Difference(b, a)
	if err != nil {
		return nil, err
	}
	return Union(aMinusB, bMinusA)
}

// axisRect is an axis-aligned bounding rectangle recognized from a
// four-corner polygon shell.
type axisRect struct {
	xmin, ymin, xmax, ymax float64
}

// asAxisAlignedRect reports whether ring is a closed 4-corner ring
// describing an axis-aligned rectangle.
func asAxisAlignedRect(ring []geom.Point) (axisRect, bool) {
	pts := ring
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) != 4 {
		return axisRect{}, false
	}
	xmin, xmax := pts[0].X, pts[0].X
	ymin, ymax := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	corners := map[geom.Point]bool{
		{X: xmin, Y: ymin}: true, {X: xmax, Y: ymin}: true,
		{X: xmax, Y: ymax}: true, {X: xmin, Y: ymax}: true,
	}
	for _, p := range pts {
		if !corners[p] {
			return axisRect{}, false
		}
	}
	return axisRect{xmin, ymin, xmax, ymax}, true
}

// rectUnion merges two axis-aligned rectangles into one when they share a
// full edge extent (identical Y range or identical X range) and overlap
// or touch along it — the only configuration whose union is itself a
// single rectangle.
func rectUnion(a, b axisRect) (axisRect, bool) {
	if a.ymin == b.ymin && a.ymax == b.ymax && a.xmin <= b.xmax && b.xmin <= a.xmax {
		return axisRect{math.Min(a.xmin, b.xmin), a.ymin, math.Max(a.xmax, b.xmax), a.ymax}, true
	}
	if a.xmin == b.xmin && a.xmax == b.xmax && a.ymin <= b.ymax && b.ymin <= a.ymax {
		return axisRect{a.xmin, math.Min(a.ymin, b.ymin), a.xmax, math.Max(a.ymax, b.ymax)}, true
	}
	return axisRect{}, false
}

func (r axisRect) toPolygon() geom.Polygon {
	return geom.Polygon{Rings: [][]geom.Point{{
		{X: r.xmin, Y: r.ymin}, {X: r.xmax, Y: r.ymin},
		{X: r.xmax, Y: r.ymax}, {X: r.xmin, Y: r.ymax},
		{X: r.xmin, Y: r.ymin},
	}}}
}

// augVertex is one stop along a ring walked by traceBoundary: either an
// original vertex of the ring, or a point where the ring crosses the
// other operand's boundary.
type augVertex struct {
	geom.Point
	isCross bool
	key     string
}

func crossKey(p geom.Point) string {
	return fmt.Sprintf("%.9f|%.9f", p.X, p.Y)
}

// edgeIntersection returns where segment p1-p2 crosses segment p3-p4,
// strictly inside both segments (endpoint touches are not treated as
// crossings here; they are the degenerate colinear case the axis-aligned
// rectangle fast path and, for difference, the reversed-ring trace
// already handle without needing an explicit crossing node).
func edgeIntersection(p1, p2, p3, p4 geom.Point) (geom.Point, bool) {
	rX, rY := p2.X-p1.X, p2.Y-p1.Y
	sX, sY := p4.X-p3.X, p4.Y-p3.Y
	denom := rX*sY - rY*sX
	if denom == 0 {
		return geom.Point{}, false
	}
	qpX, qpY := p3.X-p1.X, p3.Y-p1.Y
	t := (qpX*sY - qpY*sX) / denom
	u := (qpX*rY - qpY*rX) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return geom.Point{}, false
	}
	return geom.Point{X: p1.X + t*rX, Y: p1.Y + t*rY}, true
}

// augmentRing walks ring's edges in order, inserting a crossing vertex
// for every point where an edge of ring transversally crosses an edge of
// other, ordered along the edge by its parametric position.
func augmentRing(ring, other []geom.Point) []augVertex {
	n, m := len(ring), len(other)
	out := make([]augVertex, 0, n*2)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		out = append(out, augVertex{Point: a})
		type hit struct {
			pt geom.Point
			t  float64
		}
		var hits []hit
		for j := 0; j < m; j++ {
			c, d := other[j], other[(j+1)%m]
			if pt, ok := edgeIntersection(a, b, c, d); ok {
				var t float64
				if b.X != a.X {
					t = (pt.X - a.X) / (b.X - a.X)
				} else {
					t = (pt.Y - a.Y) / (b.Y - a.Y)
				}
				hits = append(hits, hit{pt, t})
			}
		}
		sort.Slice(hits, func(x, y int) bool { return hits[x].t < hits[y].t })
		for _, h := range hits {
			out = append(out, augVertex{Point: h.pt, isCross: true, key: crossKey(h.pt)})
		}
	}
	return out
}

func anyCrossing(ring []augVertex) bool {
	for _, v := range ring {
		if v.isCross {
			return true
		}
	}
	return false
}

// orientCCW returns ring reversed if it winds clockwise, so callers can
// rely on a consistent counter-clockwise orientation.
func orientCCW(ring []geom.Point) []geom.Point {
	if ringArea(ring) >= 0 {
		return ring
	}
	reversed := make([]geom.Point, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}
	return reversed
}

// traceUnion walks the outer boundary of two partially overlapping,
// non-containing convex polygon shells via the classic Weiler-Atherton
// rule: start at a vertex of a outside b, walk forward, and switch rings
// at every transversal boundary crossing. Exact when the shells cross at
// isolated points; shells that only touch along a shared colinear edge
// (no transversal crossing at all) fall through to ok=false, left to the
// axis-aligned rectangle fast path in unionPair.
func traceUnion(pa, pb geom.Polygon) (geom.Polygon, bool) {
	if len(pa.Rings) == 0 || len(pb.Rings) == 0 {
		return geom.Polygon{}, false
	}
	ringA := orientCCW(pa.Rings[0])
	ringB := orientCCW(pb.Rings[0])
	augA := augmentRing(ringA, ringB)
	augB := augmentRing(ringB, ringA)
	if !anyCrossing(augA) {
		return geom.Polygon{}, false
	}
	return traceBoundary(augA, augB, ringB, +1, +1)
}

// traceDifference walks the boundary of pa minus pb the same way, except
// it switches onto pb's ring in the reverse direction: pb's boundary,
// reversed, traces the notch cut out of pa. Unlike traceUnion, this also
// correctly handles two shells that only meet along a shared colinear
// edge, because reversing onto pb routes around the shared edge instead
// of walking along it.
func traceDifference(pa, pb geom.Polygon) (geom.Polygon, bool) {
	if len(pa.Rings) == 0 || len(pb.Rings) == 0 {
		return pa, true
	}
	ringA := orientCCW(pa.Rings[0])
	ringB := orientCCW(pb.Rings[0])
	augA := augmentRing(ringA, ringB)
	augB := augmentRing(ringB, ringA)
	if !anyCrossing(augA) {
		return pa, true
	}
	return traceBoundary(augA, augB, ringB, +1, -1)
}

// traceBoundary walks augA forward from a vertex outside startRef,
// switching onto augB at every crossing (stepping augB by dirB — +1
// continues forward, -1 reverses) and back onto augA (stepped by dirA)
// at augB's own crossings, until it returns to the starting point.
func traceBoundary(augA, augB []augVertex, startRef []geom.Point, dirA, dirB int) (geom.Polygon, bool) {
	matchA := map[string]int{}
	for i, v := range augA {
		if v.isCross {
			matchA[v.key] = i
		}
	}
	matchB := map[string]int{}
	for i, v := range augB {
		if v.isCross {
			matchB[v.key] = i
		}
	}

	startIdx := -1
	for i, v := range augA {
		if !v.isCross && !pointInRing(v.Point, startRef) {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return geom.Polygon{}, false
	}

	rings := [2][]augVertex{augA, augB}
	dirs := [2]int{dirA, dirB}
	other := [2]map[string]int{matchB, matchA}
	step := func(cur, idx int) int {
		n := len(rings[cur])
		return ((idx+dirs[cur])%n + n) % n
	}

	cur, idx := 0, startIdx
	start := rings[cur][idx].Point
	var out []geom.Point
	limit := 4 * (len(augA) + len(augB))
	for i := 0; i < limit; i++ {
		v := rings[cur][idx]
		out = append(out, v.Point)
		if v.isCross {
			matchedIdx, ok := other[cur][v.key]
			if !ok {
				return geom.Polygon{}, false
			}
			cur = 1 - cur
			idx = matchedIdx
		}
		idx = step(cur, idx)
		if rings[cur][idx].Point == start && len(out) > 2 {
			return geom.Polygon{Rings: [][]geom.Point{closeRing(out)}}, true
		}
	}
	return geom.Polygon{}, false
}

// Buffer expands (positive distance) or shrinks (negative distance, for
// polygons and MultiPolygons only) blob by distance, approximating the
// true Minkowski-sum buffer as the convex hull of every vertex's
// distance-sampled offset circle. Empty input yields an empty Polygon
// without invoking the algorithm, per ST_Buffer's documented empty-input
// contract.
func Buffer(blob []byte, distance float64) ([]byte, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	if emptiness.IsEmpty(g) {
		return emptyPolygonResult(srid), nil
	}
	if distance < 0 {
		polys, ok := flattenPolygons(g)
		if !ok {
			return nil, geoerr.Invalidf("ST_Buffer: negative distance only valid for polygons")
		}
		var shrunk []geom.Polygon
		for _, poly := range polys {
			if sp, ok := shrinkPolygon(poly, -distance); ok {
				shrunk = append(shrunk, sp)
			}
		}
		return polygonSetResult(shrunk, srid), nil
	}
	pts := allPoints(g)
	if len(pts) == 0 {
		return emptyPolygonResult(srid), nil
	}
	const segments = 16
	var samples []geom.Point
	for _, p := range pts {
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			samples = append(samples, geom.Point{
				X: p.X + distance*math.Cos(theta),
				Y: p.Y + distance*math.Sin(theta),
			})
		}
	}
	hull := convexHull(samples)
	if len(hull) < 3 {
		return emptyPolygonResult(srid), nil
	}
	return ewkb.Emit(geom.Polygon{Rings: [][]geom.Point{closeRing(hull)}}, srid), nil
}

func shrinkPolygon(poly geom.Polygon, distance float64) (geom.Polygon, bool) {
	if len(poly.Rings) == 0 {
		return geom.Polygon{}, false
	}
	c := centroidOf(poly)
	shell := poly.Rings[0]
	shrunk := make([]geom.Point, len(shell))
	for i, p := range shell {
		dx, dy := p.X-c.X, p.Y-c.Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d <= distance {
			shrunk[i] = c
			continue
		}
		scale := (d - distance) / d
		shrunk[i] = geom.Point{X: c.X + dx*scale, Y: c.Y + dy*scale}
	}
	hull := convexHull(shrunk)
	if len(hull) < 3 {
		return geom.Polygon{}, false
	}
	return geom.Polygon{Rings: [][]geom.Point{closeRing(hull)}}, true
}

// convexHull computes the convex hull of pts via the monotone chain
// algorithm, returning hull vertices in counter-clockwise order.
func convexHull(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return append([]geom.Point(nil), pts...)
	}
	sorted := append([]geom.Point(nil), pts...)
	sortPoints(sorted)
	sorted = dedupPoints(sorted)
	if len(sorted) < 3 {
		return sorted
	}

	cross := func(o, a, b geom.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []geom.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []geom.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	lower = lower[:len(lower)-1]
	upper = upper[:len(upper)-1]
	return append(lower, upper...)
}

func sortPoints(pts []geom.Point) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && less(pts[j], pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

func less(a, b geom.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func dedupPoints(pts []geom.Point) []geom.Point {
	out := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			out = append(out, p)
		}
	}
	return out
}
