package algebra

import (
	"math"

	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// Point builds a Point geometry from x, y and an optional SRID.
// Non-finite coordinates are rejected as InvalidInput.
func Point(x, y float64, srid *int32) ([]byte, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return nil, geoerr.Invalidf("Point: coordinates must be finite, got (%v, %v)", x, y)
	}
	return ewkb.Emit(geom.Point{X: x, Y: y}, srid), nil
}

// MakeLine builds a LineString from two Points, requiring matching SRID.
func MakeLine(a, b []byte) ([]byte, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, err
	}
	pa, ok := ga.(geom.Point)
	if !ok {
		return nil, &geoerr.WrongType{Expected: "Point"}
	}
	pb, ok := gb.(geom.Point)
	if !ok {
		return nil, &geoerr.WrongType{Expected: "Point"}
	}
	return ewkb.Emit(geom.LineString{Points: []geom.Point{pa, pb}}, srid), nil
}

// MakePolygon builds a Polygon shell from a closed LineString.
func MakePolygon(blob []byte) ([]byte, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	ls, ok := g.(geom.LineString)
	if !ok {
		return nil, &geoerr.WrongType{Expected: "LineString"}
	}
	return ewkb.Emit(geom.Polygon{Rings: [][]geom.Point{ls.Points}}, srid), nil
}

// MakeEnvelope builds a rectangular Polygon from the given bounds and
// optional SRID.
func MakeEnvelope(xmin, ymin, xmax, ymax float64, srid *int32) ([]byte, error) {
	rect := geom.Rect{MinX: xmin, MinY: ymin, MaxX: xmax, MaxY: ymax}
	return ewkb.Emit(rect, srid), nil
}

// Collect merges two geometries into a GeometryCollection, requiring
// matching SRID. Unlike ST_Union, it never promotes same-typed operands
// to a Multi* type: a GeometryCollection is always returned, regardless
// of whether a and b share a base type.
func Collect(a, b []byte) ([]byte, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return nil, err
	}
	return ewkb.Emit(geom.GeometryCollection{Geometries: []geom.Geometry{ga, gb}}, srid), nil
}

// webMercatorHalfCircumference is the EPSG:3857 half-circumference in
// meters, matching PostGIS's ST_TileEnvelope constant.
const webMercatorHalfCircumference = 20037508.3427892

// TileEnvelope returns the Web Mercator (EPSG:3857) bounding box of the
// given XYZ tile.
func TileEnvelope(zoom, x, y int64) ([]byte, error) {
	if zoom < 0 || zoom > 31 {
		return nil, geoerr.Invalidf("TileEnvelope: zoom must be in [0, 31], got %d", zoom)
	}
	n := int64(1) << uint(zoom)
	if x < 0 || x >= n || y < 0 || y >= n {
		return nil, geoerr.Invalidf("TileEnvelope: tile (%d, %d) out of range for zoom %d", x, y, zoom)
	}
	tileSize := 2 * webMercatorHalfCircumference / float64(n)
	xmin := -webMercatorHalfCircumference + float64(x)*tileSize
	xmax := xmin + tileSize
	ymax := webMercatorHalfCircumference - float64(y)*tileSize
	ymin := ymax - tileSize
	srid := int32(3857)
	return MakeEnvelope(xmin, ymin, xmax, ymax, &srid)
}
