package ewkb

import (
	"encoding/binary"
	"math"

	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// reader walks an ISO-WKB payload after the header has already been
// consumed, tracking endianness and position.
type reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	hasZ  bool
	hasM  bool
}

func (r *reader) coordLen() int {
	n := 16
	if r.hasZ {
		n += 8
	}
	if r.hasM {
		n += 8
	}
	return n
}

func (r *reader) point() (geom.Point, error) {
	n := r.coordLen()
	if r.pos+n > len(r.buf) {
		return geom.Point{}, &geoerr.InvalidEwkb{Reason: "truncated coordinate"}
	}
	x := math.Float64frombits(r.order.Uint64(r.buf[r.pos : r.pos+8]))
	y := math.Float64frombits(r.order.Uint64(r.buf[r.pos+8 : r.pos+16]))
	r.pos += n
	return geom.Point{X: x, Y: y}, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, &geoerr.InvalidEwkb{Reason: "truncated length prefix"}
	}
	v := r.order.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// subHeader reads a nested geometry's own byte-order + type prefix, as
// found inside MultiPoint/MultiLineString/MultiPolygon/GeometryCollection
// members, each of which carries its own independent EWKB sub-header.
func (r *reader) subHeader() (typeCode uint32, err error) {
	if r.pos >= len(r.buf) {
		return 0, &geoerr.InvalidEwkb{Reason: "truncated sub-geometry header"}
	}
	switch r.buf[r.pos] {
	case 0x01:
		r.order = binary.LittleEndian
	case 0x00:
		r.order = binary.BigEndian
	default:
		return 0, &geoerr.InvalidEwkb{Reason: "bad sub-geometry byte order"}
	}
	r.pos++
	raw, err := r.u32()
	if err != nil {
		return 0, err
	}
	return raw & typeMask, nil
}

func (r *reader) linestring() (geom.LineString, error) {
	n, err := r.u32()
	if err != nil {
		return geom.LineString{}, err
	}
	pts := make([]geom.Point, n)
	for i := range pts {
		p, err := r.point()
		if err != nil {
			return geom.LineString{}, err
		}
		pts[i] = p
	}
	return geom.LineString{Points: pts}, nil
}

func (r *reader) polygon() (geom.Polygon, error) {
	n, err := r.u32()
	if err != nil {
		return geom.Polygon{}, err
	}
	rings := make([][]geom.Point, n)
	for i := range rings {
		count, err := r.u32()
		if err != nil {
			return geom.Polygon{}, err
		}
		ring := make([]geom.Point, count)
		for j := range ring {
			p, err := r.point()
			if err != nil {
				return geom.Polygon{}, err
			}
			ring[j] = p
		}
		rings[i] = ring
	}
	return geom.Polygon{Rings: rings}, nil
}

func (r *reader) geometry() (geom.Geometry, error) {
	typeCode, err := r.subHeader()
	if err != nil {
		return nil, err
	}
	return r.geometryBody(typeCode)
}

func (r *reader) geometryBody(typeCode uint32) (geom.Geometry, error) {
	switch typeCode {
	case geom.TypePoint:
		p, err := r.point()
		if err != nil {
			return nil, err
		}
		return p, nil
	case geom.TypeLineString:
		return r.linestring()
	case geom.TypePolygon:
		return r.polygon()
	case geom.TypeMultiPoint:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		pts := make([]geom.Point, n)
		for i := range pts {
			sub, err := r.geometry()
			if err != nil {
				return nil, err
			}
			p, ok := sub.(geom.Point)
			if !ok {
				return nil, &geoerr.InvalidEwkb{Reason: "MultiPoint member not a Point"}
			}
			pts[i] = p
		}
		return geom.MultiPoint{Points: pts}, nil
	case geom.TypeMultiLineString:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		lines := make([]geom.LineString, n)
		for i := range lines {
			sub, err := r.geometry()
			if err != nil {
				return nil, err
			}
			ls, ok := sub.(geom.LineString)
			if !ok {
				return nil, &geoerr.InvalidEwkb{Reason: "MultiLineString member not a LineString"}
			}
			lines[i] = ls
		}
		return geom.MultiLineString{Lines: lines}, nil
	case geom.TypeMultiPolygon:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		polys := make([]geom.Polygon, n)
		for i := range polys {
			sub, err := r.geometry()
			if err != nil {
				return nil, err
			}
			p, ok := sub.(geom.Polygon)
			if !ok {
				return nil, &geoerr.InvalidEwkb{Reason: "MultiPolygon member not a Polygon"}
			}
			polys[i] = p
		}
		return geom.MultiPolygon{Polygons: polys}, nil
	case geom.TypeGeometryCollection:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		geoms := make([]geom.Geometry, n)
		for i := range geoms {
			sub, err := r.geometry()
			if err != nil {
				return nil, err
			}
			geoms[i] = sub
		}
		return geom.GeometryCollection{Geometries: geoms}, nil
	default:
		return nil, &geoerr.InvalidEwkb{Reason: "unknown geometry type code"}
	}
}

// decodePayload decodes the ISO-WKB payload described by h, starting at
// h.DataOffset.
func decodePayload(blob []byte, h Header) (geom.Geometry, error) {
	var order binary.ByteOrder = binary.LittleEndian
	if !h.LittleEndian {
		order = binary.BigEndian
	}
	r := &reader{buf: blob, pos: h.DataOffset, order: order, hasZ: h.HasZ, hasM: h.HasM}
	return r.geometryBody(h.GeomType)
}

// ValidatePayload parses the header and fully decodes the payload,
// returning the header on success.
func ValidatePayload(blob []byte) (Header, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return Header{}, err
	}
	if _, err := decodePayload(blob, h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// ValidateXY behaves like ValidatePayload but additionally rejects Z/M.
func ValidateXY(blob []byte) (Header, error) {
	h, err := ValidatePayload(blob)
	if err != nil {
		return Header{}, err
	}
	if h.HasZ || h.HasM {
		return Header{}, &geoerr.UnsupportedDimensions{Dims: dimsLabel(h)}
	}
	return h, nil
}

func dimsLabel(h Header) string {
	switch {
	case h.HasZ && h.HasM:
		return "ZM"
	case h.HasZ:
		return "Z"
	case h.HasM:
		return "M"
	default:
		return ""
	}
}

// ParseAny decodes blob's structure into the XY geometry model regardless
// of its Z/M flags: Z/M coordinate words are skipped, not read, so the
// resulting geometry always carries XY only. It exists for the handful of
// operations (IsEmpty, MemSize, SRID accessors) that the spec allows to
// operate on Z/M payloads because they never inspect a coordinate value.
// Compute paths must call Parse instead, which rejects Z/M outright.
func ParseAny(blob []byte) (geom.Geometry, *int32, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return nil, nil, err
	}
	if h.GeomType == geom.TypePoint {
		empty, err := IsEmptyPoint(blob)
		if err != nil {
			return nil, nil, err
		}
		if empty {
			return geom.EmptyPoint(), sridPtr(h), nil
		}
	}
	g, err := decodePayload(blob, h)
	if err != nil {
		return nil, nil, err
	}
	return g, sridPtr(h), nil
}

// Parse validates the header, rejects Z/M, short-circuits empty Points to
// geom.EmptyPoint, and otherwise fully decodes the payload. It returns the
// decoded geometry and its SRID, if present.
func Parse(blob []byte) (geom.Geometry, *int32, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return nil, nil, err
	}
	if h.HasZ || h.HasM {
		return nil, nil, &geoerr.UnsupportedDimensions{Dims: dimsLabel(h)}
	}
	if h.GeomType == geom.TypePoint {
		empty, err := IsEmptyPoint(blob)
		if err != nil {
			return nil, nil, err
		}
		if empty {
			return geom.EmptyPoint(), sridPtr(h), nil
		}
	}
	g, err := decodePayload(blob, h)
	if err != nil {
		return nil, nil, err
	}
	return g, sridPtr(h), nil
}

func sridPtr(h Header) *int32 {
	if !h.HasSRID {
		return nil
	}
	v := h.SRID
	return &v
}

// ParsePair parses both blobs and enforces a matching SRID in one call.
func ParsePair(a, b []byte) (ga, gb geom.Geometry, srid *int32, err error) {
	ga, sa, err := Parse(a)
	if err != nil {
		return nil, nil, nil, err
	}
	gb, sb, err := Parse(b)
	if err != nil {
		return nil, nil, nil, err
	}
	srid, err = EnsureMatchingSRID(sa, sb)
	if err != nil {
		return nil, nil, nil, err
	}
	return ga, gb, srid, nil
}
