package ewkb

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/geolite-go/geolite/geom"
)

type writer struct {
	buf bytes.Buffer
}

func (w *writer) byte(b byte) { w.buf.WriteByte(b) }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) f64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) point(p geom.Point) { w.f64(p.X); w.f64(p.Y) }

func (w *writer) ring(pts []geom.Point) {
	w.u32(uint32(len(pts)))
	for _, p := range pts {
		w.point(p)
	}
}

func (w *writer) geometry(g geom.Geometry) {
	w.byte(0x01) // always write little-endian, per the codec's canonical-output rule
	w.u32(g.TypeCode())
	switch v := g.(type) {
	case geom.Point:
		w.point(v)
	case geom.LineString:
		w.ring(v.Points)
	case geom.Polygon:
		w.u32(uint32(len(v.Rings)))
		for _, r := range v.Rings {
			w.ring(r)
		}
	case geom.MultiPoint:
		w.u32(uint32(len(v.Points)))
		for _, p := range v.Points {
			w.geometry(p)
		}
	case geom.MultiLineString:
		w.u32(uint32(len(v.Lines)))
		for _, ls := range v.Lines {
			w.geometry(ls)
		}
	case geom.MultiPolygon:
		w.u32(uint32(len(v.Polygons)))
		for _, p := range v.Polygons {
			w.geometry(p)
		}
	case geom.GeometryCollection:
		w.u32(uint32(len(v.Geometries)))
		for _, sub := range v.Geometries {
			w.geometry(sub)
		}
	case geom.Rect:
		w.geometry(v.AsPolygon())
	case geom.Triangle:
		w.geometry(v.AsPolygon())
	}
}

// Emit writes g as EWKB. Empty Points are emitted as (NaN, NaN) with
// correct header flags. When srid is non-nil the header carries the SRID
// flag and the SRID prefix; geometries are otherwise ISO-WKB with no
// extension bits set. Output is always little-endian.
func Emit(g geom.Geometry, srid *int32) []byte {
	w := &writer{}
	w.byte(0x01)
	typ := g.TypeCode()
	if srid != nil {
		typ |= flagSRID
	}
	w.u32(typ)
	if srid != nil {
		w.u32(uint32(*srid))
	}
	writeBody(w, g)
	return w.buf.Bytes()
}

// writeBody writes the payload only (no outer byte-order/type/SRID
// prefix), reusing geometry's recursive structure for the top-level call.
func writeBody(w *writer, g geom.Geometry) {
	switch v := g.(type) {
	case geom.Point:
		w.point(v)
	case geom.LineString:
		w.ring(v.Points)
	case geom.Polygon:
		w.u32(uint32(len(v.Rings)))
		for _, r := range v.Rings {
			w.ring(r)
		}
	case geom.MultiPoint:
		w.u32(uint32(len(v.Points)))
		for _, p := range v.Points {
			w.geometry(p)
		}
	case geom.MultiLineString:
		w.u32(uint32(len(v.Lines)))
		for _, ls := range v.Lines {
			w.geometry(ls)
		}
	case geom.MultiPolygon:
		w.u32(uint32(len(v.Polygons)))
		for _, p := range v.Polygons {
			w.geometry(p)
		}
	case geom.GeometryCollection:
		w.u32(uint32(len(v.Geometries)))
		for _, sub := range v.Geometries {
			w.geometry(sub)
		}
	case geom.Rect:
		writeBody(w, v.AsPolygon())
	case geom.Triangle:
		writeBody(w, v.AsPolygon())
	}
}

// SetSRID re-emits blob's header to carry srid. It first fully validates
// the payload so malformed blobs cannot be "fixed" by rewriting the
// header — a correctness requirement, not an optimization: after this call
// the blob is trusted EWKB again. The payload bytes (including any Z/M
// coordinates) are copied through unchanged; only the byte-order/type/SRID
// prefix is rewritten, so Z/M data is never flattened.
func SetSRID(blob []byte, srid int32) ([]byte, error) {
	h, err := ValidatePayload(blob)
	if err != nil {
		return nil, err
	}
	payload := blob[h.DataOffset:]

	typ := h.GeomType
	if h.HasZ {
		typ |= flagZ
	}
	if h.HasM {
		typ |= flagM
	}
	typ |= flagSRID

	out := &writer{}
	if h.LittleEndian {
		out.byte(0x01)
	} else {
		out.byte(0x00)
	}
	order := binary.BigEndian
	if h.LittleEndian {
		writeU32(out, binary.LittleEndian, typ)
		writeU32(out, binary.LittleEndian, uint32(srid))
	} else {
		writeU32(out, order, typ)
		writeU32(out, order, uint32(srid))
	}
	out.buf.Write(payload)
	return out.buf.Bytes(), nil
}

func writeU32(w *writer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}
