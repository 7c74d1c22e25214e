// Package ewkb implements the Extended Well-Known Binary wire format: a
// byte-order marker, a type code carrying Z/M/SRID flag bits, an optional
// SRID, and an ISO-WKB payload. It provides cheap header-only paths
// (ParseHeader, ExtractSRID) alongside full payload validation
// (ValidatePayload) and decode/encode (Parse, Emit), grounded on the
// byte-order and flag-bit handling in a production HANA wire driver's
// internal spatial package, generalized from that driver's per-dimension
// typed geometries to geolite's single runtime-tagged geom.Geometry value.
package ewkb

import (
	"encoding/binary"
	"math"

	"github.com/geolite-go/geolite/geoerr"
)

// Header bit flags within the EWKB type_with_flags u32.
const (
	flagZ    uint32 = 0x80000000
	flagM    uint32 = 0x40000000
	flagSRID uint32 = 0x20000000
	typeMask uint32 = 0x1FFFFFFF
)

// Legacy ISO-WKB dimensionality offsets, accepted on input for
// compatibility (see SPEC_FULL.md's L0 section); geolite never emits them.
const (
	legacyZ  uint32 = 1000
	legacyM  uint32 = 2000
	legacyZM uint32 = 3000
)

// Header is the fully parsed EWKB prefix: everything needed to know what
// follows without decoding the payload.
type Header struct {
	GeomType     uint32 // normalized OGC 1..7 code, legacy offsets removed
	SRID         int32
	HasSRID      bool
	HasZ         bool
	HasM         bool
	DataOffset   int
	LittleEndian bool
}

// ParseHeader reads the byte-order marker, type code and optional SRID from
// the front of blob without touching the payload.
func ParseHeader(blob []byte) (Header, error) {
	if len(blob) < 5 {
		return Header{}, &geoerr.InvalidEwkb{Reason: "blob shorter than 5 bytes"}
	}
	var order binary.ByteOrder
	var littleEndian bool
	switch blob[0] {
	case 0x01:
		order, littleEndian = binary.LittleEndian, true
	case 0x00:
		order, littleEndian = binary.BigEndian, false
	default:
		return Header{}, &geoerr.InvalidEwkb{Reason: "byte-order marker not 0x00 or 0x01"}
	}

	raw := order.Uint32(blob[1:5])
	offset := 5

	hasSRID := raw&flagSRID != 0
	var srid int32
	if hasSRID {
		if len(blob) < 9 {
			return Header{}, &geoerr.InvalidEwkb{Reason: "SRID flag set but fewer than 9 header bytes"}
		}
		srid = int32(order.Uint32(blob[5:9]))
		offset = 9
	}

	hasZ := raw&flagZ != 0
	hasM := raw&flagM != 0
	geomType := raw & typeMask

	// Accept the legacy 1000/2000/3000 dimensionality encoding and
	// normalize it to the flag-bit form for every downstream consumer.
	switch {
	case geomType >= legacyZM && geomType < legacyZM+1000:
		geomType -= legacyZM
		hasZ, hasM = true, true
	case geomType >= legacyM && geomType < legacyM+1000:
		geomType -= legacyM
		hasM = true
	case geomType >= legacyZ && geomType < legacyZ+1000:
		geomType -= legacyZ
		hasZ = true
	}

	return Header{
		GeomType:     geomType,
		SRID:         srid,
		HasSRID:      hasSRID,
		HasZ:         hasZ,
		HasM:         hasM,
		DataOffset:   offset,
		LittleEndian: littleEndian,
	}, nil
}

// ExtractSRID is a cheap metadata probe: it never parses the payload, and
// swallows header errors by returning "no SRID" rather than propagating
// them — the one place the codec silently discards an error, because this
// function exists purely so callers can peek at SRID without committing to
// full validation.
func ExtractSRID(blob []byte) (int32, bool) {
	h, err := ParseHeader(blob)
	if err != nil || !h.HasSRID {
		return 0, false
	}
	return h.SRID, true
}

// GeomTypeName returns the PostGIS-convention name for an OGC type code.
func GeomTypeName(typeCode uint32) string {
	switch typeCode {
	case 1:
		return "ST_Point"
	case 2:
		return "ST_LineString"
	case 3:
		return "ST_Polygon"
	case 4:
		return "ST_MultiPoint"
	case 5:
		return "ST_MultiLineString"
	case 6:
		return "ST_MultiPolygon"
	case 7:
		return "ST_GeometryCollection"
	default:
		return "ST_Unknown"
	}
}

// EnsureMatchingSRID returns the shared SRID under the "absent and zero are
// both unknown" equivalence rule, or an error naming both values.
func EnsureMatchingSRID(a, b *int32) (*int32, error) {
	av, bv := normalizeSRID(a), normalizeSRID(b)
	if av == bv {
		if a != nil {
			return a, nil
		}
		return b, nil
	}
	return nil, geoerr.Invalidf("mismatched SRID: %s vs %s", sridString(a), sridString(b))
}

func normalizeSRID(s *int32) int32 {
	if s == nil {
		return 0
	}
	return *s
}

func sridString(s *int32) string {
	if s == nil {
		return "unknown"
	}
	if *s == 0 {
		return "0"
	}
	return itoa(*s)
}

func itoa(v int32) string {
	// small helper to avoid importing strconv just for this error path
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// IsEmptyPoint reports whether blob is an EWKB Point whose both
// coordinates are NaN, honoring the blob's own endianness. Returns
// InvalidEwkb if the payload is truncated before two coordinates are
// readable.
func IsEmptyPoint(blob []byte) (bool, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return false, err
	}
	if h.GeomType != 1 {
		return false, nil
	}
	coordLen := 16 // XY, 8 bytes each
	if h.HasZ {
		coordLen += 8
	}
	if h.HasM {
		coordLen += 8
	}
	if len(blob) < h.DataOffset+coordLen {
		return false, &geoerr.InvalidEwkb{Reason: "truncated point payload"}
	}
	var order binary.ByteOrder = binary.LittleEndian
	if !h.LittleEndian {
		order = binary.BigEndian
	}
	x := math.Float64frombits(order.Uint64(blob[h.DataOffset : h.DataOffset+8]))
	y := math.Float64frombits(order.Uint64(blob[h.DataOffset+8 : h.DataOffset+16]))
	return math.IsNaN(x) && math.IsNaN(y), nil
}
