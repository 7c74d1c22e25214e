package algebra

import (
	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geojson"
	"github.com/geolite-go/geolite/wkt"
)

// defaultGeoJSONSRID is the SRID GeomFromGeoJSON assigns to decoded
// geometries, since RFC 7946 coordinates are always WGS-84 and the format
// carries no SRID field of its own.
const defaultGeoJSONSRID int32 = 4326

// GeomFromText parses a WKT or EWKT string into an EWKB blob. An optional
// srid argument overrides an "SRID=" prefix embedded in text; the two are
// not compared.
func GeomFromText(text string, srid ...int32) ([]byte, error) {
	g, parsedSRID, err := wkt.Parse(text)
	if err != nil {
		return nil, err
	}
	effective := parsedSRID
	if len(srid) > 0 {
		v := srid[0]
		effective = &v
	}
	return ewkb.Emit(g, effective), nil
}

// GeomFromWKB wraps a plain (non-extended) WKB blob into EWKB, optionally
// assigning an srid.
func GeomFromWKB(blob []byte, srid ...int32) ([]byte, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	var effective *int32
	if len(srid) > 0 {
		v := srid[0]
		effective = &v
	}
	return ewkb.Emit(g, effective), nil
}

// GeomFromEWKB validates and normalizes an already-extended WKB blob.
func GeomFromEWKB(blob []byte) ([]byte, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	return ewkb.Emit(g, srid), nil
}

// GeomFromGeoJSON parses RFC 7946 GeoJSON, assigning SRID 4326.
func GeomFromGeoJSON(data []byte) ([]byte, error) {
	g, err := geojson.Parse([]byte(data))
	if err != nil {
		return nil, err
	}
	srid := defaultGeoJSONSRID
	return ewkb.Emit(g, &srid), nil
}

// AsText renders blob as WKT, dropping any SRID.
func AsText(blob []byte) (string, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return "", err
	}
	return wkt.Encode(g), nil
}

// AsEWKT renders blob as EWKT, carrying its SRID as an "SRID=" prefix when
// present.
func AsEWKT(blob []byte) (string, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return "", err
	}
	return wkt.EncodeEWKT(g, srid), nil
}

// AsBinary renders blob as plain ISO-WKB, dropping any SRID.
func AsBinary(blob []byte) ([]byte, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	return ewkb.Emit(g, nil), nil
}

// AsEWKB re-serializes blob as canonical little-endian EWKB, preserving
// its SRID.
func AsEWKB(blob []byte) ([]byte, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	return ewkb.Emit(g, srid), nil
}

// AsGeoJSON renders blob as RFC 7946 GeoJSON. SRID is not represented in
// the output, matching the format's WGS-84-only coordinate contract.
func AsGeoJSON(blob []byte) ([]byte, error) {
	g, _, err := ewkb.Parse(blob)
	if err != nil {
		return nil, err
	}
	return geojson.Encode(g)
}
