// Package wkt implements Well-Known Text and Extended Well-Known Text
// encoding and parsing for the seven OGC geometry variants, grounded on the
// teacher driver's driver/spatial/wkt.go buffer-writer idiom (type name,
// bracketed coordinate lists, recursive EMPTY handling) generalized from
// its sixteen Z/M-suffixed Go types to geolite's single XY-only
// geom.Geometry value plus an explicit POINT EMPTY special case.
package wkt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

func typeName(g geom.Geometry) string {
	switch g.(type) {
	case geom.Point:
		return "POINT"
	case geom.LineString:
		return "LINESTRING"
	case geom.Polygon, geom.Rect, geom.Triangle:
		return "POLYGON"
	case geom.MultiPoint:
		return "MULTIPOINT"
	case geom.MultiLineString:
		return "MULTILINESTRING"
	case geom.MultiPolygon:
		return "MULTIPOLYGON"
	case geom.GeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return "GEOMETRY"
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

type buffer struct{ bytes.Buffer }

func (b *buffer) coord(p geom.Point) {
	b.WriteString(formatFloat(p.X))
	b.WriteByte(' ')
	b.WriteString(formatFloat(p.Y))
}

func (b *buffer) ring(pts []geom.Point) {
	b.WriteByte('(')
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.coord(p)
	}
	b.WriteByte(')')
}

// writeBody writes the "(...)" or "EMPTY" body for g, without the leading
// type name — used both at the top level and for collection members, which
// carry their own type name per the OGC text grammar.
func writeBody(b *buffer, g geom.Geometry) {
	if emptiness.IsEmpty(g) {
		b.WriteString("EMPTY")
		return
	}
	switch v := g.(type) {
	case geom.Point:
		b.WriteByte('(')
		b.coord(v)
		b.WriteByte(')')
	case geom.LineString:
		b.ring(v.Points)
	case geom.Polygon:
		b.WriteByte('(')
		for i, r := range v.Rings {
			if i > 0 {
				b.WriteByte(',')
			}
			b.ring(r)
		}
		b.WriteByte(')')
	case geom.Rect:
		writeBody(b, v.AsPolygon())
	case geom.Triangle:
		writeBody(b, v.AsPolygon())
	case geom.MultiPoint:
		b.WriteByte('(')
		for i, p := range v.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			b.ring([]geom.Point{p})
		}
		b.WriteByte(')')
	case geom.MultiLineString:
		b.WriteByte('(')
		for i, ls := range v.Lines {
			if i > 0 {
				b.WriteByte(',')
			}
			b.ring(ls.Points)
		}
		b.WriteByte(')')
	case geom.MultiPolygon:
		b.WriteByte('(')
		for i, p := range v.Polygons {
			if i > 0 {
				b.WriteByte(',')
			}
			writeBody(b, p)
		}
		b.WriteByte(')')
	case geom.GeometryCollection:
		b.WriteByte('(')
		for i, sub := range v.Geometries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(typeName(sub))
			b.WriteByte(' ')
			writeBody(b, sub)
		}
		b.WriteByte(')')
	}
}

// Encode renders g as OGC WKT, e.g. "POLYGON ((0 0,1 0,1 1,0 1,0 0))" or
// "POINT EMPTY".
func Encode(g geom.Geometry) string {
	b := &buffer{}
	b.WriteString(typeName(g))
	if emptiness.IsEmpty(g) {
		b.WriteString(" EMPTY")
		return b.String()
	}
	b.WriteByte(' ')
	writeBody(b, g)
	return b.String()
}

// EncodeEWKT renders g as EWKT: an "SRID=n;" prefix followed by WKT.
func EncodeEWKT(g geom.Geometry, srid *int32) string {
	if srid == nil {
		return Encode(g)
	}
	return fmt.Sprintf("SRID=%d;%s", *srid, Encode(g))
}

// Parse reads WKT or EWKT text into a geometry plus optional SRID. It
// recognizes "POINT EMPTY" and the empty forms of every other variant.
func Parse(text string) (geom.Geometry, *int32, error) {
	text = strings.TrimSpace(text)
	var srid *int32
	if strings.HasPrefix(strings.ToUpper(text), "SRID=") {
		idx := strings.IndexByte(text, ';')
		if idx < 0 {
			return nil, nil, geoerr.Invalidf("malformed EWKT: missing ';' after SRID")
		}
		n, err := strconv.ParseInt(text[5:idx], 10, 32)
		if err != nil {
			return nil, nil, geoerr.Invalidf("malformed EWKT SRID: %v", err)
		}
		v := int32(n)
		srid = &v
		text = strings.TrimSpace(text[idx+1:])
	}
	p := &parser{s: text}
	g, err := p.geometry()
	if err != nil {
		return nil, nil, err
	}
	return g, srid, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t' || p.s[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) && isWordChar(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func isWordChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func (p *parser) expect(b byte) error {
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != b {
		return geoerr.Invalidf("malformed WKT: expected %q at position %d", b, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) peek(b byte) bool {
	p.skipSpace()
	return p.pos < len(p.s) && p.s[p.pos] == b
}

func (p *parser) isEmpty() bool {
	save := p.pos
	p.skipSpace()
	if strings.HasPrefix(strings.ToUpper(p.s[p.pos:]), "EMPTY") {
		p.pos += 5
		return true
	}
	p.pos = save
	return false
}

func (p *parser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, geoerr.Invalidf("malformed WKT: expected number at position %d", p.pos)
	}
	return strconv.ParseFloat(p.s[start:p.pos], 64)
}

func (p *parser) coord() (geom.Point, error) {
	x, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	// silently skip any further Z/M ordinates; compute paths are XY-only
	for !p.peek(',') && !p.peek(')') {
		if _, err := p.number(); err != nil {
			return geom.Point{}, err
		}
	}
	return geom.Point{X: x, Y: y}, nil
}

func (p *parser) coordList() ([]geom.Point, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var pts []geom.Point
	for {
		c, err := p.coord()
		if err != nil {
			return nil, err
		}
		pts = append(pts, c)
		if p.peek(',') {
			p.pos++
			continue
		}
		break
	}
	return pts, p.expect(')')
}

func (p *parser) ringList() ([][]geom.Point, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var rings [][]geom.Point
	for {
		r, err := p.coordList()
		if err != nil {
			return nil, err
		}
		rings = append(rings, r)
		if p.peek(',') {
			p.pos++
			continue
		}
		break
	}
	return rings, p.expect(')')
}

func (p *parser) geometry() (geom.Geometry, error) {
	kw := strings.ToUpper(p.word())
	switch kw {
	case "POINT":
		if p.isEmpty() {
			return geom.EmptyPoint(), nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		c, err := p.coord()
		if err != nil {
			return nil, err
		}
		return c, p.expect(')')
	case "LINESTRING":
		if p.isEmpty() {
			return geom.LineString{}, nil
		}
		pts, err := p.coordList()
		if err != nil {
			return nil, err
		}
		return geom.LineString{Points: pts}, nil
	case "POLYGON":
		if p.isEmpty() {
			return geom.Polygon{}, nil
		}
		rings, err := p.ringList()
		if err != nil {
			return nil, err
		}
		return geom.Polygon{Rings: rings}, nil
	case "MULTIPOINT":
		if p.isEmpty() {
			return geom.MultiPoint{}, nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var pts []geom.Point
		for {
			p.skipSpace()
			hasParen := p.peek('(')
			if hasParen {
				p.pos++
			}
			c, err := p.coord()
			if err != nil {
				return nil, err
			}
			if hasParen {
				if err := p.expect(')'); err != nil {
					return nil, err
				}
			}
			pts = append(pts, c)
			if p.peek(',') {
				p.pos++
				continue
			}
			break
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return geom.MultiPoint{Points: pts}, nil
	case "MULTILINESTRING":
		if p.isEmpty() {
			return geom.MultiLineString{}, nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var lines []geom.LineString
		for {
			pts, err := p.coordList()
			if err != nil {
				return nil, err
			}
			lines = append(lines, geom.LineString{Points: pts})
			if p.peek(',') {
				p.pos++
				continue
			}
			break
		}
		return geom.MultiLineString{Lines: lines}, p.expect(')')
	case "MULTIPOLYGON":
		if p.isEmpty() {
			return geom.MultiPolygon{}, nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var polys []geom.Polygon
		for {
			rings, err := p.ringList()
			if err != nil {
				return nil, err
			}
			polys = append(polys, geom.Polygon{Rings: rings})
			if p.peek(',') {
				p.pos++
				continue
			}
			break
		}
		return geom.MultiPolygon{Polygons: polys}, p.expect(')')
	case "GEOMETRYCOLLECTION":
		if p.isEmpty() {
			return geom.GeometryCollection{}, nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var geoms []geom.Geometry
		for {
			g, err := p.geometry()
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, g)
			if p.peek(',') {
				p.pos++
				continue
			}
			break
		}
		return geom.GeometryCollection{Geometries: geoms}, p.expect(')')
	default:
		return nil, geoerr.Invalidf("unrecognized WKT type %q", kw)
	}
}
