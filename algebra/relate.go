package algebra

import (
	"strings"

	"github.com/geolite-go/geolite/emptiness"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// classify reports which part of g (interior 'I', boundary 'B', or
// exterior 'E') a point belongs to.
func classify(g geom.Geometry, p geom.Point) byte {
	in, on := geometryContainsPoint(g, p)
	switch {
	case on:
		return 'B'
	case in:
		return 'I'
	default:
		return 'E'
	}
}

// dims9 is the nine DE-9IM cells in row-major (I,B,E) x (I,B,E) order.
type dims9 [9]byte

func (d dims9) String() string { return string(d[:]) }

func setMax(cell *byte, dim byte) {
	rank := func(c byte) int {
		switch c {
		case 'F':
			return -1
		case '0':
			return 0
		case '1':
			return 1
		case '2':
			return 2
		}
		return -1
	}
	if rank(dim) > rank(*cell) {
		*cell = dim
	}
}

// relateMatrix computes a DE-9IM matrix for two non-empty geometries using
// point/segment sampling: every vertex and segment midpoint of each
// operand is classified against the other's interior/boundary/exterior,
// and the highest-dimension contact observed in each cell wins. This is
// exact for the point, line and polygon combinations this engine supports
// when operands don't share partial-segment overlaps finer than their own
// vertex sampling; it is the same sampling strategy Intersects/Contains
// already rely on elsewhere in this package.
func relateMatrix(ga, gb geom.Geometry) dims9 {
	m := dims9{'F', 'F', 'F', 'F', 'F', 'F', 'F', 'F', 'F'}
	da, db := geom.Dimension(ga), geom.Dimension(gb)

	cellIndex := func(rowPart, colPart byte) int {
		row := map[byte]int{'I': 0, 'B': 1, 'E': 2}[rowPart]
		col := map[byte]int{'I': 0, 'B': 1, 'E': 2}[colPart]
		return row*3 + col
	}
	dimOf := func(d int) byte {
		switch d {
		case 0:
			return '0'
		case 1:
			return '1'
		default:
			return '2'
		}
	}

	sampleAgainst := func(pts []geom.Point, self geom.Geometry, other geom.Geometry, selfDim int, rowIsA bool) {
		for _, p := range pts {
			selfPart := classify(self, p)
			otherPart := classify(other, p)
			if selfPart == 'E' {
				continue
			}
			var idx int
			if rowIsA {
				idx = cellIndex(selfPart, otherPart)
			} else {
				idx = cellIndex(otherPart, selfPart)
			}
			d := selfDim
			if selfPart == 'B' {
				d = 0
			}
			setMax(&m[idx], dimOf(d))
		}
	}

	sampleAgainst(allPoints(ga), ga, gb, da, true)
	sampleAgainst(allPoints(gb), gb, ga, db, false)

	aSegs, bSegs := allSegments(ga), allSegments(gb)
	for _, s := range aSegs {
		mid := geom.Point{X: (s[0].X + s[1].X) / 2, Y: (s[0].Y + s[1].Y) / 2}
		selfPart := byte('I')
		otherPart := classify(gb, mid)
		setMax(&m[cellIndex(selfPart, otherPart)], dimOf(da))
	}
	for _, s := range bSegs {
		mid := geom.Point{X: (s[0].X + s[1].X) / 2, Y: (s[0].Y + s[1].Y) / 2}
		selfPart := byte('I')
		otherPart := classify(ga, mid)
		setMax(&m[cellIndex(otherPart, selfPart)], dimOf(db))
	}

	bba, bbb := geom.Envelope(ga), geom.Envelope(gb)
	if bboxesOverlap(bba, bbb) {
		exteriorDim := byte('2')
		if m[cellIndex('E', 'E')] == 'F' {
			m[cellIndex('E', 'E')] = exteriorDim
		}
	} else {
		m[cellIndex('E', 'E')] = '2'
	}

	return m
}

// Relate computes the DE-9IM intersection matrix of a and b, or, when
// pattern is supplied, reports whether their matrix matches it.
func Relate(a, b []byte, pattern ...string) (string, error) {
	ga, gb, err := parsePredicatePair(a, b)
	if err != nil {
		return "", err
	}
	var matrix string
	if emptiness.IsEmpty(ga) || emptiness.IsEmpty(gb) {
		matrix = "FFFFFFFF2"
	} else {
		matrix = relateMatrix(ga, gb).String()
	}
	if len(pattern) == 0 {
		return matrix, nil
	}
	if len(pattern) > 1 {
		return "", geoerr.Invalidf("ST_Relate: at most one pattern argument allowed")
	}
	ok, err := RelateMatch(matrix, pattern[0])
	if err != nil {
		return "", err
	}
	if ok {
		return matrix, nil
	}
	return "", nil
}

// matrixAlphabet and patternAlphabet are the DE-9IM symbol sets: a
// computed matrix uses {F,0,1,2}; a pattern additionally allows T and *.
const matrixAlphabet = "F012"
const patternAlphabet = "TF012*"

// RelateMatch reports whether a 9-character DE-9IM matrix satisfies a
// 9-character pattern using the {T,F,0,1,2,*} pattern alphabet.
func RelateMatch(matrix, pattern string) (bool, error) {
	if len(matrix) != 9 {
		return false, geoerr.Invalidf("ST_RelateMatch: matrix must be 9 characters, got %d", len(matrix))
	}
	if len(pattern) != 9 {
		return false, geoerr.Invalidf("ST_RelateMatch: pattern must be 9 characters, got %d", len(pattern))
	}
	for i := 0; i < 9; i++ {
		mc := matrix[i]
		pc := pattern[i]
		if strings.IndexByte(matrixAlphabet, mc) < 0 {
			return false, geoerr.Invalidf("ST_RelateMatch: invalid matrix character %q at position %d", mc, i)
		}
		if strings.IndexByte(patternAlphabet, pc) < 0 {
			return false, geoerr.Invalidf("ST_RelateMatch: invalid pattern character %q at position %d", pc, i)
		}
		switch pc {
		case '*':
			continue
		case 'T':
			if mc == 'F' {
				return false, nil
			}
		default:
			if mc != pc {
				return false, nil
			}
		}
	}
	return true, nil
}
