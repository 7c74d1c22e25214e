// Package orm adapts geolite's EWKB blobs to GORM's Valuer/Scanner
// contract, grounded on restayway-gogis's Point type (Scan reading raw
// driver bytes, Value writing back out) generalized from that package's
// per-shape Lng/Lat struct to a single opaque Geometry wrapper around an
// EWKB payload, since geolite already has a full codec and gains nothing
// from re-deriving per-field accessors here.
package orm

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/geolite-go/geolite/algebra"
	"github.com/geolite-go/geolite/catalog"
)

// Geometry is a GORM column type holding a raw EWKB payload. Store it as
// a struct field tagged `gorm:"type:blob"` (SQLite has no native geometry
// column type, unlike restayway-gogis's target backend) and query it
// through the bound ST_* SQL functions.
type Geometry struct {
	EWKB []byte
}

var (
	_ driver.Valuer                  = Geometry{}
	_ sql.Scanner                    = (*Geometry)(nil)
	_ schema.GormDataTypeInterface   = Geometry{}
	_ schema.GormDBDataTypeInterface = Geometry{}
)

// Scan implements sql.Scanner, accepting the []byte a BLOB column yields.
func (g *Geometry) Scan(val any) error {
	if val == nil {
		g.EWKB = nil
		return nil
	}
	b, ok := val.([]byte)
	if !ok {
		return fmt.Errorf("orm: Geometry.Scan: unsupported source type %T", val)
	}
	g.EWKB = append([]byte(nil), b...)
	return nil
}

// Value implements driver.Valuer, writing the raw EWKB bytes back out.
func (g Geometry) Value() (driver.Value, error) {
	if g.EWKB == nil {
		return nil, nil
	}
	return g.EWKB, nil
}

// GormDataType reports the portable GORM type name used when no
// dialect-specific override applies.
func (Geometry) GormDataType() string { return "geolite_geometry" }

// GormDBDataType reports the concrete column type GORM should generate
// when migrating a struct field of this type: SQLite has no native
// geometry type, so every Geometry column is a BLOB of EWKB bytes.
func (Geometry) GormDBDataType(*gorm.DB, *schema.Field) string { return "BLOB" }

// AsText renders the wrapped EWKB payload as WKT, mirroring
// restayway-gogis's Point.String WKT convenience method.
func (g Geometry) AsText() (string, error) {
	return algebra.AsText(g.EWKB)
}

// FunctionDescriptor is an ORM-facing view of a catalog.FunctionSpec: the
// same (name, arity) identity, plus a formatted SQL call template GORM
// users can drop into a Raw/Clauses expression.
type FunctionDescriptor struct {
	Name      string
	Arity     int
	Direct    bool
	CallShape string
}

// FunctionDescriptors returns every catalog entry as a FunctionDescriptor,
// in the catalog's own deterministic-then-direct-only order.
func FunctionDescriptors() []FunctionDescriptor {
	specs := catalog.All()
	out := make([]FunctionDescriptor, len(specs))
	for i, s := range specs {
		out[i] = FunctionDescriptor{
			Name:      s.Name,
			Arity:     s.Arity,
			Direct:    s.Direct,
			CallShape: callShape(s),
		}
	}
	return out
}

func callShape(s catalog.FunctionSpec) string {
	args := ""
	for i := 0; i < s.Arity; i++ {
		if i > 0 {
			args += ", "
		}
		args += "?"
	}
	return fmt.Sprintf("%s(%s)", s.Name, args)
}
