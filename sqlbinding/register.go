// Package sqlbinding wires the algebra package's spatial functions into a
// database/sql driver backed by mattn/go-sqlite3, mirroring the
// name/arity/determinism catalog in the catalog package. It is grounded on
// the original engine's raw SQLite C-ABI registration (geolite-sqlite's
// ffi.rs register_functions), adapted to go-sqlite3's higher-level
// SQLiteConn.RegisterFunc surface: NULL propagation, UTF-8 text and
// panic-safety are handled once, in Go, instead of per xfunc callback.
package sqlbinding

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"

	"github.com/geolite-go/geolite/algebra"
	"github.com/geolite-go/geolite/catalog"
)

// Options configures Register. The zero value is valid: it registers the
// "geolite" driver name with slog.Default() as its logger.
type Options struct {
	// DriverName is the database/sql driver name to register under. Each
	// Register call with a distinct DriverName registers independently;
	// calling Register again with a name it has already registered is a
	// no-op.
	DriverName string
	// Logger receives one Debug record per function invocation that
	// returns an error, and one Warn record if a bound function panics.
	// Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DriverName == "" {
		o.DriverName = "geolite"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

var registerOnce sync.Map // driverName -> struct{}, guards double-registration panics

// Register installs a database/sql driver under opts.DriverName (or
// "geolite" by default) that is a plain SQLite3 connection with every
// catalog.Deterministic function bound via SQLiteConn.RegisterFunc. The
// catalog.DirectOnly entries (CreateSpatialIndex, DropSpatialIndex) are
// not bound as SQL functions; they are exported Go functions (see
// index.go). It is idempotent per driver name: calling it
// again with the same name is a no-op rather than a panic, so callers
// don't need a process-wide registration guard of their own.
func Register(opts Options) error {
	opts = opts.withDefaults()
	if _, already := registerOnce.LoadOrStore(opts.DriverName, struct{}{}); already {
		return nil
	}

	logger := opts.Logger
	sql.Register(opts.DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return bindAll(conn, logger)
		},
	})
	return nil
}

// bindAll registers every deterministic function against conn and marks
// the direct-only entries as accounted for without registering them.
// Binding is driven by name, not by iterating catalog.All(), because
// each SQL name maps to a concrete Go closure with its own argument
// shape; the catalog is instead asserted against at the end, so a
// function added to the catalog without a matching entry in steps
// fails loudly at connection time rather than silently going unbound.
func bindAll(conn *sqlite3.SQLiteConn, logger *slog.Logger) error {
	bound := map[string]bool{}
	reg := func(name string, arity int, fn any) error {
		if err := conn.RegisterFunc(name, wrapPanics(logger, name, fn), true); err != nil {
			return fmt.Errorf("sqlbinding: registering %s/%d: %w", name, arity, err)
		}
		bound[catalogKey(name, arity)] = true
		return nil
	}
	regDirect := func(name string, arity int, fn any) error {
		// go-sqlite3 does not expose SQLITE_DIRECTONLY; regDirect registers
		// with pure=false, so SQLite never treats the function as
		// index/generated-column safe. The two DirectOnly catalog rows have
		// a nil fn and never reach it (see the loop below):
		// CreateSpatialIndex/DropSpatialIndex take a *sql.DB directly rather
		// than the scalar-function calling convention, so they cannot be
		// invoked from a trigger or view body at all.
		if err := conn.RegisterFunc(name, wrapPanics(logger, name, fn), false); err != nil {
			return fmt.Errorf("sqlbinding: registering %s/%d: %w", name, arity, err)
		}
		bound[catalogKey(name, arity)] = true
		return nil
	}

	type step struct {
		name  string
		arity int
		fn    any
		reg   func(string, int, any) error
	}
	steps := []step{
		{"ST_GeomFromText", 1, func(t string) ([]byte, error) { return algebra.GeomFromText(t) }, reg},
		{"ST_GeomFromText", 2, func(t string, srid int64) ([]byte, error) { return algebra.GeomFromText(t, int32(srid)) }, reg},
		{"ST_GeomFromWKB", 1, func(b []byte) ([]byte, error) { return algebra.GeomFromWKB(b) }, reg},
		{"ST_GeomFromWKB", 2, func(b []byte, srid int64) ([]byte, error) { return algebra.GeomFromWKB(b, int32(srid)) }, reg},
		{"ST_GeomFromEWKB", 1, algebra.GeomFromEWKB, reg},
		{"ST_GeomFromGeoJSON", 1, func(t string) ([]byte, error) { return algebra.GeomFromGeoJSON(normalizeUTF8(t)) }, reg},
		{"ST_AsText", 1, algebra.AsText, reg},
		{"ST_AsEWKT", 1, algebra.AsEWKT, reg},
		{"ST_AsBinary", 1, algebra.AsBinary, reg},
		{"ST_AsEWKB", 1, algebra.AsEWKB, reg},
		{"ST_AsGeoJSON", 1, func(b []byte) (string, error) {
			j, err := algebra.AsGeoJSON(b)
			return string(j), err
		}, reg},

		{"ST_Point", 2, func(x, y float64) ([]byte, error) { return algebra.Point(x, y, nil) }, reg},
		{"ST_Point", 3, func(x, y float64, srid int64) ([]byte, error) {
			s := int32(srid)
			return algebra.Point(x, y, &s)
		}, reg},
		{"ST_MakePoint", 2, func(x, y float64) ([]byte, error) { return algebra.Point(x, y, nil) }, reg},
		{"ST_MakeLine", 2, algebra.MakeLine, reg},
		{"ST_MakePolygon", 1, algebra.MakePolygon, reg},
		{"ST_MakeEnvelope", 4, func(xmin, ymin, xmax, ymax float64) ([]byte, error) {
			return algebra.MakeEnvelope(xmin, ymin, xmax, ymax, nil)
		}, reg},
		{"ST_MakeEnvelope", 5, func(xmin, ymin, xmax, ymax float64, srid int64) ([]byte, error) {
			s := int32(srid)
			return algebra.MakeEnvelope(xmin, ymin, xmax, ymax, &s)
		}, reg},
		{"ST_Collect", 2, algebra.Collect, reg},
		{"ST_TileEnvelope", 3, func(z, x, y int64) ([]byte, error) { return algebra.TileEnvelope(z, x, y) }, reg},

		{"ST_SRID", 1, func(b []byte) (int64, error) { v, err := algebra.SRID(b); return int64(v), err }, reg},
		{"ST_SetSRID", 2, func(b []byte, srid int64) ([]byte, error) { return algebra.SetSRID(b, int32(srid)) }, reg},
		{"ST_GeometryType", 1, algebra.GeometryType, reg},
		{"GeometryType", 1, algebra.GeometryType, reg},
		{"ST_NDims", 1, func(b []byte) (int64, error) { v, err := algebra.NDims(b); return int64(v), err }, reg},
		{"ST_CoordDim", 1, func(b []byte) (int64, error) { v, err := algebra.CoordDim(b); return int64(v), err }, reg},
		{"ST_Zmflag", 1, func(b []byte) (int64, error) { v, err := algebra.Zmflag(b); return int64(v), err }, reg},
		{"ST_IsEmpty", 1, algebra.IsEmpty, reg},
		{"ST_MemSize", 1, func(b []byte) (int64, error) { return algebra.MemSize(b), nil }, reg},
		{"ST_X", 1, func(b []byte) (any, error) {
			v, ok, err := algebra.X(b)
			if err != nil || !ok {
				return nil, err
			}
			return v, nil
		}, reg},
		{"ST_Y", 1, func(b []byte) (any, error) {
			v, ok, err := algebra.Y(b)
			if err != nil || !ok {
				return nil, err
			}
			return v, nil
		}, reg},
		{"ST_NumPoints", 1, func(b []byte) (int64, error) { v, err := algebra.NumPoints(b); return int64(v), err }, reg},
		{"ST_NPoints", 1, func(b []byte) (int64, error) { v, err := algebra.NPoints(b); return int64(v), err }, reg},
		{"ST_NumGeometries", 1, func(b []byte) (int64, error) { v, err := algebra.NumGeometries(b); return int64(v), err }, reg},
		{"ST_NumInteriorRings", 1, func(b []byte) (int64, error) { v, err := algebra.NumInteriorRings(b); return int64(v), err }, reg},
		{"ST_NumInteriorRing", 1, func(b []byte) (int64, error) { v, err := algebra.NumInteriorRings(b); return int64(v), err }, reg},
		{"ST_NumRings", 1, func(b []byte) (int64, error) { v, err := algebra.NumRings(b); return int64(v), err }, reg},
		{"ST_PointN", 2, func(b []byte, n int64) ([]byte, error) {
			v, _, err := algebra.PointN(b, int32(n))
			return v, err
		}, reg},
		{"ST_StartPoint", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.StartPoint(b); return v, err }, reg},
		{"ST_EndPoint", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.EndPoint(b); return v, err }, reg},
		{"ST_ExteriorRing", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.ExteriorRing(b); return v, err }, reg},
		{"ST_InteriorRingN", 2, func(b []byte, n int64) ([]byte, error) {
			v, _, err := algebra.InteriorRingN(b, int32(n))
			return v, err
		}, reg},
		{"ST_GeometryN", 2, func(b []byte, n int64) ([]byte, error) {
			v, _, err := algebra.GeometryN(b, int32(n))
			return v, err
		}, reg},
		{"ST_Dimension", 1, func(b []byte) (int64, error) { v, err := algebra.Dimension(b); return int64(v), err }, reg},
		{"ST_Envelope", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.Envelope(b); return v, err }, reg},
		{"ST_IsValid", 1, algebra.IsValid, reg},
		{"ST_IsValidReason", 1, algebra.IsValidReason, reg},

		{"ST_Area", 1, algebra.Area, reg},
		{"ST_Length", 1, algebra.Length, reg},
		{"ST_Length2D", 1, algebra.Length, reg},
		{"ST_Perimeter", 1, algebra.Perimeter, reg},
		{"ST_Perimeter2D", 1, algebra.Perimeter, reg},
		{"ST_Distance", 2, algebra.Distance, reg},
		{"ST_Centroid", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.Centroid(b); return v, err }, reg},
		{"ST_PointOnSurface", 1, func(b []byte) ([]byte, error) { v, _, err := algebra.PointOnSurface(b); return v, err }, reg},
		{"ST_ClosestPoint", 2, func(a, b []byte) ([]byte, error) { v, _, err := algebra.ClosestPoint(a, b); return v, err }, reg},
		{"ST_HausdorffDistance", 2, algebra.HausdorffDistance, reg},
		{"ST_XMin", 1, algebra.XMin, reg},
		{"ST_XMax", 1, algebra.XMax, reg},
		{"ST_YMin", 1, algebra.YMin, reg},
		{"ST_YMax", 1, algebra.YMax, reg},
		{"ST_DistanceSphere", 2, algebra.DistanceSphere, reg},
		{"ST_DistanceSpheroid", 2, algebra.DistanceSpheroid, reg},
		{"ST_LengthSphere", 1, algebra.LengthSphere, reg},
		{"ST_Azimuth", 2, algebra.Azimuth, reg},
		{"ST_Project", 3, func(p []byte, dist, az float64) ([]byte, error) { v, _, err := algebra.Project(p, dist, az); return v, err }, reg},

		{"ST_Union", 2, algebra.Union, reg},
		{"ST_Intersection", 2, algebra.Intersection, reg},
		{"ST_Difference", 2, algebra.Difference, reg},
		{"ST_SymDifference", 2, algebra.SymDifference, reg},
		{"ST_Buffer", 2, algebra.Buffer, reg},

		{"ST_Intersects", 2, algebra.Intersects, reg},
		{"ST_Contains", 2, algebra.Contains, reg},
		{"ST_Within", 2, algebra.Within, reg},
		{"ST_Disjoint", 2, algebra.Disjoint, reg},
		{"ST_DWithin", 3, algebra.DWithin, reg},
		{"ST_Covers", 2, algebra.Covers, reg},
		{"ST_CoveredBy", 2, algebra.CoveredBy, reg},
		{"ST_Equals", 2, algebra.Equals, reg},
		{"ST_Touches", 2, algebra.Touches, reg},
		{"ST_Crosses", 2, algebra.Crosses, reg},
		{"ST_Overlaps", 2, algebra.Overlaps, reg},
		{"ST_Relate", 2, func(a, b []byte) (string, error) { return algebra.Relate(a, b) }, reg},
		{"ST_Relate", 3, func(a, b []byte, pattern string) (string, error) { return algebra.Relate(a, b, pattern) }, reg},
		{"ST_RelateMatch", 2, algebra.RelateMatch, reg},

		{"CreateSpatialIndex", 2, nil, regDirect},
		{"DropSpatialIndex", 2, nil, regDirect},
	}

	for _, s := range steps {
		if s.fn == nil {
			// CreateSpatialIndex/DropSpatialIndex are DDL helpers invoked
			// through exported Go functions against *sql.DB/*sql.Tx
			// directly (see index.go); they are not scalar SQL functions
			// and are listed here only so the catalog-completeness
			// assertion below accounts for them.
			bound[catalogKey(s.name, s.arity)] = true
			continue
		}
		if err := s.reg(s.name, s.arity, s.fn); err != nil {
			return err
		}
	}

	for _, spec := range catalog.All() {
		if !bound[catalogKey(spec.Name, spec.Arity)] {
			return fmt.Errorf("sqlbinding: catalog entry %s/%d has no bound implementation", spec.Name, spec.Arity)
		}
	}
	return nil
}

func catalogKey(name string, arity int) string {
	return fmt.Sprintf("%s@%d", name, arity)
}

// wrapPanics recovers a panicking bound function, converting it into a
// returned error so a single malformed row can never bring down the
// SQLite connection (and, transitively, the whole process) — the same
// boundary the original FFI layer enforced by never letting a Rust panic
// unwind across the C ABI.
func wrapPanics(logger *slog.Logger, name string, fn any) any {
	switch f := fn.(type) {
	case func([]byte) ([]byte, error):
		return func(b []byte) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte) (string, error):
		return func(b []byte) (v string, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte) (float64, error):
		return func(b []byte) (v float64, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte) (int64, error):
		return func(b []byte) (v int64, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte) (bool, error):
		return func(b []byte) (v bool, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte) (any, error):
		return func(b []byte) (v any, err error) {
			defer recoverInto(logger, name, &err)
			return f(b)
		}
	case func([]byte, []byte) ([]byte, error):
		return func(a, b []byte) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b)
		}
	case func([]byte, []byte) (float64, error):
		return func(a, b []byte) (v float64, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b)
		}
	case func([]byte, []byte) (bool, error):
		return func(a, b []byte) (v bool, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b)
		}
	case func([]byte, []byte) (string, error):
		return func(a, b []byte) (v string, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b)
		}
	case func([]byte, []byte, string) (string, error):
		return func(a, b []byte, p string) (v string, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b, p)
		}
	case func([]byte, []byte, float64) (bool, error):
		return func(a, b []byte, d float64) (v bool, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b, d)
		}
	case func(string, string) (bool, error):
		return func(a, b string) (v bool, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b)
		}
	case func([]byte, int64) ([]byte, error):
		return func(b []byte, n int64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(b, n)
		}
	case func(string) ([]byte, error):
		return func(t string) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(t)
		}
	case func(string, int64) ([]byte, error):
		return func(t string, srid int64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(t, srid)
		}
	case func(float64, float64) ([]byte, error):
		return func(x, y float64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(x, y)
		}
	case func(float64, float64, int64) ([]byte, error):
		return func(x, y float64, srid int64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(x, y, srid)
		}
	case func(float64, float64, float64, float64) ([]byte, error):
		return func(a, b, c, d float64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b, c, d)
		}
	case func(float64, float64, float64, float64, int64) ([]byte, error):
		return func(a, b, c, d float64, srid int64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b, c, d, srid)
		}
	case func(int64, int64, int64) ([]byte, error):
		return func(a, b, c int64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(a, b, c)
		}
	case func([]byte, float64) ([]byte, error):
		return func(b []byte, d float64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(b, d)
		}
	case func([]byte, float64, float64) ([]byte, error):
		return func(b []byte, d, az float64) (v []byte, err error) {
			defer recoverInto(logger, name, &err)
			return f(b, d, az)
		}
	case func(string) (string, error):
		return func(t string) (v string, err error) {
			defer recoverInto(logger, name, &err)
			return f(t)
		}
	default:
		return fn
	}
}

func recoverInto(logger *slog.Logger, name string, errp *error) {
	if r := recover(); r != nil {
		logger.Warn("sqlbinding: function panicked", "function", name, "recovered", r)
		*errp = fmt.Errorf("%s: internal error: %v", name, r)
	} else if *errp != nil {
		logger.Debug("sqlbinding: function returned error", "function", name, "error", *errp)
	}
}

// normalizeUTF8 applies NFC normalization so callers comparing or storing
// externally-sourced GeoJSON text see canonically composed UTF-8,
// matching the SQLITE_UTF8 encoding contract every bound function
// declares.
func normalizeUTF8(s string) []byte {
	return norm.NFC.Bytes([]byte(s))
}
