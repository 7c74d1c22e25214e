// Package catalog is the compile-time table of (name, arity, determinism)
// tuples shared by every binding layer, ported from the original geolite
// crate's function_catalog.rs deterministic/direct-only function tables.
package catalog

// FunctionSpec is a single (name, arity) catalog row. Rows sharing a Name
// with different Arity (e.g. ST_Point/2 and ST_Point/3) are distinct
// entries with independent implementations unless Alias names another row
// to delegate to.
type FunctionSpec struct {
	Name  string
	Arity int
	// Direct marks a SQLITE_DIRECTONLY function: forbidden from triggers
	// and views. Only the two spatial-index DDL helpers set this.
	Direct bool
	// Alias, if non-empty, names the canonical catalog entry (Name@Arity
	// form, e.g. "ST_Point@2") that implements this row; used for the
	// PostGIS-compatible aliases spec.md §4.4 lists.
	Alias string
}

// Deterministic is the ~90-entry catalog of deterministic scalar
// functions: I/O, constructors, accessors, measurement, operations and
// predicates. Safe to invoke from indexes and views.
var Deterministic = []FunctionSpec{
	// I/O
	{Name: "ST_GeomFromText", Arity: 1},
	{Name: "ST_GeomFromText", Arity: 2},
	{Name: "ST_GeomFromWKB", Arity: 1},
	{Name: "ST_GeomFromWKB", Arity: 2},
	{Name: "ST_GeomFromEWKB", Arity: 1},
	{Name: "ST_GeomFromGeoJSON", Arity: 1},
	{Name: "ST_AsText", Arity: 1},
	{Name: "ST_AsEWKT", Arity: 1},
	{Name: "ST_AsBinary", Arity: 1},
	{Name: "ST_AsEWKB", Arity: 1},
	{Name: "ST_AsGeoJSON", Arity: 1},

	// Constructors
	{Name: "ST_Point", Arity: 2},
	{Name: "ST_Point", Arity: 3},
	{Name: "ST_MakePoint", Arity: 2, Alias: "ST_Point@2"},
	{Name: "ST_MakeLine", Arity: 2},
	{Name: "ST_MakePolygon", Arity: 1},
	{Name: "ST_MakeEnvelope", Arity: 4},
	{Name: "ST_MakeEnvelope", Arity: 5},
	{Name: "ST_Collect", Arity: 2},
	{Name: "ST_TileEnvelope", Arity: 3},

	// Accessors
	{Name: "ST_SRID", Arity: 1},
	{Name: "ST_SetSRID", Arity: 2},
	{Name: "ST_GeometryType", Arity: 1},
	{Name: "GeometryType", Arity: 1, Alias: "ST_GeometryType@1"},
	{Name: "ST_NDims", Arity: 1},
	{Name: "ST_CoordDim", Arity: 1},
	{Name: "ST_Zmflag", Arity: 1},
	{Name: "ST_IsEmpty", Arity: 1},
	{Name: "ST_MemSize", Arity: 1},
	{Name: "ST_X", Arity: 1},
	{Name: "ST_Y", Arity: 1},
	{Name: "ST_NumPoints", Arity: 1},
	{Name: "ST_NPoints", Arity: 1},
	{Name: "ST_NumGeometries", Arity: 1},
	{Name: "ST_NumInteriorRings", Arity: 1},
	{Name: "ST_NumInteriorRing", Arity: 1, Alias: "ST_NumInteriorRings@1"},
	{Name: "ST_NumRings", Arity: 1},
	{Name: "ST_PointN", Arity: 2},
	{Name: "ST_StartPoint", Arity: 1},
	{Name: "ST_EndPoint", Arity: 1},
	{Name: "ST_ExteriorRing", Arity: 1},
	{Name: "ST_InteriorRingN", Arity: 2},
	{Name: "ST_GeometryN", Arity: 2},
	{Name: "ST_Dimension", Arity: 1},
	{Name: "ST_Envelope", Arity: 1},
	{Name: "ST_IsValid", Arity: 1},
	{Name: "ST_IsValidReason", Arity: 1},

	// Measurement
	{Name: "ST_Area", Arity: 1},
	{Name: "ST_Length", Arity: 1},
	{Name: "ST_Length2D", Arity: 1, Alias: "ST_Length@1"},
	{Name: "ST_Perimeter", Arity: 1},
	{Name: "ST_Perimeter2D", Arity: 1, Alias: "ST_Perimeter@1"},
	{Name: "ST_Distance", Arity: 2},
	{Name: "ST_Centroid", Arity: 1},
	{Name: "ST_PointOnSurface", Arity: 1},
	{Name: "ST_ClosestPoint", Arity: 2},
	{Name: "ST_HausdorffDistance", Arity: 2},
	{Name: "ST_XMin", Arity: 1},
	{Name: "ST_XMax", Arity: 1},
	{Name: "ST_YMin", Arity: 1},
	{Name: "ST_YMax", Arity: 1},
	{Name: "ST_DistanceSphere", Arity: 2},
	{Name: "ST_DistanceSpheroid", Arity: 2},
	{Name: "ST_LengthSphere", Arity: 1},
	{Name: "ST_Azimuth", Arity: 2},
	{Name: "ST_Project", Arity: 3},

	// Set operations
	{Name: "ST_Union", Arity: 2},
	{Name: "ST_Intersection", Arity: 2},
	{Name: "ST_Difference", Arity: 2},
	{Name: "ST_SymDifference", Arity: 2},
	{Name: "ST_Buffer", Arity: 2},

	// Predicates and DE-9IM
	{Name: "ST_Intersects", Arity: 2},
	{Name: "ST_Contains", Arity: 2},
	{Name: "ST_Within", Arity: 2},
	{Name: "ST_Disjoint", Arity: 2},
	{Name: "ST_DWithin", Arity: 3},
	{Name: "ST_Covers", Arity: 2},
	{Name: "ST_CoveredBy", Arity: 2},
	{Name: "ST_Equals", Arity: 2},
	{Name: "ST_Touches", Arity: 2},
	{Name: "ST_Crosses", Arity: 2},
	{Name: "ST_Overlaps", Arity: 2},
	{Name: "ST_Relate", Arity: 2},
	{Name: "ST_Relate", Arity: 3},
	{Name: "ST_RelateMatch", Arity: 2},
}

// DirectOnly is the SQLITE_DIRECTONLY catalog: functions that mutate
// schema and must not be callable from triggers or views.
var DirectOnly = []FunctionSpec{
	{Name: "CreateSpatialIndex", Arity: 2, Direct: true},
	{Name: "DropSpatialIndex", Arity: 2, Direct: true},
}

// All returns the full catalog, deterministic rows first.
func All() []FunctionSpec {
	out := make([]FunctionSpec, 0, len(Deterministic)+len(DirectOnly))
	out = append(out, Deterministic...)
	out = append(out, DirectOnly...)
	return out
}
