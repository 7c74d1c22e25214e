package sqlbinding

import (
	"database/sql"
	"testing"

	"github.com/dhconnelly/rtreego"

	"github.com/geolite-go/geolite/algebra"
)

// rtreeRow mirrors one row of the places table used below; it implements
// rtreego.Spatial so an independent in-memory tree can be built from the
// same rows the SQLite rtree virtual table indexes, to cross-check
// CreateSpatialIndex's query results against a second, unrelated R-tree
// implementation rather than against SQLite itself.
type rtreeRow struct {
	id                     int64
	xmin, ymin, xmax, ymax float64
}

func (r rtreeRow) Bounds() rtreego.Rect {
	rect, err := rtreego.NewRect(rtreego.Point{r.xmin, r.ymin}, []float64{r.xmax - r.xmin, r.ymax - r.ymin})
	if err != nil {
		// Degenerate (zero-area) boxes are widened a hair; rtreego rejects
		// exactly-zero side lengths.
		rect, _ = rtreego.NewRect(rtreego.Point{r.xmin, r.ymin}, []float64{r.xmax - r.xmin + 1e-9, r.ymax - r.ymin + 1e-9})
	}
	return rect
}

// TestCreateSpatialIndexMatchesIndependentRTree builds a table of points,
// indexes it with CreateSpatialIndex, and runs the same bounding-box query
// two ways: once against the SQLite rtree virtual table CreateSpatialIndex
// built, and once against an in-memory rtreego.Rtree built directly from
// the row data. rtreego is a test-only cross-check; it never appears in
// the shipped index path.
func TestCreateSpatialIndexMatchesIndependentRTree(t *testing.T) {
	driverName := "geolite_rtree_crosscheck"
	if err := Register(Options{DriverName: driverName}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE places (id INTEGER PRIMARY KEY, geom BLOB)`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}

	points := []struct{ x, y float64 }{
		{0, 0}, {1, 1}, {5, 5}, {10, 10}, {-3, 4}, {7, -2}, {2.5, 2.5}, {20, 20},
	}
	rows := make([]rtreeRow, 0, len(points))
	for i, p := range points {
		blob, err := algebra.Point(p.x, p.y, nil)
		if err != nil {
			t.Fatalf("Point(%v,%v): %v", p.x, p.y, err)
		}
		if _, err := db.Exec(`INSERT INTO places (id, geom) VALUES (?, ?)`, int64(i+1), blob); err != nil {
			t.Fatalf("INSERT: %v", err)
		}
		rows = append(rows, rtreeRow{id: int64(i + 1), xmin: p.x, ymin: p.y, xmax: p.x, ymax: p.y})
	}

	if err := CreateSpatialIndex(db, "places", "geom"); err != nil {
		t.Fatalf("CreateSpatialIndex: %v", err)
	}

	queryXMin, queryYMin, queryXMax, queryYMax := 0.0, 0.0, 10.0, 10.0

	sqliteIDs, err := queryRTreeTable(db, "places_geom_rtree", queryXMin, queryXMax, queryYMin, queryYMax)
	if err != nil {
		t.Fatalf("querying rtree virtual table: %v", err)
	}

	tree := rtreego.NewTree(2, 4, 8)
	for _, r := range rows {
		tree.Insert(r)
	}
	queryRect, err := rtreego.NewRect(rtreego.Point{queryXMin, queryYMin}, []float64{queryXMax - queryXMin, queryYMax - queryYMin})
	if err != nil {
		t.Fatalf("NewRect: %v", err)
	}
	hits := tree.SearchIntersect(queryRect)
	rtreegoIDs := map[int64]bool{}
	for _, h := range hits {
		rtreegoIDs[h.(rtreeRow).id] = true
	}

	if len(sqliteIDs) != len(rtreegoIDs) {
		t.Fatalf("result count mismatch: sqlite rtree=%d rtreego=%d", len(sqliteIDs), len(rtreegoIDs))
	}
	for id := range sqliteIDs {
		if !rtreegoIDs[id] {
			t.Errorf("id %d present in SQLite rtree results but not in rtreego cross-check", id)
		}
	}
	for id := range rtreegoIDs {
		if !sqliteIDs[id] {
			t.Errorf("id %d present in rtreego cross-check but not in SQLite rtree results", id)
		}
	}
}

func queryRTreeTable(db *sql.DB, rtreeTable string, xmin, xmax, ymin, ymax float64) (map[int64]bool, error) {
	rows, err := db.Query(
		`SELECT id FROM "`+rtreeTable+`" WHERE xmin <= ? AND xmax >= ? AND ymin <= ? AND ymax >= ?`,
		xmax, xmin, ymax, ymin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
