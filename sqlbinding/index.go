package sqlbinding

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// identifierPattern matches the original engine's identifier validation:
// only latin letters, digits and underscore, and never empty.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func validateIdentifier(label, s string) error {
	if !identifierPattern.MatchString(s) {
		return fmt.Errorf("sqlbinding: %s: invalid identifier %q (only [A-Za-z0-9_] allowed)", label, s)
	}
	return nil
}

// CreateSpatialIndex builds an R-tree spatial index over table.column:
// the R-tree virtual table itself, its initial population from existing
// rows, and AFTER INSERT/UPDATE/DELETE triggers that keep it synchronized.
// Unlike the original engine's xfunc, which best-effort DROPs whatever it
// already created when a later step fails, every statement here runs
// inside one named SAVEPOINT — on any error the savepoint is rolled back
// as a single unit, so a partially built index never becomes visible.
func CreateSpatialIndex(db *sql.DB, table, column string) error {
	if err := validateIdentifier("CreateSpatialIndex", table); err != nil {
		return err
	}
	if err := validateIdentifier("CreateSpatialIndex", column); err != nil {
		return err
	}

	rtree := fmt.Sprintf("%s_%s_rtree", table, column)
	insertTrigger := fmt.Sprintf("%s_%s_insert", table, column)
	updateTrigger := fmt.Sprintf("%s_%s_update", table, column)
	deleteTrigger := fmt.Sprintf("%s_%s_delete", table, column)

	return withSavepoint(db, "create_spatial_index", func(tx *sql.Tx) error {
		stmts := []string{
			fmt.Sprintf(`CREATE VIRTUAL TABLE "%s" USING rtree(id, xmin, xmax, ymin, ymax)`, rtree),
			fmt.Sprintf(
				`INSERT INTO "%s" SELECT rowid, ST_XMin("%s"), ST_XMax("%s"), ST_YMin("%s"), ST_YMax("%s") `+
					`FROM "%s" WHERE "%s" IS NOT NULL`,
				rtree, column, column, column, column, table, column),
			fmt.Sprintf(
				`CREATE TRIGGER "%s" AFTER INSERT ON "%s" WHEN NEW."%s" IS NOT NULL BEGIN `+
					`INSERT INTO "%s" VALUES (NEW.rowid, ST_XMin(NEW."%s"), ST_XMax(NEW."%s"), ST_YMin(NEW."%s"), ST_YMax(NEW."%s")); `+
					`END`,
				insertTrigger, table, column, rtree, column, column, column, column),
			fmt.Sprintf(
				`CREATE TRIGGER "%s" AFTER UPDATE OF "%s" ON "%s" BEGIN `+
					`DELETE FROM "%s" WHERE id = OLD.rowid; `+
					`INSERT INTO "%s" SELECT NEW.rowid, ST_XMin(NEW."%s"), ST_XMax(NEW."%s"), ST_YMin(NEW."%s"), ST_YMax(NEW."%s") WHERE NEW."%s" IS NOT NULL; `+
					`END`,
				updateTrigger, column, table, rtree, rtree, column, column, column, column, column),
			fmt.Sprintf(
				`CREATE TRIGGER "%s" AFTER DELETE ON "%s" BEGIN `+
					`DELETE FROM "%s" WHERE id = OLD.rowid; `+
					`END`,
				deleteTrigger, table, rtree),
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("sqlbinding: CreateSpatialIndex(%s, %s): %w", table, column, err)
			}
		}
		return nil
	})
}

// DropSpatialIndex removes the R-tree and triggers CreateSpatialIndex
// built for table.column, inside one named savepoint.
func DropSpatialIndex(db *sql.DB, table, column string) error {
	if err := validateIdentifier("DropSpatialIndex", table); err != nil {
		return err
	}
	if err := validateIdentifier("DropSpatialIndex", column); err != nil {
		return err
	}

	prefix := fmt.Sprintf("%s_%s", table, column)
	return withSavepoint(db, "drop_spatial_index", func(tx *sql.Tx) error {
		stmts := []string{
			fmt.Sprintf(`DROP TRIGGER IF EXISTS "%s_insert"`, prefix),
			fmt.Sprintf(`DROP TRIGGER IF EXISTS "%s_update"`, prefix),
			fmt.Sprintf(`DROP TRIGGER IF EXISTS "%s_delete"`, prefix),
			fmt.Sprintf(`DROP TABLE IF EXISTS "%s_rtree"`, prefix),
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("sqlbinding: DropSpatialIndex(%s, %s): %w", table, column, err)
			}
		}
		return nil
	})
}

// withSavepoint runs fn inside a uniquely named SAVEPOINT, releasing it on
// success and rolling back to it on error. The unique name (rather than a
// fixed literal) lets this run safely even if the caller's own code is
// already inside a transaction that holds a differently-named savepoint.
func withSavepoint(db *sql.DB, label string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlbinding: %s: begin transaction: %w", label, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	name := "sp_" + label + "_" + uuid.NewString()[:8]
	if _, err = tx.Exec(fmt.Sprintf(`SAVEPOINT "%s"`, name)); err != nil {
		return fmt.Errorf("sqlbinding: %s: savepoint: %w", label, err)
	}

	if fnErr := fn(tx); fnErr != nil {
		if _, rbErr := tx.Exec(fmt.Sprintf(`ROLLBACK TO SAVEPOINT "%s"`, name)); rbErr != nil {
			err = fmt.Errorf("%w (rollback also failed: %v)", fnErr, rbErr)
			return err
		}
		err = fnErr
		return err
	}

	if _, err = tx.Exec(fmt.Sprintf(`RELEASE SAVEPOINT "%s"`, name)); err != nil {
		return fmt.Errorf("sqlbinding: %s: release savepoint: %w", label, err)
	}
	return nil
}
