/*
Copyright 2014 SAP SE

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package geolite embeds a PostGIS-compatible spatial geometry engine into
// a SQLite database: EWKB/WKT/GeoJSON codecs, planar and geodetic
// measurement, DE-9IM predicates and an R-tree spatial-index DDL helper,
// all exposed as SQL scalar functions via the sqlbinding package.
package geolite

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/geolite-go/geolite/sqlbinding"
)

// Options configures Register. The zero value registers the "geolite"
// driver name against the default logger, matching sqlbinding.Options's
// own zero-value contract.
type Options struct {
	DriverName string
	Logger     *slog.Logger
}

func (o Options) validate() error {
	return nil
}

// Register installs a database/sql driver (see sqlbinding.Register for
// the exact name and behavior) with every geolite SQL function bound, and
// returns the driver name to pass to sql.Open.
func Register(opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", fmt.Errorf("geolite: invalid options: %w", err)
	}
	sbOpts := sqlbinding.Options{DriverName: opts.DriverName, Logger: opts.Logger}
	if err := sqlbinding.Register(sbOpts); err != nil {
		return "", err
	}
	name := sbOpts.DriverName
	if name == "" {
		name = "geolite"
	}
	return name, nil
}

// Open is a convenience wrapper: it registers the driver (idempotently)
// and opens a *sql.DB against dataSourceName using it.
func Open(opts Options, dataSourceName string) (*sql.DB, error) {
	name, err := Register(opts)
	if err != nil {
		return nil, err
	}
	return sql.Open(name, dataSourceName)
}

// CreateSpatialIndex builds an R-tree spatial index over table.column; see
// sqlbinding.CreateSpatialIndex for the exact DDL it issues.
func CreateSpatialIndex(db *sql.DB, table, column string) error {
	return sqlbinding.CreateSpatialIndex(db, table, column)
}

// DropSpatialIndex removes a spatial index built by CreateSpatialIndex.
func DropSpatialIndex(db *sql.DB, table, column string) error {
	return sqlbinding.DropSpatialIndex(db, table, column)
}
