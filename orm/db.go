package orm

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/geolite-go/geolite/sqlbinding"
)

// OpenOptions configures Open. The zero value registers the default
// "geolite" driver (see sqlbinding.Options) and opens dsn with GORM's
// default logger.
type OpenOptions struct {
	Binding sqlbinding.Options
	Config  *gorm.Config
}

// Open registers geolite's SQL functions (idempotently, via
// sqlbinding.Register) and returns a *gorm.DB over dsn using GORM's
// sqlite.Dialector pointed at the registered driver name instead of the
// plain "sqlite3" driver name the dialector defaults to, so every query
// GORM issues can call the bound ST_* functions.
//
// Grounded on clidey-whodb's Sqlite3Plugin.DB, which opens a *gorm.DB via
// sqlite.Open(path) against a single on-disk file; geolite generalizes
// that to a custom DriverName since gorm.io/driver/sqlite's Dialector
// lets the registered database/sql driver be overridden per connection.
func Open(dsn string, opts OpenOptions) (*gorm.DB, error) {
	if err := sqlbinding.Register(opts.Binding); err != nil {
		return nil, fmt.Errorf("orm: registering driver: %w", err)
	}
	driverName := opts.Binding.DriverName
	if driverName == "" {
		driverName = "geolite"
	}
	dialector := sqlite.Dialector{DriverName: driverName, DSN: dsn}
	cfg := opts.Config
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	return gorm.Open(dialector, cfg)
}
