package infra

import (
	"database/sql"
	"fmt"
	"strings"

	"dscatalog/internal/model"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteDriverName is go-sqlite3 with a per-connection hook that enables
// foreign keys and registers unicode_lower. SQLite's own lower() folds ASCII
// only, so name searches on sqlite go through unicode_lower instead.
const sqliteDriverName = "sqlite3_dscatalog"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("unicode_lower", strings.ToLower, true); err != nil {
				return fmt.Errorf("register unicode_lower: %w", err)
			}
			if _, err := conn.Exec("PRAGMA foreign_keys = ON", nil); err != nil {
				return fmt.Errorf("enable sqlite foreign keys: %w", err)
			}
			return nil
		},
	})
}

// NewDatabase opens a GORM connection for the configured driver.
//
//   - postgres: production store, pooled connections.
//   - sqlite:   local development and tests. Every connection switches
//     foreign keys on so the referential checks behave like postgres, and the
//     pool is pinned to a single connection because an in-memory database
//     lives per connection.
//
// TranslateError makes GORM report constraint failures as
// gorm.ErrForeignKeyViolated / gorm.ErrDuplicatedKey where the dialect supports it.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	return db, nil
}

// RunMigrations creates / updates every table, including the product_categories
// and user_roles join tables with their foreign keys, then applies the schema
// patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Role{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that both postgres and sqlite accept.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// case-insensitive name search: LOWER(products.name) LIKE ?
		{"products lower(name) index",
			`CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products (lower(name))`},
		// category filter reads the join table by category first
		{"product_categories category index",
			`CREATE INDEX IF NOT EXISTS idx_product_categories_category ON product_categories (category_id)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
