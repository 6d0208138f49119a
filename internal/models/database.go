package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Driver names as reported by Dialect.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dialect selects the gorm dialector for a connection string.
//
// postgres:// and postgresql:// URLs select PostgreSQL. sqlite:// URLs and
// plain paths select the embedded SQLite database. It returns the driver
// name and, for SQLite, the file path.
func Dialect(dsn string) (gorm.Dialector, string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), DriverPostgres, "", nil

	case strings.HasPrefix(dsn, "sqlite://"):
		dsn = strings.TrimPrefix(dsn, "sqlite://")

	case strings.Contains(dsn, "://"):
		return nil, "", "", fmt.Errorf("unsupported database URL scheme in %q", dsn)
	}

	if dsn == "" {
		return nil, "", "", errors.New("the SQLite database path must not be empty")
	}

	path, _, _ := strings.Cut(dsn, "?")

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return sqlite.Open(dsn + sep + "_pragma=busy_timeout(5000)&_time_format=sqlite"), DriverSQLite, path, nil
}

// Connect opens the database and configures the connection pool and the
// error callbacks.
func Connect(dsn string) (*gorm.DB, error) {
	dialector, driver, path, err := Dialect(dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite && !strings.HasPrefix(path, ":memory:") {
		err = os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("could not create database directory: %w", err)
		}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},

		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors
	if driver == DriverSQLite {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("driver", driver).Msg("database connected")
	return db, nil
}

// Migrate creates the schema if it is absent. It is idempotent.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Expense{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}

func registerCallbacks(db *gorm.DB) error {
	// Query callbacks
	err := db.Callback().Query().After("*").Register("ledger:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("ledger:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Aggregations scan rows instead of querying models
	err = db.Callback().Row().After("*").Register("ledger:after_row_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("ledger:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("ledger:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("ledger:after_delete_general", generalCallback)
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = regexp.MustCompile("s$").ReplaceAllString(name, "")

		db.Error = fmt.Errorf("%w %s matching your query", ErrNotFound, name)
	}
}

// generalCallback handles driver errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var sqliteErr *go_sqlite.Error
	var pgErr *pgconn.PgError

	// "sql: database is closed" is hard-coded in the sql module
	if strings.Contains(db.Error.Error(), "sql: database is closed") || errors.As(db.Error, &sqliteErr) || errors.As(db.Error, &pgErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrStorage
	}
}
