// Package integration provides integration tests against a real PostgreSQL
// instance started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB wraps a migrated PostgreSQL container for one test
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container, runs all migrations against
// it and registers cleanup on the test. Each call gives a fully isolated
// database.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("propman_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	db, sqlDB := openGorm(t, dsn)
	applyMigrations(t, sqlDB)

	tdb := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}

	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			_ = tdb.SqlDB.Close()
		}
		if tdb.Container != nil {
			if err := tdb.Container.Terminate(context.Background()); err != nil {
				t.Logf("warning: failed to terminate container: %v", err)
			}
		}
	})

	return tdb
}

// CleanTables truncates every table except the migration bookkeeping table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "failed to list tables")

	for _, table := range tables {
		err := tdb.DB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error
		require.NoError(tdb.t, err, "failed to truncate "+table)
	}
}

func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	logMode := gormlogger.Default.LogMode(gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logMode = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logMode})
	require.NoError(t, err, "failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to get underlying sql.DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)

	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "could not locate migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "failed to run migrations")
	}
}

// findMigrationsPath walks up from this file toward the repository root
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 4; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
