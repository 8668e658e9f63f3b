// Package sql is the mining core's persistence adapter: a dual
// Postgres/SQLite store dispatched on DATABASE_URL's scheme.
package sql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/earthbucks/ebxd/ulogger"
	"github.com/google/uuid"
	"github.com/ordishs/gocore"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Engine names the underlying SQL driver a Store talks to.
type Engine string

const (
	Postgres     Engine = "postgres"
	Sqlite       Engine = "sqlite"
	SqliteMemory Engine = "sqlitememory"
)

// Connect opens a *sql.DB for storeURL, dispatching on its scheme.
func Connect(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, Engine, error) {
	switch storeURL.Scheme {
	case string(Postgres):
		db, err := connectPostgres(logger, storeURL)
		return db, Postgres, err
	case string(Sqlite), string(SqliteMemory):
		db, err := connectSQLite(logger, storeURL)
		return db, Engine(storeURL.Scheme), err
	default:
		return nil, "", fmt.Errorf("unknown database scheme: %s", storeURL.Scheme)
	}
}

func connectPostgres(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	dbHost := storeURL.Hostname()
	dbPort := storeURL.Port()
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := ""
	if len(storeURL.Path) > 1 {
		dbName = storeURL.Path[1:]
	}
	dbUser, dbPassword := "", ""
	if storeURL.User != nil {
		dbUser = storeURL.User.Username()
		dbPassword, _ = storeURL.User.Password()
	}

	dbInfo := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		dbUser, dbPassword, dbName, dbHost, dbPort)

	db, err := sql.Open("postgres", dbInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	logger.Infof("using postgres db: %s@%s:%s/%s", dbUser, dbHost, dbPort, dbName)

	idleConns, _ := gocore.Config().GetInt("mining_postgresMaxIdleConns", 10)
	db.SetMaxIdleConns(idleConns)
	maxOpenConns, _ := gocore.Config().GetInt("mining_postgresMaxOpenConns", 80)
	db.SetMaxOpenConns(maxOpenConns)

	return db, nil
}

func connectSQLite(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	var filename string

	if storeURL.Scheme == string(SqliteMemory) {
		filename = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		folder, _ := gocore.Config().Get("mining_dataFolder", "data")
		if err := os.MkdirAll(folder, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data folder %s: %w", folder, err)
		}

		dbName := "mining"
		if len(storeURL.Path) > 1 {
			dbName = storeURL.Path[1:]
		}
		abs, err := filepath.Abs(path.Join(folder, fmt.Sprintf("%s.db", dbName)))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sqlite db path: %w", err)
		}
		filename = fmt.Sprintf("%s?cache=shared&_pragma=busy_timeout=5000&_pragma=journal_mode=WAL", abs)
	}

	logger.Infof("using sqlite db: %s", filename)

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not enable foreign keys: %w", err)
	}

	return db, nil
}
