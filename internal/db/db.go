package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/yourorg/gmbcrawl/internal/config"
	"github.com/yourorg/gmbcrawl/internal/docstore"
)

// DSN builds the MariaDB/MySQL data source name for cfg.
func DSN(cfg config.Store) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host + ":" + cfg.Port
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4,utf8"}
	return mc.FormatDSN()
}

// Connect returns a MariaDB connection for cfg.
func Connect(cfg config.Store) (*sql.DB, error) {
	conn, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return conn, nil
}

// Ping checks the connection with a short timeout.
func Ping(ctx context.Context, conn *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return conn.PingContext(ctx)
}

const crawlRunsSchema = `
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id CHAR(36) NOT NULL PRIMARY KEY,
		trigger_source VARCHAR(32) NOT NULL,
		status VARCHAR(16) NOT NULL,
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP NULL,
		codes_written INT NOT NULL DEFAULT 0,
		routes_written INT NOT NULL DEFAULT 0,
		stops_written INT NOT NULL DEFAULT 0,
		error_message TEXT NULL,
		INDEX idx_crawl_runs_started (started_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// EnsureSchema creates required tables if not exist.
func EnsureSchema(conn *sql.DB, skip bool) error {
	if skip {
		log.Printf("EnsureSchema: skipped (DB_SKIP_SCHEMA=true)")
		return nil
	}

	if _, err := conn.Exec(docstore.DocumentsSchema); err != nil {
		return fmt.Errorf("db: create documents: %w", err)
	}
	if _, err := conn.Exec(crawlRunsSchema); err != nil {
		return fmt.Errorf("db: create crawl_runs: %w", err)
	}
	return nil
}
