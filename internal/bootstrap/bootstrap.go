// Package bootstrap builds the crawler and its storage from a Config. Shared by
// the server and the CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/yourorg/gmbcrawl/internal/catalog"
	"github.com/yourorg/gmbcrawl/internal/config"
	"github.com/yourorg/gmbcrawl/internal/crawler"
	appdb "github.com/yourorg/gmbcrawl/internal/db"
	"github.com/yourorg/gmbcrawl/internal/docstore"
	"github.com/yourorg/gmbcrawl/internal/etagmb"
)

// Runs records and lists crawl runs.
type Runs interface {
	crawler.RunRecorder
	crawler.RunHistory
}

var (
	_ Runs = (*appdb.RunStore)(nil)
	_ Runs = (*crawler.MemoryRecorder)(nil)
)

// Runtime holds everything a crawl needs.
type Runtime struct {
	DB      *sql.DB // nil with the memory driver
	Store   docstore.Store
	Runs    Runs
	Crawler *crawler.Crawler
}

// Open connects the configured store and wires a crawler to it. With the
// mysql driver it pings the database and ensures the schema.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	switch cfg.Store.Driver {
	case "memory":
		log.Println("⚠️  STORE_DRIVER=memory: documents are kept in memory only")
		rt.Store = docstore.NewMemory()
		rt.Runs = crawler.NewMemoryRecorder()
	default:
		conn, err := appdb.Connect(cfg.Store)
		if err != nil {
			return nil, err
		}
		if err := appdb.Ping(ctx, conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("bootstrap: ping %s: %w", cfg.Store.Host, err)
		}
		if err := appdb.EnsureSchema(conn, cfg.Store.SkipSchema); err != nil {
			conn.Close()
			return nil, err
		}
		rt.DB = conn
		rt.Store = docstore.NewMySQL(conn)
		rt.Runs = appdb.NewRunStore(conn)
	}

	client := etagmb.NewClient(cfg.Source.BaseURL, cfg.Source.Timeout, nil)
	rt.Crawler = crawler.New(
		crawler.NewAPISource(client),
		catalog.NewWriter(rt.Store),
		crawler.Options{
			FanOutLimit:   cfg.Source.FanOutLimit,
			CoordCacheTTL: cfg.Source.CoordCacheTTL,
			Recorder:      rt.Runs,
		},
	)
	return rt, nil
}

// Close releases the store and the database connection.
func (rt *Runtime) Close() error {
	if rt.Store != nil {
		_ = rt.Store.Close()
	}
	if rt.DB != nil {
		return rt.DB.Close()
	}
	return nil
}
