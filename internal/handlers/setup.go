package handlers

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/yourorg/gmbcrawl/internal/crawler"
	"github.com/yourorg/gmbcrawl/internal/docstore"
	"github.com/yourorg/gmbcrawl/internal/scheduler"
)

// CrawlTrigger starts crawls. Implemented by *scheduler.Trigger.
type CrawlTrigger interface {
	FireAsync(ctx context.Context, trigger string) error
	Running() bool
}

// NextRunner reports the next scheduled crawl. Implemented by *scheduler.Scheduler.
type NextRunner interface {
	NextRun() time.Time
}

var (
	_ CrawlTrigger = (*scheduler.Trigger)(nil)
	_ NextRunner   = (*scheduler.Scheduler)(nil)
)

// Deps are the shared dependencies of the handlers.
type Deps struct {
	DB                *sql.DB // nil with the memory store
	Store             docstore.Store
	StoreDriver       string
	Runs              crawler.RunHistory
	Trigger           CrawlTrigger
	Schedule          NextRunner // nil when the scheduler is off
	JWTSecret         []byte
	TokenTTL          time.Duration
	AdminPasswordHash string
	Version           string
}

// package-level dependencies
var (
	setupMu   sync.RWMutex // Protege acceso a deps
	deps      Deps
	startTime = time.Now()
)

// Setup wires shared dependencies for handlers. Call this during app bootstrap.
func Setup(d Deps) {
	setupMu.Lock()
	defer setupMu.Unlock()
	if d.TokenTTL <= 0 {
		d.TokenTTL = 12 * time.Hour
	}
	deps = d
	startTime = time.Now()
}

func getDeps() Deps {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return deps
}
