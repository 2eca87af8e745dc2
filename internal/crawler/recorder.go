package crawler

import (
	"context"
	"sort"
	"sync"

	"github.com/yourorg/gmbcrawl/internal/models"
)

// RunRecorder persists the lifecycle of a crawl run.
type RunRecorder interface {
	Start(ctx context.Context, run *models.CrawlRun) error
	Finish(ctx context.Context, run *models.CrawlRun) error
}

// RunHistory lists recorded runs.
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]models.CrawlRun, error)
	Last(ctx context.Context) (*models.CrawlRun, error)
}

// MemoryRecorder keeps runs in memory. Used with STORE_DRIVER=memory.
type MemoryRecorder struct {
	mu   sync.RWMutex
	runs map[string]models.CrawlRun
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{runs: make(map[string]models.CrawlRun)}
}

func (m *MemoryRecorder) Start(_ context.Context, run *models.CrawlRun) error {
	m.mu.Lock()
	m.runs[run.ID] = *run
	m.mu.Unlock()
	return nil
}

func (m *MemoryRecorder) Finish(_ context.Context, run *models.CrawlRun) error {
	m.mu.Lock()
	m.runs[run.ID] = *run
	m.mu.Unlock()
	return nil
}

func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]models.CrawlRun, error) {
	m.mu.RLock()
	runs := make([]models.CrawlRun, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	m.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit >= 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MemoryRecorder) Last(ctx context.Context) (*models.CrawlRun, error) {
	runs, _ := m.Recent(ctx, 1)
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
