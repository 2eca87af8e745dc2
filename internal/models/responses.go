package models

import "time"

// CrawlSummary describes the result of a finished crawl.
type CrawlSummary struct {
	RunID        string        `json:"run_id"`
	Trigger      string        `json:"trigger"`
	Codes        int           `json:"codes"`
	Routes       int           `json:"routes"`
	Stops        int           `json:"stops"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"-"`
	DurationSecs float64       `json:"duration_seconds"`
	CoordCache   *CacheStats   `json:"coord_cache,omitempty"`
}

// CacheStats reports how the per-run coordinate cache performed.
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// CrawlAcceptedResponse is returned when a manual crawl has been started.
type CrawlAcceptedResponse struct {
	Message string `json:"message"`
	Trigger string `json:"trigger"`
}

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	Status  string     `json:"status"`
	Uptime  int64      `json:"uptime"`
	Running bool       `json:"running"`
	LastRun *CrawlRun  `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
	Version string     `json:"version,omitempty"`
}

// RunsResponse wraps the recent run history.
type RunsResponse struct {
	Count int        `json:"count"`
	Runs  []CrawlRun `json:"runs"`
}
