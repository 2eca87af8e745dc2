package models

import "time"

// Estados de una ejecución del crawler.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Origen de una ejecución.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
	TriggerStartup  = "startup"
)

// CrawlRun registra una ejecución completa del crawler.
type CrawlRun struct {
	ID            string     `json:"id"`
	Trigger       string     `json:"trigger"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CodesWritten  int        `json:"codesWritten"`
	RoutesWritten int        `json:"routesWritten"`
	StopsWritten  int        `json:"stopsWritten"`
	ErrorMessage  *string    `json:"errorMessage,omitempty"`
}

// DurationSeconds returns how long the run took, or has been running so far.
func (r CrawlRun) DurationSeconds() int {
	end := time.Now()
	if r.CompletedAt != nil {
		end = *r.CompletedAt
	}
	return int(end.Sub(r.StartedAt).Seconds())
}
