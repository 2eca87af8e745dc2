// Package scheduler fires the crawl on a cron schedule and makes sure only one
// crawl runs at a time, whoever triggers it.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourorg/gmbcrawl/internal/models"
)

var (
	// ErrAlreadyRunning is returned when a crawl is fired while another is active.
	ErrAlreadyRunning = errors.New("scheduler: a crawl is already running")
	// ErrStopping is returned once Shutdown has begun.
	ErrStopping = errors.New("scheduler: shutting down")
)

// Job runs one crawl.
type Job func(ctx context.Context, trigger string) (*models.CrawlSummary, error)

// Trigger serializes crawl runs and applies the wall-clock budget.
type Trigger struct {
	job    Job
	budget time.Duration

	mu       sync.Mutex
	running  bool
	stopping bool
	wg       sync.WaitGroup
}

func NewTrigger(job Job, budget time.Duration) *Trigger {
	return &Trigger{job: job, budget: budget}
}

// Running reports whether a crawl is in progress.
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// wg.Add only happens under mu with stopping unset, so it never races
// with the Wait in Shutdown.
func (t *Trigger) acquire() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopping {
		return ErrStopping
	}
	if t.running {
		return ErrAlreadyRunning
	}
	t.running = true
	t.wg.Add(1)
	return nil
}

func (t *Trigger) release() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.wg.Done()
}

// Fire runs the job now and waits for it, bounded by the budget.
func (t *Trigger) Fire(ctx context.Context, trigger string) (*models.CrawlSummary, error) {
	if err := t.acquire(); err != nil {
		return nil, err
	}
	defer t.release()
	return t.run(ctx, trigger)
}

// FireAsync starts the job in the background and returns immediately.
// ctx only bounds the run, it is not cancelled when the caller returns.
func (t *Trigger) FireAsync(ctx context.Context, trigger string) error {
	if err := t.acquire(); err != nil {
		return err
	}
	go func() {
		defer t.release()
		_, _ = t.run(ctx, trigger)
	}()
	return nil
}

// Wait blocks until the current run, if any, has finished. Callers must not
// fire concurrently with Wait; use Shutdown for that.
func (t *Trigger) Wait() {
	t.wg.Wait()
}

// Shutdown refuses new runs with ErrStopping and waits for the current one.
func (t *Trigger) Shutdown() {
	t.mu.Lock()
	t.stopping = true
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Trigger) run(ctx context.Context, trigger string) (*models.CrawlSummary, error) {
	if t.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.budget)
		defer cancel()
	}

	log.Printf("⏰ [SCHED] crawl fired (trigger=%s, budget=%s)", trigger, t.budget)
	summary, err := t.job(ctx, trigger)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("⏱️  [SCHED] crawl exceeded its %s budget", t.budget)
		}
		return nil, err
	}
	return summary, nil
}

// Scheduler fires a Trigger on a cron spec in a fixed time zone.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	loc     *time.Location
	trigger *Trigger
}

// New parses spec (standard 5-field cron) in timezone and registers the trigger.
func New(spec, timezone string, trigger *Trigger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler: timezone %q: %w", timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cron.PrintfLogger(log.Default())),
		cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))),
	)
	s := &Scheduler{cron: c, loc: loc, trigger: trigger}
	s.entry, err = c.AddFunc(spec, s.fire)
	if err != nil {
		return nil, fmt.Errorf("scheduler: spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) fire() {
	summary, err := s.trigger.Fire(context.Background(), models.TriggerSchedule)
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		log.Printf("⚠️  [SCHED] skipped: previous crawl still running")
	case errors.Is(err, ErrStopping):
		log.Printf("⚠️  [SCHED] skipped: shutting down")
	case err != nil:
		log.Printf("❌ [SCHED] scheduled crawl failed: %v", err)
	case summary != nil:
		log.Printf("✅ [SCHED] scheduled crawl %s finished in %.1fs", summary.RunID, summary.DurationSecs)
	}
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("⏰ [SCHED] next crawl at %s", s.NextRun().Format(time.RFC3339))
}

// Stop stops the cron and waits for a running crawl to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.trigger.Shutdown()
}

// NextRun returns the next firing time.
func (s *Scheduler) NextRun() time.Time {
	if next := s.cron.Entry(s.entry).Next; !next.IsZero() {
		return next
	}
	return s.NextAfter(time.Now())
}

// NextAfter returns when the schedule fires next after t.
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(t.In(s.loc))
}
