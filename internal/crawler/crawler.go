// Package crawler runs one full pass over the GMB catalogue: codes, then the
// routes of each code, then the stops of each route with their coordinates.
package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/gmbcrawl/internal/cache"
	"github.com/yourorg/gmbcrawl/internal/debug"
	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/transform"
	"github.com/yourorg/gmbcrawl/internal/validation"
)

// DefaultFanOutLimit bounds concurrent coordinate fetches per route.
const DefaultFanOutLimit = 16

// Writer persists catalogue entities. Implemented by *catalog.Writer.
type Writer interface {
	UpsertCodes(ctx context.Context, codes []models.RouteCode) error
	UpsertRoutes(ctx context.Context, code models.RouteCode, routes []models.Route) error
	UpsertStops(ctx context.Context, code models.RouteCode, route models.Route, stops []models.StopInfo) error
}

// Options tune a Crawler. Zero values pick the defaults.
type Options struct {
	FanOutLimit int
	// CoordCacheTTL > 0 caches stop coordinates for the duration of a run.
	CoordCacheTTL time.Duration
	Recorder      RunRecorder
}

// Crawler wires a Source to a Writer.
type Crawler struct {
	source   Source
	writer   Writer
	fanOut   int
	cacheTTL time.Duration
	recorder RunRecorder
}

func New(source Source, writer Writer, opts Options) *Crawler {
	if opts.FanOutLimit <= 0 {
		opts.FanOutLimit = DefaultFanOutLimit
	}
	return &Crawler{
		source:   source,
		writer:   writer,
		fanOut:   opts.FanOutLimit,
		cacheTTL: opts.CoordCacheTTL,
		recorder: opts.Recorder,
	}
}

// run holds the mutable state of one Run call.
type run struct {
	record  models.CrawlRun
	started time.Time
	coords  *cache.Cache[int64, models.Coordinates]
}

func (r *run) progress(stage string, code models.RouteCode, route *models.Route, err error) {
	p := debug.CrawlProgress{
		RunID:   r.record.ID,
		Stage:   stage,
		Codes:   r.record.CodesWritten,
		Routes:  r.record.RoutesWritten,
		Stops:   r.record.StopsWritten,
		Elapsed: time.Since(r.started).Milliseconds(),
	}
	if code.Code != "" {
		p.Code = code.String()
	}
	if route != nil {
		p.Route = route.String()
	}
	if err != nil {
		p.Error = err.Error()
	}
	debug.ReportCrawl(p)
}

// Run crawls the whole catalogue once. It stops at the first fetch or write
// error; batches committed before the error stay in place.
func (c *Crawler) Run(ctx context.Context, trigger string) (*models.CrawlSummary, error) {
	r := &run{
		record: models.CrawlRun{
			ID:        uuid.NewString(),
			Trigger:   trigger,
			Status:    models.RunStatusRunning,
			StartedAt: time.Now().UTC(),
		},
		started: time.Now(),
	}
	if c.cacheTTL > 0 {
		r.coords = cache.New[int64, models.Coordinates](c.cacheTTL, 0)
		defer func() {
			r.coords.Clear()
			r.coords.Stop()
		}()
	}

	log.Printf("🚌 [CRAWL] run %s started (trigger=%s)", r.record.ID, trigger)
	debug.LogInfo("crawl started", map[string]any{"runId": r.record.ID, "trigger": trigger})
	c.recordStart(ctx, r)

	err := c.crawl(ctx, r)
	c.recordFinish(ctx, r, err)

	if err != nil {
		log.Printf("❌ [CRAWL] run %s failed after %s: %v", r.record.ID, time.Since(r.started).Round(time.Millisecond), err)
		debug.LogError("crawl failed", map[string]any{"runId": r.record.ID, "error": err.Error()})
		r.progress("failed", models.RouteCode{}, nil, err)
		return nil, err
	}

	d := time.Since(r.started)
	summary := &models.CrawlSummary{
		RunID:        r.record.ID,
		Trigger:      trigger,
		Codes:        r.record.CodesWritten,
		Routes:       r.record.RoutesWritten,
		Stops:        r.record.StopsWritten,
		StartedAt:    r.record.StartedAt,
		Duration:     d,
		DurationSecs: d.Seconds(),
	}
	if r.coords != nil {
		st := r.coords.GetStats()
		summary.CoordCache = &models.CacheStats{Hits: st.Hits, Misses: st.Misses, Entries: st.ValidItems}
		log.Printf("🗂️  [CRAWL] coord cache: %d entries, %d hits, %d misses", r.coords.Count(), st.Hits, st.Misses)
	}
	log.Printf("✅ [CRAWL] run %s done: %d codes, %d routes, %d stops in %s",
		summary.RunID, summary.Codes, summary.Routes, summary.Stops, d.Round(time.Millisecond))
	debug.LogInfo("crawl finished", map[string]any{
		"runId": summary.RunID, "codes": summary.Codes, "routes": summary.Routes, "stops": summary.Stops,
	})
	r.progress("done", models.RouteCode{}, nil, nil)
	return summary, nil
}

func (c *Crawler) crawl(ctx context.Context, r *run) error {
	codes, err := c.source.FetchCatalogue(ctx)
	if err != nil {
		return err
	}
	if err := c.writer.UpsertCodes(ctx, codes); err != nil {
		return err
	}
	r.record.CodesWritten = len(codes)
	log.Printf("📋 [CRAWL] %d route codes written", len(codes))
	r.progress("codes", models.RouteCode{}, nil, nil)

	for _, code := range codes {
		if err := c.crawlCode(ctx, r, code); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) crawlCode(ctx context.Context, r *run, code models.RouteCode) error {
	routes, err := c.source.FetchRoutes(ctx, code)
	if err != nil {
		return err
	}
	if err := c.writer.UpsertRoutes(ctx, code, routes); err != nil {
		return err
	}
	r.record.RoutesWritten += len(routes)
	log.Printf("🛣️  [CRAWL] code %s: %d routes", code, len(routes))
	r.progress("routes", code, nil, nil)

	for i := range routes {
		route := routes[i]
		refs, err := c.source.FetchStopRefs(ctx, route)
		if err != nil {
			return err
		}
		infos, err := c.fetchStopInfos(ctx, r, refs)
		if err != nil {
			return fmt.Errorf("route %s: %w", route, err)
		}
		if err := c.writer.UpsertStops(ctx, code, route, infos); err != nil {
			return err
		}
		r.record.StopsWritten += len(infos)
		debug.LogDebug("stops written", map[string]any{"route": route.String(), "stops": len(infos)})
		r.progress("stops", code, &route, nil)
	}
	return nil
}

// fetchStopInfos fetches coordinates for every ref concurrently, at most
// c.fanOut at a time. The first failure cancels the rest; results keep ref order.
func (c *Crawler) fetchStopInfos(ctx context.Context, r *run, refs []models.StopRef) ([]models.StopInfo, error) {
	infos := make([]models.StopInfo, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanOut)

	for i, ref := range refs {
		g.Go(func() error {
			coords, err := c.stopCoords(gctx, r, ref.StopID)
			if err != nil {
				return err
			}
			infos[i] = transform.StopInfo(ref, coords)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *Crawler) stopCoords(ctx context.Context, r *run, stopID int64) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	if r.coords != nil {
		if coords, ok := r.coords.Get(stopID); ok {
			return coords, nil
		}
	}
	coords, err := c.source.FetchStopCoords(ctx, stopID)
	if err != nil {
		return models.Coordinates{}, err
	}
	// se guarda igual; solo se avisa
	if err := validation.ValidateHongKongRegion(coords.Latitude, coords.Longitude); err != nil {
		log.Printf("⚠️  [CRAWL] stop %d: %v", stopID, err)
		debug.LogWarn("stop outside Hong Kong", map[string]any{"stopId": stopID, "error": err.Error()})
	}
	if r.coords != nil {
		r.coords.Set(stopID, coords)
	}
	return coords, nil
}

func (c *Crawler) recordStart(ctx context.Context, r *run) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Start(ctx, &r.record); err != nil {
		log.Printf("⚠️  [CRAWL] could not record start of run %s: %v", r.record.ID, err)
	}
}

// recordFinish runs even when ctx is already done (budget exceeded).
func (c *Crawler) recordFinish(ctx context.Context, r *run, runErr error) {
	now := time.Now().UTC()
	r.record.CompletedAt = &now
	r.record.Status = models.RunStatusCompleted
	if runErr != nil {
		msg := runErr.Error()
		r.record.Status = models.RunStatusFailed
		r.record.ErrorMessage = &msg
	}
	if c.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := c.recorder.Finish(ctx, &r.record); err != nil {
		log.Printf("⚠️  [CRAWL] could not record end of run %s: %v", r.record.ID, err)
	}
}
