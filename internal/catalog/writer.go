// Package catalog writes the route code → route → stop hierarchy into a
// document store, one atomic batch per call.
//
// Stored layout, read as-is by downstream consumers:
//
//	route_codes/{code}_{region}                                       {code, region, route_ids}
//	route_codes/{code}_{region}/routes/{route_id}_{route_seq}          route fields
//	route_codes/{code}_{region}/routes/{route_id}_{route_seq}/stops/{stop_id}
//
// Route documents are keyed by route_id and route_seq together: both
// directions of a route share the same route_id. route_ids lists these keys,
// not bare route ids.
package catalog

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/yourorg/gmbcrawl/internal/docstore"
	"github.com/yourorg/gmbcrawl/internal/geo"
	"github.com/yourorg/gmbcrawl/internal/models"
)

// Collection names of the stored hierarchy.
const (
	CodesCollection  = "route_codes"
	RoutesCollection = "routes"
	StopsCollection  = "stops"
)

type codeDoc struct {
	Code   string        `json:"code"`
	Region models.Region `json:"region"`
}

type routeDoc struct {
	RouteID     int64         `json:"route_id"`
	RouteSeq    int           `json:"route_seq"`
	RouteCode   string        `json:"route_code"`
	RouteOrigTC string        `json:"route_orig_tc"`
	RouteOrigSC string        `json:"route_orig_sc"`
	RouteOrigEN string        `json:"route_orig_en"`
	RouteDestTC string        `json:"route_dest_tc"`
	RouteDestSC string        `json:"route_dest_sc"`
	RouteDestEN string        `json:"route_dest_en"`
	Region      models.Region `json:"region"`
}

type stopDoc struct {
	StopID   int64             `json:"stop_id"`
	StopSeq  int               `json:"stop_seq"`
	RouteID  int64             `json:"route_id"`
	Geohash  string            `json:"geohash"`
	Location docstore.GeoPoint `json:"location"`
}

// Writer upserts catalogue entities.
type Writer struct {
	store docstore.Store
}

func NewWriter(store docstore.Store) *Writer {
	return &Writer{store: store}
}

// CodePath returns route_codes/{code}_{region}.
func CodePath(code models.RouteCode) (docstore.Path, error) {
	return docstore.Doc(CodesCollection, code.DocID())
}

// RoutePath returns route_codes/{code}_{region}/routes/{route_id}_{route_seq}.
// The key is models.Route.DocID; changing it breaks existing readers.
func RoutePath(code models.RouteCode, route models.Route) (docstore.Path, error) {
	parent, err := CodePath(code)
	if err != nil {
		return "", err
	}
	return parent.Child(RoutesCollection, route.DocID())
}

// StopPath returns the stop document path under its route.
func StopPath(code models.RouteCode, route models.Route, stopID int64) (docstore.Path, error) {
	parent, err := RoutePath(code, route)
	if err != nil {
		return "", err
	}
	return parent.Child(StopsCollection, strconv.FormatInt(stopID, 10))
}

// UpsertCodes writes every route code in one batch.
func (w *Writer) UpsertCodes(ctx context.Context, codes []models.RouteCode) error {
	batch := w.store.Batch()
	for _, c := range codes {
		p, err := CodePath(c)
		if err != nil {
			return fmt.Errorf("catalog: code %s: %w", c, err)
		}
		batch.Set(p, codeDoc{Code: c.Code, Region: c.Region})
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("catalog: upsert codes: %w", err)
	}
	return nil
}

// UpsertRoutes writes the routes of one code and replaces the code's
// route_ids with exactly the ids written here.
func (w *Writer) UpsertRoutes(ctx context.Context, code models.RouteCode, routes []models.Route) error {
	parent, err := CodePath(code)
	if err != nil {
		return fmt.Errorf("catalog: code %s: %w", code, err)
	}

	batch := w.store.Batch()
	ids := make([]string, 0, len(routes))
	for _, r := range routes {
		p, err := parent.Child(RoutesCollection, r.DocID())
		if err != nil {
			return fmt.Errorf("catalog: route %s: %w", r, err)
		}
		batch.Set(p, routeDoc{
			RouteID:     r.RouteID,
			RouteSeq:    r.RouteSeq,
			RouteCode:   code.Code,
			RouteOrigTC: r.OrigTC,
			RouteOrigSC: r.OrigSC,
			RouteOrigEN: r.OrigEN,
			RouteDestTC: r.DestTC,
			RouteDestSC: r.DestSC,
			RouteDestEN: r.DestEN,
			Region:      code.Region,
		})
		ids = append(ids, r.DocID())
	}
	batch.Merge(parent, map[string]any{"route_ids": ids})

	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("catalog: upsert routes for code %s: %w", code, err)
	}
	return nil
}

// UpsertStops writes the stops of one route direction and replaces the
// route's stop_ids with exactly the ids written here.
func (w *Writer) UpsertStops(ctx context.Context, code models.RouteCode, route models.Route, stops []models.StopInfo) error {
	parent, err := RoutePath(code, route)
	if err != nil {
		return fmt.Errorf("catalog: route %s: %w", route, err)
	}

	batch := w.store.Batch()
	ids := make([]int64, 0, len(stops))
	for _, s := range stops {
		p, err := parent.Child(StopsCollection, s.DocID())
		if err != nil {
			return fmt.Errorf("catalog: stop %d: %w", s.StopID, err)
		}
		batch.Set(p, stopDoc{
			StopID:   s.StopID,
			StopSeq:  s.StopSeq,
			RouteID:  route.RouteID,
			Geohash:  geo.Geohash(s.Latitude, s.Longitude),
			Location: docstore.GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude},
		})
		ids = append(ids, s.StopID)
	}
	batch.Merge(parent, map[string]any{"stop_ids": ids})

	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("catalog: upsert stops for route %s: %w", route, err)
	}
	for _, s := range stops {
		log.Printf("code: %s\tstop: %d", code.Code, s.StopID)
	}
	return nil
}
