package crawler

import (
	"context"
	"fmt"

	"github.com/yourorg/gmbcrawl/internal/etagmb"
	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/transform"
)

// Source yields the catalogue entities, already mapped onto models.
type Source interface {
	FetchCatalogue(ctx context.Context) ([]models.RouteCode, error)
	FetchRoutes(ctx context.Context, code models.RouteCode) ([]models.Route, error)
	FetchStopRefs(ctx context.Context, route models.Route) ([]models.StopRef, error)
	FetchStopCoords(ctx context.Context, stopID int64) (models.Coordinates, error)
}

var _ Source = (*APISource)(nil)

// APISource reads the GMB open data API.
type APISource struct {
	client *etagmb.Client
}

func NewAPISource(client *etagmb.Client) *APISource {
	return &APISource{client: client}
}

func (s *APISource) FetchCatalogue(ctx context.Context) ([]models.RouteCode, error) {
	list, err := s.client.RouteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalogue: %w", err)
	}
	return transform.Codes(list), nil
}

func (s *APISource) FetchRoutes(ctx context.Context, code models.RouteCode) ([]models.Route, error) {
	entries, err := s.client.RoutesByCode(ctx, code.Region, code.Code)
	if err != nil {
		return nil, fmt.Errorf("fetch routes for %s: %w", code, err)
	}
	return transform.Routes(entries), nil
}

func (s *APISource) FetchStopRefs(ctx context.Context, route models.Route) ([]models.StopRef, error) {
	rs, err := s.client.RouteStops(ctx, route.RouteID, route.RouteSeq)
	if err != nil {
		return nil, fmt.Errorf("fetch stops for route %s: %w", route, err)
	}
	return transform.StopRefs(rs), nil
}

func (s *APISource) FetchStopCoords(ctx context.Context, stopID int64) (models.Coordinates, error) {
	stop, err := s.client.Stop(ctx, stopID)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("fetch stop %d: %w", stopID, err)
	}
	coords, err := transform.Coordinates(stop)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("stop %d: %w", stopID, err)
	}
	return coords, nil
}
