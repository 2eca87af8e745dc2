// Package transform maps API payloads onto the crawler's entities. Every
// function here is pure.
package transform

import (
	"errors"

	"github.com/yourorg/gmbcrawl/internal/etagmb"
	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/validation"
)

var (
	errNilStop   = errors.New("empty stop payload")
	errZeroCoord = errors.New("wgs84 position is (0, 0)")
)

// Codes flattens the route list into route codes, HKI first, then KLN, then NT.
// Each code is tagged with the section it was listed under.
func Codes(list *etagmb.RouteList) []models.RouteCode {
	if list == nil {
		return nil
	}
	codes := make([]models.RouteCode, 0, len(list.Routes.HKI)+len(list.Routes.KLN)+len(list.Routes.NT))
	for _, region := range models.Regions {
		for _, code := range list.Routes.ForRegion(region) {
			codes = append(codes, models.RouteCode{Code: code, Region: region})
		}
	}
	return codes
}

// Routes produces one Route per direction of every entry, in payload order.
func Routes(entries []etagmb.RouteEntry) []models.Route {
	total := 0
	for _, e := range entries {
		total += len(e.Directions)
	}
	routes := make([]models.Route, 0, total)
	for _, e := range entries {
		for _, d := range e.Directions {
			routes = append(routes, models.Route{
				RouteID:  e.RouteID,
				RouteSeq: d.RouteSeq,
				OrigTC:   d.OrigTC,
				OrigSC:   d.OrigSC,
				OrigEN:   d.OrigEN,
				DestTC:   d.DestTC,
				DestSC:   d.DestSC,
				DestEN:   d.DestEN,
			})
		}
	}
	return routes
}

// StopRefs keeps the stops of a route direction in the order they were listed.
func StopRefs(rs *etagmb.RouteStops) []models.StopRef {
	if rs == nil {
		return nil
	}
	refs := make([]models.StopRef, 0, len(rs.RouteStops))
	for _, s := range rs.RouteStops {
		refs = append(refs, models.StopRef{StopID: s.StopID, StopSeq: s.StopSeq})
	}
	return refs
}

// Coordinates extracts the WGS84 position of a stop.
func Coordinates(stop *etagmb.Stop) (models.Coordinates, error) {
	if stop == nil {
		return models.Coordinates{}, &etagmb.PayloadError{Endpoint: "stop", Err: errNilStop}
	}
	wgs := stop.Coordinates.WGS84
	if validation.IsZeroCoordinate(wgs.Latitude, wgs.Longitude) {
		return models.Coordinates{}, &etagmb.PayloadError{Endpoint: "stop", Err: errZeroCoord}
	}
	if err := validation.ValidateCoordinatePair(wgs.Latitude, wgs.Longitude, "wgs84."); err != nil {
		return models.Coordinates{}, &etagmb.PayloadError{Endpoint: "stop", Err: err}
	}
	return models.Coordinates{Latitude: wgs.Latitude, Longitude: wgs.Longitude}, nil
}

// StopInfo joins a stop reference with its position.
func StopInfo(ref models.StopRef, c models.Coordinates) models.StopInfo {
	return models.StopInfo{
		StopID:    ref.StopID,
		StopSeq:   ref.StopSeq,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}
}
