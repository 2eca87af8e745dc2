package etagmb

import "github.com/yourorg/gmbcrawl/internal/models"

// Every endpoint wraps its payload in the same envelope; the typed variants
// below only differ in the shape and validation rules of Data.

// Header is the metadata shared by all responses.
type Header struct {
	Type               string              `json:"type"`
	Version            string              `json:"version"`
	GeneratedTimestamp models.FlexibleTime `json:"generated_timestamp"`
}

// ============================================================================
// GET /route
// ============================================================================

// RouteList holds the route numbers of every region.
type RouteList struct {
	Routes RegionCodes `json:"routes"`
}

// RegionCodes lists route numbers per region section.
type RegionCodes struct {
	HKI []string `json:"HKI" validate:"dive,required"`
	KLN []string `json:"KLN" validate:"dive,required"`
	NT  []string `json:"NT" validate:"dive,required"`
}

// ForRegion returns the codes of one section.
func (rc RegionCodes) ForRegion(r models.Region) []string {
	switch r {
	case models.RegionHKI:
		return rc.HKI
	case models.RegionKLN:
		return rc.KLN
	case models.RegionNT:
		return rc.NT
	}
	return nil
}

type routeListEnvelope struct {
	Header
	Data RouteList `json:"data"`
}

// ============================================================================
// GET /route/{region}/{code}
// ============================================================================

// RouteEntry is one route of a route number, with all its directions.
type RouteEntry struct {
	RouteID       int64       `json:"route_id" validate:"required,gt=0"`
	DescriptionTC string      `json:"description_tc"`
	DescriptionSC string      `json:"description_sc"`
	DescriptionEN string      `json:"description_en"`
	Directions    []Direction `json:"directions" validate:"required,dive"`
}

// Direction is one way of travel of a route.
type Direction struct {
	RouteSeq  int    `json:"route_seq" validate:"required,gt=0"`
	OrigTC    string `json:"orig_tc"`
	OrigSC    string `json:"orig_sc"`
	OrigEN    string `json:"orig_en"`
	DestTC    string `json:"dest_tc"`
	DestSC    string `json:"dest_sc"`
	DestEN    string `json:"dest_en"`
	RemarksTC string `json:"remarks_tc"`
	RemarksSC string `json:"remarks_sc"`
	RemarksEN string `json:"remarks_en"`
}

type routesEnvelope struct {
	Header
	Data []RouteEntry `json:"data" validate:"dive"`
}

// ============================================================================
// GET /route-stop/{route_id}/{route_seq}
// ============================================================================

// RouteStops is the ordered stop list of a route direction.
type RouteStops struct {
	DataTimestamp models.FlexibleTime `json:"data_timestamp"`
	RouteStops    []RouteStop         `json:"route_stops" validate:"dive"`
}

// RouteStop is a stop as listed by a route direction.
type RouteStop struct {
	StopSeq int    `json:"stop_seq" validate:"required,gt=0"`
	StopID  int64  `json:"stop_id" validate:"required,gt=0"`
	NameTC  string `json:"name_tc"`
	NameSC  string `json:"name_sc"`
	NameEN  string `json:"name_en"`
}

type routeStopsEnvelope struct {
	Header
	Data RouteStops `json:"data"`
}

// ============================================================================
// GET /stop/{stop_id}
// ============================================================================

// Stop carries the location of a stop in both published grids.
type Stop struct {
	Coordinates StopCoordinates `json:"coordinates"`
	Enabled     bool            `json:"enabled"`
	RemarksTC   string          `json:"remarks_tc"`
	RemarksSC   string          `json:"remarks_sc"`
	RemarksEN   string          `json:"remarks_en"`
}

// StopCoordinates groups the WGS84 and HK1980 grid positions.
type StopCoordinates struct {
	WGS84 WGS84 `json:"wgs84"`
	HK80  HK80  `json:"hk80"`
}

// WGS84 is the position used for storage and geohashing.
type WGS84 struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// HK80 is the Hong Kong 1980 grid position. Not persisted.
type HK80 struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

type stopEnvelope struct {
	Header
	Data Stop `json:"data"`
}
