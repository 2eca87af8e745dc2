package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Region identifica la zona de Hong Kong a la que pertenece un código de ruta.
type Region string

const (
	RegionHKI Region = "HKI" // Hong Kong Island
	RegionKLN Region = "KLN" // Kowloon
	RegionNT  Region = "NT"  // New Territories
)

// Regions lists every region in catalogue order.
var Regions = []Region{RegionHKI, RegionKLN, RegionNT}

// Valid reports whether r is one of the known regions.
func (r Region) Valid() bool {
	switch r {
	case RegionHKI, RegionKLN, RegionNT:
		return true
	}
	return false
}

// RouteCode is a route number as published by the transport department plus
// the region it runs in. The same number may exist in more than one region.
type RouteCode struct {
	Code   string `json:"code"`
	Region Region `json:"region"`
}

// DocID returns the document id used for the code: "{code}_{region}".
func (c RouteCode) DocID() string {
	return c.Code + "_" + string(c.Region)
}

func (c RouteCode) String() string {
	return c.DocID()
}

// Route is one direction of a minibus route. Upstream reuses the same route_id
// for every direction, RouteSeq tells them apart.
type Route struct {
	RouteID  int64  `json:"route_id"`
	RouteSeq int    `json:"route_seq"`
	OrigTC   string `json:"orig_tc"`
	OrigSC   string `json:"orig_sc"`
	OrigEN   string `json:"orig_en"`
	DestTC   string `json:"dest_tc"`
	DestSC   string `json:"dest_sc"`
	DestEN   string `json:"dest_en"`
}

// DocID returns the document id of the route direction: "{route_id}_{route_seq}".
func (r Route) DocID() string {
	return strconv.FormatInt(r.RouteID, 10) + "_" + strconv.Itoa(r.RouteSeq)
}

func (r Route) String() string {
	return r.DocID()
}

// StopRef is a stop reference in the order it is served by a route direction.
type StopRef struct {
	StopID  int64 `json:"stop_id"`
	StopSeq int   `json:"stop_seq"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StopInfo joins a stop reference with its coordinates, ready to be written.
type StopInfo struct {
	StopID    int64   `json:"stop_id"`
	StopSeq   int     `json:"stop_seq"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DocID returns the document id of the stop.
func (s StopInfo) DocID() string {
	return strconv.FormatInt(s.StopID, 10)
}

// FlexibleTime acepta los distintos formatos de timestamp que publica la API
// (con y sin zona horaria, con y sin fracciones de segundo).
type FlexibleTime struct {
	time.Time
}

// UnmarshalJSON implementa json.Unmarshaler. Un string vacío o null deja el valor en cero.
func (ft *FlexibleTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999", // sin zona horaria
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			ft.Time = t
			return nil
		}
		parseErr = err
	}

	return fmt.Errorf("unable to parse time %q with any known format: %w", s, parseErr)
}

// MarshalJSON writes the time in RFC3339, or null when unset.
func (ft FlexibleTime) MarshalJSON() ([]byte, error) {
	if ft.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ft.Time.Format(time.RFC3339Nano))
}
