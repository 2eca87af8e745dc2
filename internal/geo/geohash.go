// Package geo derives proximity keys for stop documents.
package geo

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Precision is the number of geohash characters stored per stop. Ten characters
// resolve to roughly 1.2m x 0.6m, enough to tell apart stops on opposite kerbs.
const Precision = 10

// Geohash encodes a WGS84 point as a base-32 geohash of Precision characters.
func Geohash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, Precision)
}
