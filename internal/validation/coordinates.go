package validation

import (
	"fmt"
	"math"
)

// CoordinateError describe una coordenada rechazada.
type CoordinateError struct {
	Field   string
	Value   float64
	Message string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: %s (valor: %.6f)", e.Field, e.Message, e.Value)
}

func checkFinite(v float64, field string) error {
	if math.IsNaN(v) {
		return &CoordinateError{Field: field, Value: v, Message: "valor NaN no permitido"}
	}
	if math.IsInf(v, 0) {
		return &CoordinateError{Field: field, Value: v, Message: "valor infinito no permitido"}
	}
	return nil
}

// ValidateLatitude valida una latitud WGS84.
func ValidateLatitude(lat float64, fieldName string) error {
	if err := checkFinite(lat, fieldName); err != nil {
		return err
	}
	if lat < -90 || lat > 90 {
		return &CoordinateError{Field: fieldName, Value: lat, Message: "debe estar entre -90 y 90"}
	}
	return nil
}

// ValidateLongitude valida una longitud WGS84.
func ValidateLongitude(lon float64, fieldName string) error {
	if err := checkFinite(lon, fieldName); err != nil {
		return err
	}
	if lon < -180 || lon > 180 {
		return &CoordinateError{Field: fieldName, Value: lon, Message: "debe estar entre -180 y 180"}
	}
	return nil
}

// ValidateCoordinatePair valida un par (lat, lon). prefix se antepone al nombre del campo.
func ValidateCoordinatePair(lat, lon float64, prefix string) error {
	if err := ValidateLatitude(lat, prefix+"latitude"); err != nil {
		return err
	}
	return ValidateLongitude(lon, prefix+"longitude")
}

// Hong Kong SAR bounding box, with a small margin around the outlying islands.
const (
	hkMinLat = 22.1
	hkMaxLat = 22.6
	hkMinLon = 113.8
	hkMaxLon = 114.5
)

// ValidateHongKongRegion checks that a point falls inside Hong Kong. The crawler
// only warns on failure: upstream occasionally publishes placeholder coordinates
// and those are still stored as-is.
func ValidateHongKongRegion(lat, lon float64) error {
	if lat < hkMinLat || lat > hkMaxLat {
		return &CoordinateError{
			Field:   "latitude",
			Value:   lat,
			Message: fmt.Sprintf("fuera del rango de Hong Kong (%.1f a %.1f)", hkMinLat, hkMaxLat),
		}
	}
	if lon < hkMinLon || lon > hkMaxLon {
		return &CoordinateError{
			Field:   "longitude",
			Value:   lon,
			Message: fmt.Sprintf("fuera del rango de Hong Kong (%.1f a %.1f)", hkMinLon, hkMaxLon),
		}
	}
	return nil
}

// IsZeroCoordinate verifica si una coordenada es (0, 0)
func IsZeroCoordinate(lat, lon float64) bool {
	return lat == 0 && lon == 0
}
