package domain

import "fmt"

// A geocoded delivery address as longitude and latitude in degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Validate rejects points outside the longitude/latitude ranges and the
// null island (0, 0) that geocoders return for unresolved input.
func (c Coordinates) Validate() error {
	if c.Lon < -180 || c.Lon > 180 || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinates out of range: lon=%g lat=%g", c.Lon, c.Lat)
	}
	if c.Lon == 0 && c.Lat == 0 {
		return fmt.Errorf("coordinates unresolved: lon=0 lat=0")
	}
	return nil
}

// CoordsToList is the [lon, lat] pair the routing API expects.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
