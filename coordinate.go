package storeradius

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateMap maps a postcode, exactly as it was queried, to its
// coordinate. Only resolved postcodes are present.
type CoordinateMap map[string]Coordinate

// Lookup returns the coordinate for postcode and whether it was resolved.
func (m CoordinateMap) Lookup(postcode string) (Coordinate, bool) {
	c, ok := m[postcode]
	return c, ok
}
