package storeradius

// Store is a catalog record as loaded from the catalog source.
type Store struct {
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

// LocatedStore is a store for the listing page. Latitude and Longitude are
// nil when the postcode could not be resolved.
type LocatedStore struct {
	Name      string   `json:"name"`
	Postcode  string   `json:"postcode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// NearbyStore is a store inside a radius query, enriched with its resolved
// coordinate and its distance in kilometers from the query point.
type NearbyStore struct {
	Name      string  `json:"name"`
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
}
