package storeradius

import (
	"context"
	"strings"
)

// Postcode is a row of the local postcode gazetteer.
type Postcode struct {
	Postcode  string  `json:"postcode"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type Repository interface {
	Store(ctx context.Context, postcode string, latitude, longitude float64) error
	FindPostcode(ctx context.Context, postcode string) (Postcode, error)
	FindPostcodes(ctx context.Context, postcodes []string) ([]Postcode, error)
}

// NormalizePostcode is the key form postcodes are stored and queried under.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}
