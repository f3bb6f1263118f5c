package storeradius

import (
	"context"
	"fmt"
)

// MaxBatchSize is the largest number of postcodes sent in one bulk lookup.
const MaxBatchSize = 100

// Resolver turns postcodes into coordinates.
//
// Resolve reports false when the postcode could not be resolved for any
// reason. ResolveBulk never fails as a whole: postcodes that could not be
// resolved, including every postcode of a failed batch, are left out of the
// returned map.
type Resolver interface {
	Resolve(ctx context.Context, postcode string) (Coordinate, bool)
	ResolveBulk(ctx context.Context, postcodes []string) CoordinateMap
}

// ProviderError is a non-success answer from a geocoding provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geocoding provider returned status %d", e.Status)
	}
	return fmt.Sprintf("geocoding provider returned status %d: %s", e.Status, e.Message)
}

// batches splits postcodes into chunks of at most size, dropping repeated
// postcodes so each one is requested once.
func batches(postcodes []string, size int) [][]string {
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}

	seen := make(map[string]struct{}, len(postcodes))
	unique := make([]string, 0, len(postcodes))
	for _, p := range postcodes {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}

	var chunks [][]string
	for start := 0; start < len(unique); start += size {
		end := min(start+size, len(unique))
		chunks = append(chunks, unique[start:end])
	}
	return chunks
}
