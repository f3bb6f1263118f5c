package storeradius

import (
	"context"
	"log/slog"
	"sort"
)

// Finder answers store queries by combining the catalog with a Resolver.
// It holds no per-request state and is safe for concurrent use when its
// collaborators are.
type Finder struct {
	catalog  CatalogLoader
	resolver Resolver
	logger   *slog.Logger
}

func NewFinder(catalog CatalogLoader, resolver Resolver, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{
		catalog:  catalog,
		resolver: resolver,
		logger:   logger,
	}
}

// ListStores returns every catalog store with its coordinate, when known,
// sorted by name.
func (f *Finder) ListStores(ctx context.Context) []LocatedStore {
	stores := f.catalog.Load(ctx)
	coords := f.resolver.ResolveBulk(ctx, postcodesOf(stores))

	located := make([]LocatedStore, 0, len(stores))
	for _, s := range stores {
		ls := LocatedStore{Name: s.Name, Postcode: s.Postcode}
		if c, ok := coords.Lookup(s.Postcode); ok {
			ls.Latitude = &c.Latitude
			ls.Longitude = &c.Longitude
		}
		located = append(located, ls)
	}

	sort.SliceStable(located, func(i, j int) bool {
		return located[i].Name < located[j].Name
	})
	return located
}

// StoresInRadius returns the stores within radiusKm of postcode, north to
// south. An unresolvable query postcode yields no stores.
func (f *Finder) StoresInRadius(ctx context.Context, postcode string, radiusKm float64) []NearbyStore {
	origin, ok := f.resolver.Resolve(ctx, postcode)
	if !ok {
		f.logger.Warn("coordinates for postcode not found", "postcode", postcode)
		return []NearbyStore{}
	}

	stores := f.catalog.Load(ctx)
	coords := f.resolver.ResolveBulk(ctx, postcodesOf(stores))

	nearby := FilterByRadius(stores, coords, origin, radiusKm)
	SortNorthToSouth(nearby)

	f.logger.Debug("stores in radius", "postcode", postcode, "radius_km", radiusKm, "catalog", len(stores), "matched", len(nearby))
	return nearby
}

// FilterByRadius keeps the stores whose resolved coordinate lies at most
// radiusKm from origin. Stores without a coordinate are dropped.
func FilterByRadius(stores []Store, coords CoordinateMap, origin Coordinate, radiusKm float64) []NearbyStore {
	nearby := []NearbyStore{}
	for _, s := range stores {
		c, ok := coords.Lookup(s.Postcode)
		if !ok {
			continue
		}

		d := DistanceBetween(origin, c)
		if d <= radiusKm {
			nearby = append(nearby, NearbyStore{
				Name:      s.Name,
				Postcode:  s.Postcode,
				Latitude:  c.Latitude,
				Longitude: c.Longitude,
				Distance:  round2(d),
			})
		}
	}
	return nearby
}

// SortNorthToSouth orders stores by latitude, highest first. Equal
// latitudes keep their input order.
func SortNorthToSouth(stores []NearbyStore) {
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].Latitude > stores[j].Latitude
	})
}

func postcodesOf(stores []Store) []string {
	postcodes := make([]string, 0, len(stores))
	for _, s := range stores {
		postcodes = append(postcodes, s.Postcode)
	}
	return postcodes
}
