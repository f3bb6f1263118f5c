package storeradius_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/high-creek-software/storeradius"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakePostcodes is a postcodes.io stand-in. Known postcodes resolve, batches
// containing a postcode in failBatch are answered with a 500.
type fakePostcodes struct {
	mu         sync.Mutex
	known      map[string]storeradius.Coordinate
	failBatch  string
	batchSizes []int
	lookups    []string
}

func (f *fakePostcodes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		postcode := strings.TrimPrefix(r.URL.Path, "/postcodes/")
		f.lookups = append(f.lookups, postcode)
		c, ok := f.known[postcode]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":404,"error":"Postcode not found"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": 200, "result": c})

	case http.MethodPost:
		var req struct {
			Postcodes []string `json:"postcodes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"status":400,"error":"Invalid JSON"}`)
			return
		}
		f.batchSizes = append(f.batchSizes, len(req.Postcodes))

		type item struct {
			Query  string                  `json:"query"`
			Result *storeradius.Coordinate `json:"result"`
		}
		results := make([]item, 0, len(req.Postcodes))
		for _, p := range req.Postcodes {
			if p == f.failBatch {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"status":500,"error":"boom"}`)
				return
			}
			it := item{Query: p}
			if c, ok := f.known[p]; ok {
				it.Result = &c
			}
			results = append(results, it)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": 200, "result": results})
	}
}

func newFakeProvider(t *testing.T, fake *fakePostcodes, batchSize int) *storeradius.PostcodesIO {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return storeradius.NewPostcodesIO(srv.URL+"/postcodes/", batchSize, srv.Client(), discard)
}

func manyPostcodes(n int) ([]string, map[string]storeradius.Coordinate) {
	postcodes := make([]string, n)
	known := make(map[string]storeradius.Coordinate, n)
	for i := range postcodes {
		p := fmt.Sprintf("PC%03d 1AA", i)
		postcodes[i] = p
		known[p] = storeradius.Coordinate{Latitude: 50 + float64(i)/1000, Longitude: -1}
	}
	return postcodes, known
}

func TestResolve(t *testing.T) {
	fake := &fakePostcodes{known: map[string]storeradius.Coordinate{
		"E15 2SR": {Latitude: 51.5074, Longitude: -0.1278},
	}}
	p := newFakeProvider(t, fake, 100)

	c, ok := p.Resolve(context.Background(), "E15 2SR")
	require.True(t, ok)
	assert.Equal(t, storeradius.Coordinate{Latitude: 51.5074, Longitude: -0.1278}, c)

	_, ok = p.Resolve(context.Background(), "ZZ1 1ZZ")
	assert.False(t, ok)
	assert.Equal(t, []string{"E15 2SR", "ZZ1 1ZZ"}, fake.lookups)
}

func TestResolveMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":200,"result":`)
	}))
	defer srv.Close()

	p := storeradius.NewPostcodesIO(srv.URL+"/", 100, srv.Client(), discard)
	_, ok := p.Resolve(context.Background(), "E15 2SR")
	assert.False(t, ok)
}

func TestResolveNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := storeradius.NewPostcodesIO(url+"/", 100, nil, discard)
	_, ok := p.Resolve(context.Background(), "E15 2SR")
	assert.False(t, ok)
	assert.Empty(t, p.ResolveBulk(context.Background(), []string{"E15 2SR"}))
}

func TestResolveBulkEmptySkipsProvider(t *testing.T) {
	fake := &fakePostcodes{}
	p := newFakeProvider(t, fake, 100)

	coords := p.ResolveBulk(context.Background(), nil)
	assert.NotNil(t, coords)
	assert.Empty(t, coords)
	assert.Empty(t, fake.batchSizes)
}

func TestResolveBulkBatches(t *testing.T) {
	postcodes, known := manyPostcodes(250)
	fake := &fakePostcodes{known: known}
	p := newFakeProvider(t, fake, 100)

	coords := p.ResolveBulk(context.Background(), postcodes)
	assert.Equal(t, []int{100, 100, 50}, fake.batchSizes)
	assert.Len(t, coords, 250)
	assert.Equal(t, known["PC249 1AA"], coords["PC249 1AA"])
}

func TestResolveBulkBatchSizeIsCapped(t *testing.T) {
	postcodes, known := manyPostcodes(150)
	fake := &fakePostcodes{known: known}
	p := newFakeProvider(t, fake, 500)

	p.ResolveBulk(context.Background(), postcodes)
	assert.Equal(t, []int{100, 50}, fake.batchSizes)
}

func TestResolveBulkOmitsUnresolvable(t *testing.T) {
	fake := &fakePostcodes{known: map[string]storeradius.Coordinate{
		"E15 2SR": {Latitude: 51.5074, Longitude: -0.1278},
	}}
	p := newFakeProvider(t, fake, 100)

	coords := p.ResolveBulk(context.Background(), []string{"E15 2SR", "NOPE", "E15 2SR"})
	assert.Equal(t, storeradius.CoordinateMap{"E15 2SR": {Latitude: 51.5074, Longitude: -0.1278}}, coords)
	assert.Equal(t, []int{2}, fake.batchSizes)
}

func TestResolveBulkToleratesFailedBatch(t *testing.T) {
	postcodes, known := manyPostcodes(250)
	fake := &fakePostcodes{known: known, failBatch: "PC150 1AA"}
	p := newFakeProvider(t, fake, 100)

	coords := p.ResolveBulk(context.Background(), postcodes)
	assert.Equal(t, []int{100, 100, 50}, fake.batchSizes)
	assert.Len(t, coords, 150)
	assert.Contains(t, coords, "PC099 1AA")
	assert.NotContains(t, coords, "PC150 1AA")
	assert.Contains(t, coords, "PC200 1AA")
}

func TestProviderError(t *testing.T) {
	err := &storeradius.ProviderError{Status: 500, Message: "boom"}
	assert.Equal(t, "geocoding provider returned status 500: boom", err.Error())
	assert.Equal(t, "geocoding provider returned status 404", (&storeradius.ProviderError{Status: 404}).Error())
}
