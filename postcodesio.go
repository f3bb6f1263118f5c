package storeradius

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// DefaultPostcodesURL is the public postcodes.io lookup endpoint.
const DefaultPostcodesURL = "https://api.postcodes.io/postcodes/"

type postcodesResult struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type postcodesLookupResponse struct {
	Status int              `json:"status"`
	Error  string           `json:"error"`
	Result *postcodesResult `json:"result"`
}

type postcodesBulkResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Result *[]struct {
		Query  string           `json:"query"`
		Result *postcodesResult `json:"result"`
	} `json:"result"`
}

type postcodesBulkRequest struct {
	Postcodes []string `json:"postcodes"`
}

// PostcodesIO resolves postcodes against a postcodes.io compatible API.
type PostcodesIO struct {
	baseURL    string
	batchSize  int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPostcodesIO builds a resolver for baseURL, which must end with the
// path the postcode is appended to (for example
// "https://api.postcodes.io/postcodes/"). A nil client uses
// http.DefaultClient.
func NewPostcodesIO(baseURL string, batchSize int, client *http.Client, logger *slog.Logger) *PostcodesIO {
	if baseURL == "" {
		baseURL = DefaultPostcodesURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostcodesIO{
		baseURL:    baseURL,
		batchSize:  batchSize,
		httpClient: client,
		logger:     logger,
	}
}

func (p *PostcodesIO) Resolve(ctx context.Context, postcode string) (Coordinate, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+url.PathEscape(postcode), nil)
	if err != nil {
		p.logger.Error("error building postcode lookup", "postcode", postcode, "err", err)
		return Coordinate{}, false
	}

	var body postcodesLookupResponse
	status, err := p.do(req, &body)
	if err != nil {
		p.logger.Error("error looking up postcode", "postcode", postcode, "err", err)
		return Coordinate{}, false
	}
	if status != http.StatusOK || body.Result == nil {
		p.logger.Warn("postcode not resolved", "postcode", postcode, "err", &ProviderError{Status: status, Message: body.Error})
		return Coordinate{}, false
	}
	if body.Result.Latitude == nil || body.Result.Longitude == nil {
		p.logger.Warn("postcode has no coordinates", "postcode", postcode)
		return Coordinate{}, false
	}

	return Coordinate{Latitude: *body.Result.Latitude, Longitude: *body.Result.Longitude}, true
}

func (p *PostcodesIO) ResolveBulk(ctx context.Context, postcodes []string) CoordinateMap {
	coords := make(CoordinateMap, len(postcodes))
	for _, chunk := range batches(postcodes, p.batchSize) {
		if err := p.resolveBatch(ctx, chunk, coords); err != nil {
			p.logger.Error("error fetching postcode batch", "size", len(chunk), "err", err)
		}
	}
	return coords
}

func (p *PostcodesIO) resolveBatch(ctx context.Context, chunk []string, coords CoordinateMap) error {
	payload, err := json.Marshal(postcodesBulkRequest{Postcodes: chunk})
	if err != nil {
		return errors.Wrap(err, "encoding bulk payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building bulk request")
	}
	req.Header.Set("Content-Type", "application/json")

	var body postcodesBulkResponse
	status, err := p.do(req, &body)
	if err != nil {
		return err
	}
	if status != http.StatusOK || body.Result == nil {
		return &ProviderError{Status: status, Message: body.Error}
	}

	for _, r := range *body.Result {
		if r.Result == nil || r.Result.Latitude == nil || r.Result.Longitude == nil {
			continue
		}
		coords[r.Query] = Coordinate{Latitude: *r.Result.Latitude, Longitude: *r.Result.Longitude}
	}
	return nil
}

// do sends req and decodes the JSON body into out. A body that is not JSON
// is only an error when the status is a success.
func (p *PostcodesIO) do(req *http.Request, out any) (int, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "calling geocoding provider")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode == http.StatusOK {
		return resp.StatusCode, errors.Wrap(err, "decoding geocoding response")
	}
	return resp.StatusCode, nil
}
