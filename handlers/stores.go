package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/high-creek-software/storeradius"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

const (
	errMissingParams = "Missing postcode or radius parameter"
	errInvalidRadius = "Invalid radius value. It must be a number."
	errInvalidPaging = "Invalid page or page_size value. They must be integers."
	errPagingRange   = "Page and page_size must be greater than 0."
)

type radiusResponse struct {
	Stores      []storeradius.NearbyStore `json:"stores"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalStores int                       `json:"total_stores"`
	TotalPages  int                       `json:"total_pages"`
}

type listResponse struct {
	Stores []storeradius.LocatedStore `json:"stores"`
}

type radiusQuery struct {
	postcode string
	radiusKm float64
	page     int
	pageSize int
}

// parseRadiusQuery validates the query string, returning the client facing
// message when it is rejected.
func parseRadiusQuery(r *http.Request) (radiusQuery, string) {
	q := r.URL.Query()
	postcode := q.Get("postcode")
	radiusStr := strings.TrimSpace(q.Get("radius"))
	if postcode == "" || radiusStr == "" {
		return radiusQuery{}, errMissingParams
	}

	radius, err := strconv.ParseFloat(radiusStr, 64)
	if err != nil {
		return radiusQuery{}, errInvalidRadius
	}

	page, pageErr := intParam(q.Has("page"), q.Get("page"), defaultPage)
	pageSize, sizeErr := intParam(q.Has("page_size"), q.Get("page_size"), defaultPageSize)
	if pageErr != nil || sizeErr != nil {
		return radiusQuery{}, errInvalidPaging
	}

	if page < 1 || pageSize < 1 {
		return radiusQuery{}, errPagingRange
	}

	return radiusQuery{postcode: postcode, radiusKm: radius, page: page, pageSize: pageSize}, ""
}

func intParam(present bool, value string, def int) (int, error) {
	if !present {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func (h *Handler) HandleStoresInRadius(w http.ResponseWriter, r *http.Request) {
	query, msg := parseRadiusQuery(r)
	if msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	stores := h.finder.StoresInRadius(r.Context(), query.postcode, query.radiusKm)
	page := storeradius.Paginate(stores, query.page, query.pageSize)

	items := page.Items
	if items == nil {
		items = []storeradius.NearbyStore{}
	}

	h.writeJSON(w, http.StatusOK, radiusResponse{
		Stores:      items,
		Page:        page.Page,
		PageSize:    page.PageSize,
		TotalStores: page.TotalItems,
		TotalPages:  page.TotalPages,
	})
}

func (h *Handler) HandleListStores(w http.ResponseWriter, r *http.Request) {
	stores := h.finder.ListStores(r.Context())
	if stores == nil {
		stores = []storeradius.LocatedStore{}
	}
	h.writeJSON(w, http.StatusOK, listResponse{Stores: stores})
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	stores := h.finder.ListStores(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, struct {
		Stores []storeradius.LocatedStore
	}{Stores: stores}); err != nil {
		h.logger.Error("error rendering template", "err", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
	}
}
