package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/high-creek-software/storeradius"
)

//go:embed templates/*.html
var templateFS embed.FS

// StoreFinder is what the handlers need from the core.
type StoreFinder interface {
	ListStores(ctx context.Context) []storeradius.LocatedStore
	StoresInRadius(ctx context.Context, postcode string, radiusKm float64) []storeradius.NearbyStore
}

type Handler struct {
	finder StoreFinder
	tmpl   *template.Template
	logger *slog.Logger
}

// New returns the HTTP surface over finder, with request logging.
func New(finder StoreFinder, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := LoadTemplate()
	if err != nil {
		return nil, err
	}

	h := &Handler{finder: finder, tmpl: tmpl, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("GET /stores", h.HandleListStores)
	mux.HandleFunc("GET /stores_in_radius", h.HandleStoresInRadius)
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return RequestLogger(logger)(mux), nil
}

func LoadTemplate() (*template.Template, error) {
	return template.New("index.html").Funcs(template.FuncMap{
		"coord": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return strconv.FormatFloat(*v, 'f', -1, 64)
		},
	}).ParseFS(templateFS, "templates/index.html")
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("error encoding response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"Error": message})
}
