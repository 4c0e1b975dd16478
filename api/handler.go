package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thomhuang/AirportDistance/airport"
	"github.com/thomhuang/AirportDistance/geo"
	"github.com/thomhuang/AirportDistance/query"
)

// Handler exposes distance and airport lookup endpoints over one loaded
// registry.
type Handler struct {
	registry *airport.Registry
	resolver *query.Resolver
}

func NewHandler(registry *airport.Registry, resolver *query.Resolver) *Handler {
	return &Handler{registry: registry, resolver: resolver}
}

// Router returns the full API with middleware applied.
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(30*time.Second),
	)
	router.Mount("/api", h.Routes())
	return router
}

// Routes registers the API routes without middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/distance", h.distance)
	r.Get("/airports/{code}", h.getAirport)
	r.Get("/airports/{code}/nearby", h.nearby)
	return r
}

type unresolvedResponse struct {
	Error      string   `json:"error"`
	Unresolved []string `json:"unresolved"`
}

func (h *Handler) distance(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	unit := h.resolver.Unit()
	if raw := r.URL.Query().Get("unit"); raw != "" {
		u, err := geo.ParseUnit(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		unit = u
	}

	result, err := h.resolver.ResolveIn(from, to, unit)
	if err != nil {
		var ue *query.UnresolvedError
		if errors.As(err, &ue) {
			writeJSON(w, http.StatusNotFound, unresolvedResponse{Error: ue.Error(), Unresolved: ue.Codes})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve distance")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getAirport(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.Lookup(strings.TrimSpace(chi.URLParam(r, "code")))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type nearbyResponse struct {
	Airport  airport.Airport   `json:"airport"`
	RadiusKm float64           `json:"radius_km"`
	Nearby   []airport.Airport `json:"nearby"`
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.Lookup(strings.TrimSpace(chi.URLParam(r, "code")))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)
	if err != nil || !(radius > 0) {
		writeError(w, http.StatusBadRequest, "radius_km must be a positive number")
		return
	}

	nearby := h.registry.Within(a.Coord(), radius)
	if nearby == nil {
		nearby = []airport.Airport{}
	}
	writeJSON(w, http.StatusOK, nearbyResponse{Airport: a, RadiusKm: radius, Nearby: nearby})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
