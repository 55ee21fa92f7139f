package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/utils/errors"

	"github.com/gorilla/mux"
)

type RouteHandler struct {
	routeService *services.RouteService
}

func NewRouteHandler(routeService *services.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// requesterName reads the display name the client passes in a plain header.
// There is no cryptographic binding; the identity id from the optional access
// token is preferred wherever both exist.
func requesterName(r *http.Request) string {
	if name := r.Header.Get("X-User-Name"); name != "" {
		return name
	}
	return "Anonymous User"
}

func (h *RouteHandler) GetNearbyRoutes(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		middleware.WriteError(w, errors.NewAPIError("MISSING_COORDINATES", "Latitude and longitude are required", http.StatusBadRequest))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.routeService.Nearby(lat, lng))
}

func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	route, err := h.routeService.Get(id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(route)
}

func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Path        [][2]float64 `json:"path"`
		Difficulty  string       `json:"difficulty"`
		Duration    float64      `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	authorID, _ := r.Context().Value("userID").(string)
	route, err := h.routeService.Create(services.CreateRouteInput{
		Title:       input.Title,
		Description: input.Description,
		Path:        input.Path,
		Difficulty:  input.Difficulty,
		Duration:    input.Duration,
		Author:      requesterName(r),
		AuthorID:    authorID,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(route)
}

func (h *RouteHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	var input struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	review, err := h.routeService.AddReview(id, input.Rating, input.Text, requesterName(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	requesterID, _ := r.Context().Value("userID").(string)
	if err := h.routeService.Delete(id, requesterID, requesterName(r)); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Route deleted successfully"})
}

func (h *RouteHandler) FilterRoutes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var minRating float64
	if raw := query.Get("rating"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		minRating = parsed
	}

	routes := h.routeService.Filter(query.Get("distance"), minRating, query.Get("difficulty"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routes)
}
