package services

import (
	"net/http"
	"sort"
	"time"
	"travel-server/models"
	"travel-server/store"
	"travel-server/utils/errors"
	"travel-server/utils/sanitize"
)

// Routes within this first-vertex distance count as "nearby".
const nearbyRadiusKm = 10

// RouteService owns the walking-routes catalog: nearby search, filtering,
// creation, reviews and author-only deletion.
type RouteService struct {
	routes store.RouteStore

	// nearbyDelay simulates upstream latency on nearby searches. Tests zero it.
	nearbyDelay time.Duration
}

func NewRouteService(routes store.RouteStore) *RouteService {
	return &RouteService{routes: routes, nearbyDelay: 500 * time.Millisecond}
}

type CreateRouteInput struct {
	Title       string
	Description string
	Path        [][2]float64
	Difficulty  string
	Duration    float64
	Author      string
	AuthorID    string
}

// Nearby returns routes whose first path vertex lies within 10 km of the
// given point, annotated with distance_to_user and sorted closest first.
func (s *RouteService) Nearby(lat, lng float64) []models.NearbyRoute {
	time.Sleep(s.nearbyDelay)

	nearby := make([]models.NearbyRoute, 0)
	for _, route := range s.routes.ListRoutes() {
		if len(route.Path) == 0 {
			continue
		}
		d := Haversine(lat, lng, route.Path[0][0], route.Path[0][1])
		if d <= nearbyRadiusKm {
			nearby = append(nearby, models.NearbyRoute{Route: route, DistanceToUser: round1(d)})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceToUser < nearby[j].DistanceToUser
	})
	return nearby
}

// Get returns the route with the given id, NotFound if absent.
func (s *RouteService) Get(id int) (models.Route, error) {
	route, ok := s.routes.GetRoute(id)
	if !ok {
		return models.Route{}, errors.NewAPIError("ROUTE_NOT_FOUND", "Route not found", http.StatusNotFound)
	}
	return route, nil
}

// Create validates the input and stores a new route. Distance is always
// computed server-side from the path; a client-supplied distance is ignored.
func (s *RouteService) Create(input CreateRouteInput) (models.Route, error) {
	switch {
	case input.Title == "":
		return models.Route{}, missingField("title")
	case input.Description == "":
		return models.Route{}, missingField("description")
	case len(input.Path) == 0:
		return models.Route{}, missingField("path")
	case input.Difficulty == "":
		return models.Route{}, missingField("difficulty")
	case input.Duration == 0:
		return models.Route{}, missingField("duration")
	}

	route := models.Route{
		Title:       sanitize.Text(input.Title),
		Description: sanitize.Text(input.Description),
		Path:        input.Path,
		Distance:    PathDistance(input.Path),
		Duration:    input.Duration,
		Difficulty:  input.Difficulty,
		Rating:      0,
		Author:      input.Author,
		AuthorID:    input.AuthorID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Reviews:     []models.Review{},
	}
	return s.routes.InsertRoute(route), nil
}

// AddReview appends a review and recomputes the route rating as the mean of
// all review ratings, rounded to 1 decimal.
func (s *RouteService) AddReview(routeID, rating int, text, author string) (models.Review, error) {
	if rating == 0 {
		return models.Review{}, missingField("rating")
	}
	if text == "" {
		return models.Review{}, missingField("text")
	}
	route, ok := s.routes.GetRoute(routeID)
	if !ok {
		return models.Review{}, errors.NewAPIError("ROUTE_NOT_FOUND", "Route not found", http.StatusNotFound)
	}

	review := models.Review{
		ID:     s.routes.NextReviewID(),
		Author: author,
		Rating: rating,
		Text:   sanitize.Text(text),
		Date:   time.Now().UTC().Format(time.RFC3339),
	}
	route.Reviews = append(route.Reviews, review)

	var sum int
	for _, r := range route.Reviews {
		sum += r.Rating
	}
	route.Rating = round1(float64(sum) / float64(len(route.Reviews)))

	s.routes.UpdateRoute(route)
	return review, nil
}

// Delete removes a route. Only the author may delete: when the route carries
// the creator's identity id the requester id must match; routes without one
// (seeded data) fall back to display-name equality.
func (s *RouteService) Delete(routeID int, requesterID, requesterName string) error {
	route, ok := s.routes.GetRoute(routeID)
	if !ok {
		return errors.NewAPIError("ROUTE_NOT_FOUND", "Route not found", http.StatusNotFound)
	}
	if route.AuthorID != "" {
		if route.AuthorID != requesterID {
			return errors.NewAPIError("NOT_AUTHOR", "You can only delete your own routes", http.StatusForbidden)
		}
	} else if route.Author != requesterName {
		return errors.NewAPIError("NOT_AUTHOR", "You can only delete your own routes", http.StatusForbidden)
	}
	s.routes.DeleteRoute(routeID)
	return nil
}

// Filter applies the given predicates conjunctively and sorts the result by
// rating, best first. Distance buckets: short <2km, medium 2-5km, long >5km.
func (s *RouteService) Filter(distanceBucket string, minRating float64, difficulty string) []models.Route {
	filtered := make([]models.Route, 0)
	for _, route := range s.routes.ListRoutes() {
		switch distanceBucket {
		case "short":
			if route.Distance >= 2 {
				continue
			}
		case "medium":
			if route.Distance < 2 || route.Distance > 5 {
				continue
			}
		case "long":
			if route.Distance <= 5 {
				continue
			}
		}
		if route.Rating < minRating {
			continue
		}
		if difficulty != "" && difficulty != "all" && route.Difficulty != difficulty {
			continue
		}
		filtered = append(filtered, route)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rating > filtered[j].Rating
	})
	return filtered
}

func missingField(field string) *errors.APIError {
	return errors.NewAPIError("MISSING_FIELD", "Missing required field: "+field, http.StatusBadRequest)
}
