package store

import (
	"travel-server/models"
)

// RouteStore holds the walking-routes catalog. The catalog is a non-durable,
// single-process store: ids restart from 1 on every boot and nothing is
// persisted.
type RouteStore interface {
	ListRoutes() []models.Route
	GetRoute(id int) (models.Route, bool)
	// InsertRoute assigns the next route id and returns the stored route.
	InsertRoute(r models.Route) models.Route
	UpdateRoute(r models.Route) bool
	DeleteRoute(id int) bool
	// NextReviewID advances the process-lifetime review sequence.
	NextReviewID() int
}

// MemoryRouteStore keeps routes in an ordinary slice. Request handling is
// single-request-per-invocation; concurrent writers racing on the slice is a
// documented limitation of this demo store, not a guarantee.
type MemoryRouteStore struct {
	routes       []models.Route
	nextRouteID  int
	nextReviewID int
}

func NewMemoryRouteStore() *MemoryRouteStore {
	return &MemoryRouteStore{nextRouteID: 1, nextReviewID: 1}
}

func (s *MemoryRouteStore) ListRoutes() []models.Route {
	out := make([]models.Route, len(s.routes))
	copy(out, s.routes)
	return out
}

func (s *MemoryRouteStore) GetRoute(id int) (models.Route, bool) {
	for _, r := range s.routes {
		if r.ID == id {
			return r, true
		}
	}
	return models.Route{}, false
}

func (s *MemoryRouteStore) InsertRoute(r models.Route) models.Route {
	r.ID = s.nextRouteID
	s.nextRouteID++
	s.routes = append(s.routes, r)
	return r
}

func (s *MemoryRouteStore) UpdateRoute(r models.Route) bool {
	for i := range s.routes {
		if s.routes[i].ID == r.ID {
			s.routes[i] = r
			return true
		}
	}
	return false
}

func (s *MemoryRouteStore) DeleteRoute(id int) bool {
	for i := range s.routes {
		if s.routes[i].ID == id {
			s.routes = append(s.routes[:i], s.routes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MemoryRouteStore) NextReviewID() int {
	id := s.nextReviewID
	s.nextReviewID++
	return id
}
