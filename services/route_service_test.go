package services

import (
	"testing"
	"travel-server/models"
	"travel-server/store"
	"travel-server/utils/errors"
)

func newTestRouteService() (*RouteService, *store.MemoryRouteStore) {
	routes := store.NewMemoryRouteStore()
	svc := NewRouteService(routes)
	svc.nearbyDelay = 0
	return svc, routes
}

func validCreateInput() CreateRouteInput {
	return CreateRouteInput{
		Title:       "Riverside Walk",
		Description: "A peaceful walk along the river.",
		Path:        [][2]float64{{48.8566, 2.3522}, {48.8600, 2.3540}, {48.8650, 2.3560}},
		Difficulty:  "easy",
		Duration:    45,
		Author:      "Alice Smith",
		AuthorID:    "user-1",
	}
}

func TestCreateRoute(t *testing.T) {
	svc, _ := newTestRouteService()

	route, err := svc.Create(validCreateInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if route.ID != 1 {
		t.Errorf("route.ID = %d, want 1", route.ID)
	}
	if route.Rating != 0 {
		t.Errorf("route.Rating = %v, want 0", route.Rating)
	}
	if len(route.Reviews) != 0 {
		t.Errorf("len(route.Reviews) = %d, want 0", len(route.Reviews))
	}
	if want := PathDistance(route.Path); route.Distance != want {
		t.Errorf("route.Distance = %v, want server-computed %v", route.Distance, want)
	}

	second, err := svc.Create(validCreateInput())
	if err != nil {
		t.Fatalf("Create() second error = %v", err)
	}
	if second.ID != 2 {
		t.Errorf("second route ID = %d, want monotonic 2", second.ID)
	}
}

func TestCreateRouteMissingFields(t *testing.T) {
	svc, _ := newTestRouteService()

	tests := []struct {
		name   string
		mutate func(*CreateRouteInput)
	}{
		{"missing title", func(in *CreateRouteInput) { in.Title = "" }},
		{"missing description", func(in *CreateRouteInput) { in.Description = "" }},
		{"missing path", func(in *CreateRouteInput) { in.Path = nil }},
		{"missing difficulty", func(in *CreateRouteInput) { in.Difficulty = "" }},
		{"missing duration", func(in *CreateRouteInput) { in.Duration = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)
			_, err := svc.Create(input)
			apiErr, ok := err.(*errors.APIError)
			if !ok || apiErr.Status != 400 {
				t.Errorf("Create() error = %v, want 400 APIError", err)
			}
		})
	}
}

func TestAddReviewRating(t *testing.T) {
	svc, _ := newTestRouteService()
	route, _ := svc.Create(validCreateInput())

	if _, err := svc.AddReview(route.ID, 5, "Amazing views!", "Bob"); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}
	got, _ := svc.Get(route.ID)
	if got.Rating != 5.0 {
		t.Errorf("rating after single 5-star review = %v, want 5.0", got.Rating)
	}

	second, _ := svc.Create(validCreateInput())
	for _, rating := range []int{3, 4, 5} {
		if _, err := svc.AddReview(second.ID, rating, "Nice route", "Bob"); err != nil {
			t.Fatalf("AddReview(%d) error = %v", rating, err)
		}
	}
	got, _ = svc.Get(second.ID)
	if got.Rating != 4.0 {
		t.Errorf("rating after [3,4,5] = %v, want 4.0", got.Rating)
	}
	if len(got.Reviews) != 3 {
		t.Errorf("len(reviews) = %d, want 3", len(got.Reviews))
	}
}

func TestAddReviewValidation(t *testing.T) {
	svc, _ := newTestRouteService()
	route, _ := svc.Create(validCreateInput())

	if _, err := svc.AddReview(route.ID, 0, "text", "Bob"); err == nil {
		t.Error("AddReview() with missing rating, want error")
	}
	if _, err := svc.AddReview(route.ID, 4, "", "Bob"); err == nil {
		t.Error("AddReview() with missing text, want error")
	}
	_, err := svc.AddReview(999, 4, "text", "Bob")
	apiErr, ok := err.(*errors.APIError)
	if !ok || apiErr.Status != 404 {
		t.Errorf("AddReview() on missing route = %v, want 404", err)
	}
}

func TestDeleteRouteAuthorization(t *testing.T) {
	svc, routes := newTestRouteService()
	route, _ := svc.Create(validCreateInput()) // AuthorID user-1

	err := svc.Delete(route.ID, "user-2", "Alice Smith")
	apiErr, ok := err.(*errors.APIError)
	if !ok || apiErr.Status != 403 {
		t.Errorf("Delete() by non-author = %v, want 403", err)
	}

	if err := svc.Delete(route.ID, "user-1", "someone else"); err != nil {
		t.Fatalf("Delete() by author error = %v", err)
	}
	if _, err := svc.Get(route.ID); err == nil {
		t.Error("Get() after delete succeeded, want NotFound")
	}

	// Seeded routes carry no author id; deletion falls back to display name.
	legacy := routes.InsertRoute(models.Route{Title: "Old Trail", Author: "Carol Jones", Path: [][2]float64{{0, 0}}})
	if err := svc.Delete(legacy.ID, "", "Dave Brown"); err == nil {
		t.Error("Delete() legacy route with wrong name succeeded, want 403")
	}
	if err := svc.Delete(legacy.ID, "", "Carol Jones"); err != nil {
		t.Errorf("Delete() legacy route by author name error = %v", err)
	}

	err = svc.Delete(999, "user-1", "Alice Smith")
	if apiErr, ok := err.(*errors.APIError); !ok || apiErr.Status != 404 {
		t.Errorf("Delete() missing route = %v, want 404", err)
	}
}

func TestNearby(t *testing.T) {
	svc, routes := newTestRouteService()

	// First path vertex distances from (0,0): ~5.6km, ~1.1km, ~22.2km.
	routes.InsertRoute(models.Route{Title: "mid", Path: [][2]float64{{0.05, 0}}})
	routes.InsertRoute(models.Route{Title: "close", Path: [][2]float64{{0.01, 0}}})
	routes.InsertRoute(models.Route{Title: "far", Path: [][2]float64{{0.2, 0}}})

	nearby := svc.Nearby(0, 0)
	if len(nearby) != 2 {
		t.Fatalf("len(nearby) = %d, want 2", len(nearby))
	}
	if nearby[0].Title != "close" || nearby[1].Title != "mid" {
		t.Errorf("nearby order = [%s, %s], want ascending by distance [close, mid]", nearby[0].Title, nearby[1].Title)
	}
	for _, r := range nearby {
		if r.DistanceToUser > 10 {
			t.Errorf("route %q at %v km, want <= 10", r.Title, r.DistanceToUser)
		}
	}
	if nearby[0].DistanceToUser != 1.1 {
		t.Errorf("distance_to_user = %v, want 1.1", nearby[0].DistanceToUser)
	}
}

func TestFilterRoutes(t *testing.T) {
	svc, routes := newTestRouteService()
	routes.InsertRoute(models.Route{Title: "short-easy", Distance: 1.5, Rating: 3.0, Difficulty: "easy"})
	routes.InsertRoute(models.Route{Title: "short-hard", Distance: 1.0, Rating: 4.5, Difficulty: "hard"})
	routes.InsertRoute(models.Route{Title: "medium", Distance: 3.0, Rating: 5.0, Difficulty: "moderate"})
	routes.InsertRoute(models.Route{Title: "long", Distance: 8.0, Rating: 2.0, Difficulty: "hard"})

	short := svc.Filter("short", 0, "")
	if len(short) != 2 {
		t.Fatalf("Filter(short) len = %d, want 2", len(short))
	}
	for _, r := range short {
		if r.Distance >= 2 {
			t.Errorf("Filter(short) returned distance %v, want < 2", r.Distance)
		}
	}
	if short[0].Rating < short[1].Rating {
		t.Error("Filter() results not sorted by rating descending")
	}

	if got := svc.Filter("medium", 0, ""); len(got) != 1 || got[0].Title != "medium" {
		t.Errorf("Filter(medium) = %v, want [medium]", got)
	}
	if got := svc.Filter("long", 0, ""); len(got) != 1 || got[0].Title != "long" {
		t.Errorf("Filter(long) = %v, want [long]", got)
	}
	if got := svc.Filter("", 4.0, ""); len(got) != 2 {
		t.Errorf("Filter(rating>=4) len = %d, want 2", len(got))
	}
	if got := svc.Filter("", 0, "hard"); len(got) != 2 {
		t.Errorf("Filter(hard) len = %d, want 2", len(got))
	}
	if got := svc.Filter("", 0, "all"); len(got) != 4 {
		t.Errorf(`Filter(difficulty="all") len = %d, want 4`, len(got))
	}
	if got := svc.Filter("short", 4.0, "hard"); len(got) != 1 || got[0].Title != "short-hard" {
		t.Errorf("conjunctive Filter() = %v, want [short-hard]", got)
	}
}

func TestSeedSampleRoutes(t *testing.T) {
	svc, routes := newTestRouteService()
	svc.SeedSampleRoutes()

	all := routes.ListRoutes()
	if len(all) < 15 || len(all) > 25 {
		t.Fatalf("seeded %d routes, want 3-5 per city over 5 cities", len(all))
	}
	for _, r := range all {
		if len(r.Path) < 5 {
			t.Errorf("seeded route %d has %d path points, want >= 5", r.ID, len(r.Path))
		}
		if r.Difficulty != "easy" && r.Difficulty != "moderate" && r.Difficulty != "hard" {
			t.Errorf("seeded route %d difficulty = %q", r.ID, r.Difficulty)
		}
		for _, rev := range r.Reviews {
			if rev.Rating < 3 || rev.Rating > 5 {
				t.Errorf("seeded review rating = %d, want 3-5", rev.Rating)
			}
		}
		if want := PathDistance(r.Path); r.Distance != want {
			t.Errorf("seeded route %d distance = %v, want %v", r.ID, r.Distance, want)
		}
	}
}
