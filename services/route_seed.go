package services

import (
	"math"
	"math/rand"
	"time"
	"travel-server/models"
	"travel-server/utils/logger"
)

// Seed coordinates for the sample catalog.
var seedCities = map[string][2]float64{
	"paris":   {48.856614, 2.3522219},
	"london":  {51.507351, -0.127758},
	"newyork": {40.712776, -74.005974},
	"tokyo":   {35.689487, 139.691711},
	"sydney":  {-33.868820, 151.209296},
}

var (
	routePrefixes = []string{"Scenic", "Historic", "Riverside", "Mountain", "Forest", "City", "Park", "Lake", "Coastal", "Village"}
	routeTypes    = []string{"Walk", "Trail", "Route", "Path", "Hike", "Stroll", "Trek", "Journey", "Loop"}

	routeDescriptions = []string{
		"A beautiful walk through nature with stunning views of the surrounding landscape.",
		"This historic route takes you past several landmarks and architectural gems.",
		"A peaceful walk along the river with plenty of spots to rest and enjoy the scenery.",
		"An invigorating trail with some elevation changes and spectacular viewpoints.",
		"A family-friendly route suitable for all ages and fitness levels.",
		"Discover hidden gems and local spots on this charming walk.",
		"A popular route loved by locals and visitors alike for its natural beauty.",
	}

	reviewTexts = []string{
		"Loved this walk! The views were amazing and the path was easy to follow.",
		"Nice route, but a bit crowded on weekends. Go early if you can.",
		"Great walk for the family. We saw lots of interesting sights along the way.",
		"The directions were spot on and the route was perfect for my fitness level.",
		"Beautiful scenery throughout the entire walk. Highly recommend!",
		"A lovely way to spend an afternoon. The route was well-marked and very scenic.",
		"Perfect length for a morning walk. Some parts were a bit challenging but worth it for the views.",
	}

	authorFirstNames = []string{"Alex", "Jamie", "Jordan", "Casey", "Taylor", "Morgan", "Riley", "Avery", "Quinn", "Skyler"}
	authorLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis", "Garcia", "Rodriguez", "Wilson"}
)

// SeedSampleRoutes fills the catalog with 3-5 generated routes around each
// seed city. Intended for demo runs without real data.
func (s *RouteService) SeedSampleRoutes() {
	count := 0
	for _, coords := range seedCities {
		n := 3 + rand.Intn(3)
		for i := 0; i < n; i++ {
			s.routes.InsertRoute(s.generateRoute(coords[0], coords[1]))
			count++
		}
	}
	logger.Info("Seeded sample routes", "count", count)
}

func (s *RouteService) generateRoute(baseLat, baseLng float64) models.Route {
	pathLength := 5 + rand.Intn(11)
	path := make([][2]float64, 0, pathLength)

	// Start point, slightly offset from the city center.
	path = append(path, [2]float64{
		baseLat + (rand.Float64()*0.01 - 0.005),
		baseLng + (rand.Float64()*0.01 - 0.005),
	})
	for j := 1; j < pathLength; j++ {
		path = append(path, [2]float64{
			path[j-1][0] + (rand.Float64()*0.004 - 0.002),
			path[j-1][1] + (rand.Float64()*0.004 - 0.002),
		})
	}

	distance := PathDistance(path)

	reviews := make([]models.Review, 0)
	for k := 0; k < rand.Intn(6); k++ {
		reviews = append(reviews, models.Review{
			ID:     s.routes.NextReviewID(),
			Author: randomAuthor(),
			Rating: 3 + rand.Intn(3),
			Text:   reviewTexts[rand.Intn(len(reviewTexts))],
			Date:   daysAgo(1 + rand.Intn(30)),
		})
	}
	var rating float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = round1(float64(sum) / float64(len(reviews)))
	}

	return models.Route{
		Title:       routePrefixes[rand.Intn(len(routePrefixes))] + " " + routeTypes[rand.Intn(len(routeTypes))],
		Description: routeDescriptions[rand.Intn(len(routeDescriptions))],
		Path:        path,
		Distance:    distance,
		Duration:    math.Round(distance * 12), // approx walking minutes
		Difficulty:  randomDifficulty(),
		Rating:      rating,
		Author:      randomAuthor(),
		CreatedAt:   daysAgo(1 + rand.Intn(60)),
		Reviews:     reviews,
	}
}

// 50% easy, 30% moderate, 20% hard.
func randomDifficulty() string {
	r := rand.Float64()
	switch {
	case r < 0.5:
		return "easy"
	case r < 0.8:
		return "moderate"
	default:
		return "hard"
	}
}

func randomAuthor() string {
	return authorFirstNames[rand.Intn(len(authorFirstNames))] + " " + authorLastNames[rand.Intn(len(authorLastNames))]
}

func daysAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
}
