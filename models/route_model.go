package models

// Route is a walking route. Path is an ordered sequence of [lat, lng] pairs;
// Distance is derived from Path and always computed server-side.
type Route struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Path        [][2]float64 `json:"path"`
	Distance    float64      `json:"distance"`
	Duration    float64      `json:"duration"`
	Difficulty  string       `json:"difficulty"`
	Rating      float64      `json:"rating"`
	Author      string       `json:"author"`
	AuthorID    string       `json:"author_id,omitempty"`
	CreatedAt   string       `json:"created_at"`
	Reviews     []Review     `json:"reviews"`
}

type Review struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

// NearbyRoute annotates a route with its distance from the queried point.
type NearbyRoute struct {
	Route
	DistanceToUser float64 `json:"distance_to_user"`
}
