package models

type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Password    string         `json:"password,omitempty"`
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   string         `json:"created_at"`
	LastUpdated string         `json:"last_updated"`
}

// Sanitized returns a copy of the user with the password hash stripped,
// safe to send back to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// SafeUser is the minimal projection exposed in search results, friend lists
// and pending-request lists.
type SafeUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status,omitempty"`
	RequestTime string `json:"request_time,omitempty"`
}
