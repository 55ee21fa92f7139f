package handlers

import (
	"encoding/json"
	"net/http"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/utils/errors"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService   *services.UserService
	friendService *services.FriendService
}

func NewUserHandler(userService *services.UserService, friendService *services.FriendService) *UserHandler {
	return &UserHandler{userService: userService, friendService: friendService}
}

func currentUserID(r *http.Request) (string, error) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		return "", errors.ErrUnauthorized
	}
	return userID, nil
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	friends, err := h.friendService.Friends(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	requests, err := h.friendService.PendingRequests(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	safe := user.Sanitized()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":                     safe.ID,
		"email":                  safe.Email,
		"name":                   safe.Name,
		"preferences":            safe.Preferences,
		"created_at":             safe.CreatedAt,
		"last_updated":           safe.LastUpdated,
		"friend_count":           len(friends),
		"pending_requests_count": len(requests),
	})
}

func (h *UserHandler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var input struct {
		Name        *string        `json:"name"`
		Preferences map[string]any `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input.Name, input.Preferences)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "User updated successfully",
		"user":    user.Sanitized(),
	})
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" || input.Password == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Email and current password required", http.StatusBadRequest))
		return
	}

	user, err := h.userService.UpdateEmail(r.Context(), userID, input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Email updated successfully",
		"user":    user.Sanitized(),
	})
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CurrentPassword == "" || input.NewPassword == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Current password and new password required", http.StatusBadRequest))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated successfully"})
}

func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	prefs, err := h.userService.Preferences(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input) == 0 {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	prefs, err := h.userService.MergePreferences(r.Context(), userID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":     "Preferences updated successfully",
		"preferences": prefs,
	})
}

func (h *UserHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	key := mux.Vars(r)["key"]

	var input struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Value == nil {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Preference value required", http.StatusBadRequest))
		return
	}

	if err := h.userService.SetPreference(r.Context(), userID, key, input.Value); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Preference '" + key + "' updated successfully",
		"key":     key,
		"value":   input.Value,
	})
}

func (h *UserHandler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	key := mux.Vars(r)["key"]

	if err := h.userService.DeletePreference(r.Context(), userID, key); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Preference '" + key + "' deleted successfully"})
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	results, err := h.friendService.SearchUsers(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
