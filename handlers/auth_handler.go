package handlers

import (
	"encoding/json"
	"net/http"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/utils/errors"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string         `json:"email"`
		Password    string         `json:"password"`
		Name        string         `json:"name"`
		Preferences map[string]any `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if input.Email == "" || input.Password == "" || input.Name == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Email, password and name are required", http.StatusBadRequest))
		return
	}

	user, access, refresh, err := h.authService.Register(r.Context(), input.Email, input.Password, input.Name, input.Preferences)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message":       "User registered successfully",
		"user":          user.Sanitized(),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if input.Email == "" || input.Password == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Email and password required", http.StatusBadRequest))
		return
	}

	user, access, refresh, err := h.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":       "Login successful",
		"user":          user.Sanitized(),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Refresh runs behind the refresh-token middleware, which puts the user id
// into the context.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	access, err := h.authService.Refresh(userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access_token": access})
}
