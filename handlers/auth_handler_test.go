package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/store"

	"github.com/gorilla/mux"
)

// testRouter wires the auth and user surface against the in-memory store,
// mirroring the wiring in main.go.
func testRouter() *mux.Router {
	const secret = "test-secret"
	kv := store.NewMemoryStore()
	userService := services.NewUserService(kv)
	authService := services.NewAuthService(userService, secret)
	friendService := services.NewFriendService(kv, userService)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, friendService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRouter.Handle("/refresh",
		middleware.JWTMiddleware(secret, "refresh")(http.HandlerFunc(authHandler.Refresh)),
	).Methods("POST")

	userRouter := api.PathPrefix("/users").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(secret, "access"))
	userRouter.HandleFunc("/me", userHandler.GetCurrentUser).Methods("GET")

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	decoded := map[string]any{}
	json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestAuthFlow(t *testing.T) {
	r := testRouter()

	rec, body := doJSON(t, r, "POST", "/api/auth/register", "", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter22",
		"name":     "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatal("register response missing tokens")
	}
	if user, ok := body["user"].(map[string]any); !ok || user["password"] != nil {
		t.Error("register response leaks password or has no user")
	}

	// Duplicate email conflicts.
	rec, _ = doJSON(t, r, "POST", "/api/auth/register", "", map[string]any{
		"email": "alice@example.com", "password": "x", "name": "Alice2",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}

	// The access token opens protected routes.
	rec, body = doJSON(t, r, "GET", "/api/users/me", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /users/me status = %d", rec.Code)
	}
	if body["email"] != "alice@example.com" {
		t.Errorf("me.email = %v", body["email"])
	}
	if _, ok := body["friend_count"]; !ok {
		t.Error("me response missing friend_count")
	}

	// A refresh token does not: wrong type.
	rec, _ = doJSON(t, r, "GET", "/api/users/me", refresh, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /users/me with refresh token status = %d, want 401", rec.Code)
	}

	// And the refresh endpoint rejects access tokens but mints from refresh.
	rec, _ = doJSON(t, r, "POST", "/api/auth/refresh", access, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token status = %d, want 401", rec.Code)
	}
	rec, body = doJSON(t, r, "POST", "/api/auth/refresh", refresh, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", rec.Code)
	}
	newAccess, _ := body["access_token"].(string)
	if newAccess == "" {
		t.Fatal("refresh returned no access token")
	}
	if rec, _ = doJSON(t, r, "GET", "/api/users/me", newAccess, nil); rec.Code != http.StatusOK {
		t.Errorf("refreshed access token rejected, status = %d", rec.Code)
	}

	// Login with the registered credentials.
	rec, _ = doJSON(t, r, "POST", "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200", rec.Code)
	}
	rec, _ = doJSON(t, r, "POST", "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
}
