package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"travel-server/handlers"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/store"
	"travel-server/utils/logger"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	envErr := godotenv.Load()
	logger.Init()
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file found, using environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set", nil)
	}

	// Redis backs the identity/social-graph keyspace and the rate cache.
	kv := newKV()

	userService := services.NewUserService(kv)
	authService := services.NewAuthService(userService, jwtSecret)
	friendService := services.NewFriendService(kv, userService)

	routeStore := store.NewMemoryRouteStore()
	routeService := services.NewRouteService(routeStore)
	if os.Getenv("SEED_ROUTES") == "true" {
		routeService.SeedSampleRoutes()
	}

	exchangeURL := os.Getenv("EXCHANGE_API_URL")
	if exchangeURL == "" {
		exchangeURL = "https://open.er-api.com/v6/latest"
	}
	currencyService := services.NewCurrencyService(kv, exchangeURL)
	translateService := services.NewTranslateService()

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, friendService)
	friendHandler := handlers.NewFriendHandler(friendService)
	routeHandler := handlers.NewRouteHandler(routeService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, translateService)

	r := mux.NewRouter()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes
	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	authRouter.Handle("/refresh",
		middleware.JWTMiddleware(jwtSecret, "refresh")(http.HandlerFunc(authHandler.Refresh)),
	).Methods("POST", "OPTIONS")

	// User routes (access token required)
	userRouter := api.PathPrefix("/users").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(jwtSecret, "access"))
	userRouter.HandleFunc("/me", userHandler.GetCurrentUser).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/me", userHandler.UpdateCurrentUser).Methods("PUT")
	userRouter.HandleFunc("/me/email", userHandler.UpdateEmail).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/me/password", userHandler.UpdatePassword).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/me/preferences", userHandler.GetPreferences).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/me/preferences", userHandler.UpdatePreferences).Methods("PUT")
	userRouter.HandleFunc("/me/preferences/{key}", userHandler.SetPreference).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/me/preferences/{key}", userHandler.DeletePreference).Methods("DELETE")
	userRouter.HandleFunc("/search", userHandler.SearchUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/me/friends", friendHandler.ListFriends).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/me/friend-requests", friendHandler.ListFriendRequests).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/{id}/friend-request", friendHandler.SendFriendRequest).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/{id}/friend-request/accept", friendHandler.AcceptFriendRequest).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/{id}/friend-request/reject", friendHandler.RejectFriendRequest).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/{id}/friend", friendHandler.RemoveFriend).Methods("DELETE", "OPTIONS")

	// Route catalog (identity optional; authorship binds to it when present)
	routeRouter := api.PathPrefix("/routes").Subrouter()
	routeRouter.Use(middleware.OptionalJWTMiddleware(jwtSecret))
	routeRouter.HandleFunc("/nearby", routeHandler.GetNearbyRoutes).Methods("GET", "OPTIONS")
	routeRouter.HandleFunc("/filter", routeHandler.FilterRoutes).Methods("GET", "OPTIONS")
	routeRouter.HandleFunc("", routeHandler.CreateRoute).Methods("POST", "OPTIONS")
	routeRouter.HandleFunc("/{id:[0-9]+}", routeHandler.GetRoute).Methods("GET", "OPTIONS")
	routeRouter.HandleFunc("/{id:[0-9]+}", routeHandler.DeleteRoute).Methods("DELETE")
	routeRouter.HandleFunc("/{id:[0-9]+}/reviews", routeHandler.AddReview).Methods("POST", "OPTIONS")

	// Currency and phrasebook
	api.HandleFunc("/exchange-rate", currencyHandler.GetExchangeRate).Methods("GET", "OPTIONS")
	api.HandleFunc("/convert", currencyHandler.Convert).Methods("GET", "OPTIONS")
	api.HandleFunc("/translate", currencyHandler.Translate).Methods("GET", "OPTIONS")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("Server starting", "port", port)
	logger.Fatal("Server stopped", http.ListenAndServe(":"+port, r))
}

// newKV connects to Redis when REDIS_ADDR is set and falls back to the
// in-memory store otherwise, so the server can run without infrastructure.
func newKV() store.KV {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		logger.Warn("REDIS_ADDR not set, using in-memory store (state is not durable)")
		return store.NewMemoryStore()
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			logger.Fatal("Invalid REDIS_DB value", err)
		}
		redisDB = db
	}

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   redisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	logger.Info("Connected to Redis", "addr", redisAddr, "db", redisDB)
	return store.NewRedisStore(client)
}
