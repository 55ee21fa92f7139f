package middleware

import (
	"context"
	"net/http"
	"strings"
	"travel-server/utils/errors"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware rejects requests without a valid bearer token of the given
// type ("access" or "refresh") and puts the user id into the request context.
func JWTMiddleware(jwtSecret, tokenType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromHeader(r, jwtSecret, tokenType)
			if err != nil {
				WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware sets the user id in the context when a valid access
// token is present but lets unauthenticated requests through. Route mutations
// use this to bind authorship to an identity when one is available.
func OptionalJWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromHeader(r, jwtSecret, "access")
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), "userID", userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromHeader(r *http.Request, jwtSecret, tokenType string) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.ErrUnauthorized
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAPIError("INVALID_TOKEN", "Unexpected signing method", http.StatusUnauthorized)
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.ErrUnauthorized
	}
	if typ, _ := claims["type"].(string); typ != tokenType {
		return "", errors.ErrUnauthorized
	}
	userID, ok := claims["userID"].(string)
	if !ok || userID == "" {
		return "", errors.ErrUnauthorized
	}
	return userID, nil
}
