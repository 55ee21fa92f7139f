package services

import (
	"context"
	"net/http"
	"time"
	"travel-server/models"
	"travel-server/utils/errors"
	"travel-server/utils/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// AuthService issues access/refresh token pairs and owns registration and
// login on top of the user store.
type AuthService struct {
	users     *UserService
	jwtSecret string
}

func NewAuthService(users *UserService, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

// Register creates a new user, hashing the password with bcrypt. Fails with a
// 409 when the email is already indexed.
func (s *AuthService) Register(ctx context.Context, email, password, name string, preferences map[string]any) (models.User, string, string, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, "", "", errors.NewAPIError("EMAIL_TAKEN", "Email already registered", http.StatusConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", "", errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	user := models.User{
		Email:       email,
		Password:    string(hash),
		Name:        sanitize.Text(name),
		Preferences: preferences,
	}
	if err := s.users.SaveUser(ctx, &user); err != nil {
		return models.User{}, "", "", err
	}

	access, refresh, err := s.tokenPair(user.ID)
	if err != nil {
		return models.User{}, "", "", err
	}
	return user, access, refresh, nil
}

// Login verifies the credentials and returns the user with a fresh token
// pair. Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, string, error) {
	invalid := errors.NewAPIError("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", "", invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", "", invalid
	}

	access, refresh, err := s.tokenPair(user.ID)
	if err != nil {
		return models.User{}, "", "", err
	}
	return user, access, refresh, nil
}

// Refresh issues a new access token for an already-validated refresh
// credential.
func (s *AuthService) Refresh(userID string) (string, error) {
	return s.generateToken(userID, "access", accessTokenTTL)
}

func (s *AuthService) tokenPair(userID string) (string, string, error) {
	access, err := s.generateToken(userID, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.generateToken(userID, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *AuthService) generateToken(userID, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": userID,
		"type":   tokenType,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}
	return signed, nil
}
