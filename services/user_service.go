package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"travel-server/models"
	"travel-server/store"
	"travel-server/utils/errors"
	"travel-server/utils/sanitize"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns user records in the key-value store. Records live at
// user:{id} with a secondary index user:email:{email} -> id.
type UserService struct {
	kv store.KV
}

func NewUserService(kv store.KV) *UserService {
	return &UserService{kv: kv}
}

func userKey(id string) string          { return "user:" + id }
func emailIndexKey(email string) string { return "user:email:" + email }

// GetUserByID retrieves a user record, errors.ErrNotFound if absent.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	data, err := s.kv.Get(ctx, userKey(userID))
	if err == store.ErrNotFound {
		return models.User{}, errors.ErrNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "STORE_ERROR", "Failed to load user", http.StatusInternalServerError)
	}
	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return models.User{}, errors.Wrap(err, "STORE_ERROR", "Corrupt user record", http.StatusInternalServerError)
	}
	return user, nil
}

// GetUserByEmail resolves the email index and loads the user.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	userID, err := s.kv.Get(ctx, emailIndexKey(email))
	if err == store.ErrNotFound {
		return models.User{}, errors.ErrNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "STORE_ERROR", "Failed to resolve email", http.StatusInternalServerError)
	}
	return s.GetUserByID(ctx, userID)
}

// SaveUser writes the full user record and the email index. A missing id gets
// a fresh UUID; created_at is set on first save and last_updated is bumped on
// every save.
func (s *UserService) SaveUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == "" {
		user.CreatedAt = now
	}
	user.LastUpdated = now
	if user.Preferences == nil {
		user.Preferences = map[string]any{}
	}

	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "STORE_ERROR", "Failed to marshal user", http.StatusInternalServerError)
	}
	if err := s.kv.Set(ctx, userKey(user.ID), string(data), 0); err != nil {
		return errors.Wrap(err, "STORE_ERROR", "Failed to save user", http.StatusInternalServerError)
	}
	if err := s.kv.Set(ctx, emailIndexKey(user.Email), user.ID, 0); err != nil {
		return errors.Wrap(err, "STORE_ERROR", "Failed to save email index", http.StatusInternalServerError)
	}
	return nil
}

// UpdateProfile applies the allowed profile fields (name, preferences).
func (s *UserService) UpdateProfile(ctx context.Context, userID string, name *string, preferences map[string]any) (models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if name != nil {
		user.Name = sanitize.Text(*name)
	}
	if preferences != nil {
		user.Preferences = preferences
	}
	if err := s.SaveUser(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateEmail re-verifies the password, rejects no-op and duplicate emails,
// and rewrites the email index.
func (s *UserService) UpdateEmail(ctx context.Context, userID, newEmail, password string) (models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, errors.NewAPIError("INVALID_CREDENTIALS", "Incorrect password", http.StatusUnauthorized)
	}
	if newEmail == user.Email {
		return models.User{}, errors.NewAPIError("SAME_EMAIL", "New email must be different from current email", http.StatusBadRequest)
	}
	if _, err := s.kv.Get(ctx, emailIndexKey(newEmail)); err == nil {
		return models.User{}, errors.NewAPIError("EMAIL_TAKEN", "Email already in use", http.StatusConflict)
	}

	if err := s.kv.Delete(ctx, emailIndexKey(user.Email)); err != nil {
		return models.User{}, errors.Wrap(err, "STORE_ERROR", "Failed to drop old email index", http.StatusInternalServerError)
	}
	user.Email = newEmail
	if err := s.SaveUser(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdatePassword re-verifies the current password and stores a fresh hash.
func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return errors.NewAPIError("INVALID_CREDENTIALS", "Current password is incorrect", http.StatusUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}
	user.Password = string(hash)
	return s.SaveUser(ctx, &user)
}

// Preferences returns the full preference map.
func (s *UserService) Preferences(ctx context.Context, userID string) (map[string]any, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Preferences, nil
}

// MergePreferences merges the given key-value pairs into the existing map.
func (s *UserService) MergePreferences(ctx context.Context, userID string, prefs map[string]any) (map[string]any, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for key, value := range prefs {
		user.Preferences[key] = value
	}
	if err := s.SaveUser(ctx, &user); err != nil {
		return nil, err
	}
	return user.Preferences, nil
}

// SetPreference sets a single preference key.
func (s *UserService) SetPreference(ctx context.Context, userID, key string, value any) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Preferences[key] = value
	return s.SaveUser(ctx, &user)
}

// DeletePreference removes a single preference key, NotFound if absent.
func (s *UserService) DeletePreference(ctx context.Context, userID, key string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := user.Preferences[key]; !ok {
		return errors.NewAPIError("PREFERENCE_NOT_FOUND", "Preference '"+key+"' not found", http.StatusNotFound)
	}
	delete(user.Preferences, key)
	return s.SaveUser(ctx, &user)
}
