package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"travel-server/models"
	"travel-server/store"
	"travel-server/utils/errors"
	"travel-server/utils/logger"
)

const maxSearchResults = 20

// FriendService models the social graph over the key-value store: an
// undirected friendship relation (friends:{id} sets, kept symmetric) and a
// directed pending-request relation (friend_requests:{id} holds the ids of
// users who asked to friend {id}).
//
// Individual set operations are atomic but there is no cross-key transaction,
// so concurrent mutual requests on the same pair can race. Known limitation.
type FriendService struct {
	kv    store.KV
	users *UserService
}

func NewFriendService(kv store.KV, users *UserService) *FriendService {
	return &FriendService{kv: kv, users: users}
}

func friendsKey(id string) string  { return "friends:" + id }
func requestsKey(id string) string { return "friend_requests:" + id }
func requestTimeKey(to, from string) string {
	return "friend_request_time:" + to + ":" + from
}

// SendRequest records a pending request from -> to. A pending request in the
// opposite direction collapses into mutual friendship instead of leaving
// duplicate requests in both directions.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID string) (string, error) {
	if fromID == toID {
		return "", errors.NewAPIError("SELF_REQUEST", "Cannot send friend request to yourself", http.StatusBadRequest)
	}
	if _, err := s.users.GetUserByID(ctx, fromID); err != nil {
		return "", err
	}
	if _, err := s.users.GetUserByID(ctx, toID); err != nil {
		return "", err
	}

	if pending, err := s.kv.SetContains(ctx, requestsKey(toID), fromID); err != nil {
		return "", storeErr(err)
	} else if pending {
		return "", errors.NewAPIError("REQUEST_PENDING", "Friend request already sent", http.StatusBadRequest)
	}

	if friends, err := s.kv.SetContains(ctx, friendsKey(fromID), toID); err != nil {
		return "", storeErr(err)
	} else if friends {
		return "", errors.NewAPIError("ALREADY_FRIENDS", "Already friends with this user", http.StatusBadRequest)
	}

	// Reciprocal collapse: if the recipient already asked us, accept instead
	// of stacking a second pending request.
	if opposite, err := s.kv.SetContains(ctx, requestsKey(fromID), toID); err != nil {
		return "", storeErr(err)
	} else if opposite {
		if err := s.befriend(ctx, fromID, toID); err != nil {
			return "", err
		}
		logger.Info("Reciprocal friend request collapsed", "from", fromID, "to", toID)
		return "Friend request accepted automatically", nil
	}

	if err := s.kv.SetAdd(ctx, requestsKey(toID), fromID); err != nil {
		return "", storeErr(err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.kv.Set(ctx, requestTimeKey(toID, fromID), now, 0); err != nil {
		return "", storeErr(err)
	}
	return "Friend request sent", nil
}

// AcceptRequest resolves a pending request into mutual friendship.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requesterID string) error {
	pending, err := s.kv.SetContains(ctx, requestsKey(userID), requesterID)
	if err != nil {
		return storeErr(err)
	}
	if !pending {
		return errors.NewAPIError("REQUEST_NOT_FOUND", "No friend request found", http.StatusNotFound)
	}
	return s.befriend(ctx, userID, requesterID)
}

// RejectRequest drops a pending request without creating a friendship.
func (s *FriendService) RejectRequest(ctx context.Context, userID, requesterID string) error {
	pending, err := s.kv.SetContains(ctx, requestsKey(userID), requesterID)
	if err != nil {
		return storeErr(err)
	}
	if !pending {
		return errors.NewAPIError("REQUEST_NOT_FOUND", "No friend request found", http.StatusNotFound)
	}
	if err := s.kv.SetRemove(ctx, requestsKey(userID), requesterID); err != nil {
		return storeErr(err)
	}
	return s.kv.Delete(ctx, requestTimeKey(userID, requesterID))
}

// RemoveFriend removes the pair from both friend sets. Idempotent.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, otherID string) error {
	if err := s.kv.SetRemove(ctx, friendsKey(userID), otherID); err != nil {
		return storeErr(err)
	}
	return s.kv.SetRemove(ctx, friendsKey(otherID), userID)
}

// Friends lists the user's friends as minimal-safe projections.
func (s *FriendService) Friends(ctx context.Context, userID string) ([]models.SafeUser, error) {
	ids, err := s.kv.SetMembers(ctx, friendsKey(userID))
	if err != nil {
		return nil, storeErr(err)
	}
	friends := make([]models.SafeUser, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetUserByID(ctx, id)
		if err != nil {
			continue
		}
		friends = append(friends, models.SafeUser{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	return friends, nil
}

// PendingRequests lists received requests, annotated with the request time.
func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]models.SafeUser, error) {
	ids, err := s.kv.SetMembers(ctx, requestsKey(userID))
	if err != nil {
		return nil, storeErr(err)
	}
	requests := make([]models.SafeUser, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetUserByID(ctx, id)
		if err != nil {
			continue
		}
		requestTime, err := s.kv.Get(ctx, requestTimeKey(userID, id))
		if err != nil {
			requestTime = time.Now().UTC().Format(time.RFC3339)
		}
		requests = append(requests, models.SafeUser{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			RequestTime: requestTime,
		})
	}
	return requests, nil
}

// RelationStatus classifies the edge between two users as friend,
// received_request, sent_request or none, from userID's point of view.
func (s *FriendService) RelationStatus(ctx context.Context, userID, otherID string) (string, error) {
	if friends, err := s.kv.SetContains(ctx, friendsKey(userID), otherID); err != nil {
		return "", storeErr(err)
	} else if friends {
		return "friend", nil
	}
	if received, err := s.kv.SetContains(ctx, requestsKey(userID), otherID); err != nil {
		return "", storeErr(err)
	} else if received {
		return "received_request", nil
	}
	if sent, err := s.kv.SetContains(ctx, requestsKey(otherID), userID); err != nil {
		return "", storeErr(err)
	} else if sent {
		return "sent_request", nil
	}
	return "none", nil
}

// SearchUsers matches the query case-insensitively against name and email of
// every user except the caller, annotating each hit with its relation status.
// Capped at 20 results.
func (s *FriendService) SearchUsers(ctx context.Context, userID, query string) ([]models.SafeUser, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 3 {
		return nil, errors.NewAPIError("QUERY_TOO_SHORT", "Search query must be at least 3 characters", http.StatusBadRequest)
	}

	keys, err := s.kv.Keys(ctx, "user:*")
	if err != nil {
		return nil, storeErr(err)
	}

	results := make([]models.SafeUser, 0)
	for _, key := range keys {
		// Skip the email index and the caller's own record.
		if strings.HasPrefix(key, "user:email:") || key == userKey(userID) {
			continue
		}
		data, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var user models.User
		if err := json.Unmarshal([]byte(data), &user); err != nil {
			logger.Warn("Skipping corrupt user record in search", "key", key)
			continue
		}
		if !strings.Contains(strings.ToLower(user.Name), query) &&
			!strings.Contains(strings.ToLower(user.Email), query) {
			continue
		}
		status, err := s.RelationStatus(ctx, userID, user.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SafeUser{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Status: status,
		})
		if len(results) == maxSearchResults {
			break
		}
	}
	return results, nil
}

// befriend inserts the symmetric friendship edge and clears the pending
// request and its timestamp.
func (s *FriendService) befriend(ctx context.Context, userID, otherID string) error {
	if err := s.kv.SetRemove(ctx, requestsKey(userID), otherID); err != nil {
		return storeErr(err)
	}
	if err := s.kv.SetAdd(ctx, friendsKey(userID), otherID); err != nil {
		return storeErr(err)
	}
	if err := s.kv.SetAdd(ctx, friendsKey(otherID), userID); err != nil {
		return storeErr(err)
	}
	return s.kv.Delete(ctx, requestTimeKey(userID, otherID))
}

func storeErr(err error) error {
	return errors.Wrap(err, "STORE_ERROR", "Social graph operation failed", http.StatusInternalServerError)
}
