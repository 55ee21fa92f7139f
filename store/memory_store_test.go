package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	s.Set(ctx, "user:1", `{"id":"1"}`, 0)
	got, err := s.Get(ctx, "user:1")
	if err != nil || got != `{"id":"1"}` {
		t.Errorf("Get() = %q, %v", got, err)
	}

	s.Delete(ctx, "user:1")
	if _, err := s.Get(ctx, "user:1"); err != ErrNotFound {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Set(ctx, "rate:USD:EUR", "0.5", 10*time.Millisecond)
	if _, err := s.Get(ctx, "rate:USD:EUR"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := s.Get(ctx, "rate:USD:EUR"); err != ErrNotFound {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "user:1", "a", 0)
	s.Set(ctx, "user:2", "b", 0)
	s.Set(ctx, "rate:USD:EUR", "0.5", 0)

	keys, err := s.Keys(ctx, "user:*")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys(user:*) = %v, want 2 keys", keys)
	}
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.SetAdd(ctx, "friends:1", "2", "3")
	s.SetAdd(ctx, "friends:1", "2") // duplicate is a no-op

	members, err := s.SetMembers(ctx, "friends:1")
	if err != nil || len(members) != 2 {
		t.Errorf("SetMembers() = %v, %v; want 2 members", members, err)
	}

	ok, _ := s.SetContains(ctx, "friends:1", "2")
	if !ok {
		t.Error("SetContains() = false, want true")
	}

	s.SetRemove(ctx, "friends:1", "2")
	if ok, _ := s.SetContains(ctx, "friends:1", "2"); ok {
		t.Error("SetContains() after remove = true, want false")
	}

	// Empty sets behave like missing sets.
	if members, _ := s.SetMembers(ctx, "friends:none"); len(members) != 0 {
		t.Errorf("SetMembers(missing) = %v, want empty", members)
	}
	if err := s.SetRemove(ctx, "friends:none", "1"); err != nil {
		t.Errorf("SetRemove(missing) error = %v", err)
	}
}
