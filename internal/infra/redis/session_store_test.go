package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackathon-portal/internal/app"
	"hackathon-portal/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	end := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	session := &app.Session{
		Token:        "tok",
		Username:     "alice",
		Role:         domain.RoleParticipant,
		StartedAt:    end.Add(-time.Hour),
		HackathonEnd: end,
	}
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("portal:session:tok") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" || !got.HackathonEnd.Equal(end) {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("portal:session:tok") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	if err := store.Put(ctx, &app.Session{Token: "tok", Username: "bob", Role: domain.RoleParticipant}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "tok"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestSessionStoreUnknownToken(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
