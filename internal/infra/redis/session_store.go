package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hackathon-portal/internal/app"
	"hackathon-portal/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps sessions in Redis so restarts (or a second instance)
// do not log everyone out. Each session is a JSON value under its token key
// with a sliding TTL refreshed on read.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, session *app.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*app.Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session app.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	// best-effort TTL refresh on activity
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return "portal:session:" + token
}
