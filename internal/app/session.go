package app

import (
	"context"
	"time"

	"hackathon-portal/internal/domain"
)

// Session is the per-connection state for a logged-in participant or admin.
// HackathonEnd is zero for admins and for untimed variants.
type Session struct {
	Token        string      `json:"token"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
	StartedAt    time.Time   `json:"startedAt"`
	HackathonEnd time.Time   `json:"hackathonEnd,omitempty"`
}

// SessionRepository abstracts how sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
