package app

import (
	"strconv"
	"time"

	"hackathon-portal/internal/domain"
)

// ScreenKind enumerates the finite states of the participant flow.
type ScreenKind string

const (
	ScreenLogin     ScreenKind = "login"
	ScreenAdmin     ScreenKind = "admin"
	ScreenExpired   ScreenKind = "expired"
	ScreenCompleted ScreenKind = "completed"
	ScreenProblem   ScreenKind = "problem"
)

// Screen is what the client should present next.
type Screen struct {
	Kind       ScreenKind      `json:"kind"`
	Username   string          `json:"username,omitempty"`
	Problem    *domain.Problem `json:"problem,omitempty"`
	Solved     int             `json:"solved"`
	Total      int             `json:"total"`
	TotalScore int             `json:"totalScore"`
	// RemainingSeconds is the countdown for timer-enabled variants; zero
	// otherwise. Derived from now on each render, never scheduled.
	RemainingSeconds int `json:"remainingSeconds,omitempty"`
}

// NextScreen is the pure flow decision: given the session, the participant's
// record snapshot, the catalog, and the current time it picks exactly one
// screen. Expiry is checked before completion, so a participant who finishes
// after the deadline still sees the expired screen.
func NextScreen(sess *Session, rec *domain.UserRecord, problems []domain.Problem, now time.Time) Screen {
	if sess == nil {
		return Screen{Kind: ScreenLogin}
	}
	if sess.Role == domain.RoleAdmin {
		return Screen{Kind: ScreenAdmin, Username: sess.Username}
	}

	screen := Screen{
		Username: sess.Username,
		Solved:   rec.SolvedCount(),
		Total:    len(problems),
	}
	if rec != nil {
		screen.TotalScore = rec.TotalScore
	}

	if expired(sess, now) {
		screen.Kind = ScreenExpired
		return screen
	}

	if rec != nil && (rec.Completed || screen.Solved == screen.Total) {
		screen.Kind = ScreenCompleted
		return screen
	}

	for i := range problems {
		if !rec.Solved(strconv.Itoa(problems[i].ID)) {
			screen.Kind = ScreenProblem
			screen.Problem = &problems[i]
			if !sess.HackathonEnd.IsZero() {
				screen.RemainingSeconds = int(sess.HackathonEnd.Sub(now).Seconds())
			}
			return screen
		}
	}

	// Catalog exhausted without an unsolved problem; treat as completed.
	screen.Kind = ScreenCompleted
	return screen
}

func expired(sess *Session, now time.Time) bool {
	return !sess.HackathonEnd.IsZero() && now.After(sess.HackathonEnd)
}
