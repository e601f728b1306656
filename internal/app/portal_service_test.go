package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hackathon-portal/internal/app"
	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/infra/jsonfile"
	"hackathon-portal/internal/infra/memory"
)

func TestFirstLoginCreatesSingleRecord(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, false, time.Now)

	first, err := service.LoginParticipant(ctx, "alice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	second, err := service.LoginParticipant(ctx, "alice")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("expected one record, got %d", len(doc.Users))
	}
	if !first.StartedAt.Equal(second.StartedAt) {
		t.Fatalf("expected second login to reuse record, got %v vs %v", first.StartedAt, second.StartedAt)
	}
}

func TestEmptyUsernameRejected(t *testing.T) {
	service, _ := newTestService(t, false, time.Now)
	if _, err := service.LoginParticipant(context.Background(), ""); !errors.Is(err, domain.ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, false, time.Now)

	if _, err := service.LoginAdmin(ctx, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	session, err := service.LoginAdmin(ctx, app.DefaultAdminPassword)
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if session.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", session.Role)
	}

	screen, err := service.Render(ctx, session.Token)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if screen.Kind != app.ScreenAdmin {
		t.Fatalf("expected admin screen, got %s", screen.Kind)
	}
}

func TestCompletionPersists(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, false, time.Now)

	session, err := service.LoginParticipant(ctx, "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	screen, err := service.SubmitSolution(ctx, session.Token, 1, "first answer")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if screen.Kind != app.ScreenProblem || screen.Problem.ID != 2 {
		t.Fatalf("expected to advance to problem 2, got %+v", screen)
	}

	screen, err = service.SubmitSolution(ctx, session.Token, 2, "second answer")
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if screen.Kind != app.ScreenCompleted {
		t.Fatalf("expected completed screen, got %s", screen.Kind)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !doc.Users["alice"].Completed {
		t.Fatalf("expected completed flag persisted")
	}

	// A fresh render of the reloaded document keeps the completion state.
	screen, err = service.Render(ctx, session.Token)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if screen.Kind != app.ScreenCompleted {
		t.Fatalf("expected completed on reload, got %s", screen.Kind)
	}
}

func TestEvaluationRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, false, time.Now)

	user, _ := service.LoginParticipant(ctx, "alice")
	admin, err := service.LoginAdmin(ctx, app.DefaultAdminPassword)
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	if _, err := service.SubmitSolution(ctx, user.Token, 1, "x"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.SubmitSolution(ctx, user.Token, 2, "y"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := service.Evaluate(ctx, admin.Token, "alice", 1, 20, "ok"); err != nil {
		t.Fatalf("evaluate 1: %v", err)
	}
	if err := service.Evaluate(ctx, admin.Token, "alice", 2, 15, ""); err != nil {
		t.Fatalf("evaluate 2: %v", err)
	}

	doc, _ := store.Load(ctx)
	if got := doc.Users["alice"].TotalScore; got != 35 {
		t.Fatalf("expected total 35, got %d", got)
	}

	// Re-evaluating overwrites, no history.
	if err := service.Evaluate(ctx, admin.Token, "alice", 1, 5, "revised"); err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	doc, _ = store.Load(ctx)
	if got := doc.Users["alice"].TotalScore; got != 20 {
		t.Fatalf("expected total 20 after re-evaluation, got %d", got)
	}
}

func TestEvaluationBounds(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, false, time.Now)

	user, _ := service.LoginParticipant(ctx, "alice")
	admin, _ := service.LoginAdmin(ctx, app.DefaultAdminPassword)
	if _, err := service.SubmitSolution(ctx, user.Token, 1, "x"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := service.Evaluate(ctx, admin.Token, "alice", 1, 26, ""); !errors.Is(err, domain.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
	if err := service.Evaluate(ctx, admin.Token, "alice", 1, -1, ""); !errors.Is(err, domain.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange for negative, got %v", err)
	}
	if err := service.Evaluate(ctx, admin.Token, "alice", 9, 5, ""); !errors.Is(err, domain.ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
	if err := service.Evaluate(ctx, admin.Token, "alice", 2, 5, ""); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
	if err := service.Evaluate(ctx, user.Token, "alice", 1, 5, ""); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for participant token, got %v", err)
	}
}

func TestResubmissionClearsScore(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, false, time.Now)

	user, _ := service.LoginParticipant(ctx, "alice")
	admin, _ := service.LoginAdmin(ctx, app.DefaultAdminPassword)

	if _, err := service.SubmitSolution(ctx, user.Token, 1, "x"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := service.Evaluate(ctx, admin.Token, "alice", 1, 20, "ok"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	doc, _ := store.Load(ctx)
	if doc.Users["alice"].TotalScore != 20 {
		t.Fatalf("expected total 20, got %d", doc.Users["alice"].TotalScore)
	}

	if _, err := service.SubmitSolution(ctx, user.Token, 1, "x v2"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	doc, _ = store.Load(ctx)
	rec := doc.Users["alice"]
	if sub := rec.Problems["1"]; sub.Score != nil {
		t.Fatalf("expected score unset after resubmission, got %d", *sub.Score)
	}
	if rec.TotalScore != 0 {
		t.Fatalf("expected total 0 after resubmission, got %d", rec.TotalScore)
	}
}

func TestTimerExpiryWinsOverProgress(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(t, true, func() time.Time { return now })

	session, err := service.LoginParticipant(ctx, "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.HackathonEnd.IsZero() {
		t.Fatalf("expected frozen deadline for timed variant")
	}
	if got := session.HackathonEnd.Sub(session.StartedAt); got != time.Hour {
		t.Fatalf("expected one hour window, got %v", got)
	}

	// Solve everything, then cross the deadline: expiry must still win.
	if _, err := service.SubmitSolution(ctx, session.Token, 1, "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := service.SubmitSolution(ctx, session.Token, 2, "b"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	now = now.Add(2 * time.Hour)
	screen, err := service.Render(ctx, session.Token)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if screen.Kind != app.ScreenExpired {
		t.Fatalf("expected expired screen after deadline, got %s", screen.Kind)
	}
}

func TestSubmitAfterDeadlineNotRecorded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	service, store := newTestService(t, true, func() time.Time { return now })

	session, _ := service.LoginParticipant(ctx, "alice")
	now = now.Add(90 * time.Minute)

	screen, err := service.SubmitSolution(ctx, session.Token, 1, "late")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if screen.Kind != app.ScreenExpired {
		t.Fatalf("expected expired screen, got %s", screen.Kind)
	}
	doc, _ := store.Load(ctx)
	if len(doc.Users["alice"].Problems) != 0 {
		t.Fatalf("expected late submission to be dropped")
	}
}

func TestParticipantListing(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, false, time.Now)

	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := service.LoginParticipant(ctx, name); err != nil {
			t.Fatalf("login %s: %v", name, err)
		}
	}
	admin, _ := service.LoginAdmin(ctx, app.DefaultAdminPassword)

	summaries, err := service.Participants(ctx, admin.Token)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(summaries))
	}
	if summaries[0].Username != "alice" || summaries[2].Username != "carol" {
		t.Fatalf("expected sorted usernames, got %+v", summaries)
	}

	if _, err := service.Participant(ctx, admin.Token, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func newTestService(t *testing.T, timed bool, now func() time.Time) (*app.PortalService, *jsonfile.Store) {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "user_data.json"), app.HashPassword(app.DefaultAdminPassword))
	sessions := memory.NewSessionStore()
	catalogRepo := memory.NewCatalogRepository(memory.NewFixedCatalogLoader(testProblems()), 5*time.Minute)
	service := app.NewPortalServiceWithClock(store, sessions, catalogRepo, time.Hour, timed, now)
	return service, store
}

func testProblems() []domain.Problem {
	return []domain.Problem{
		{ID: 1, Title: "Regular Expression Matching", Difficulty: "Hard", MaxScore: 25},
		{ID: 2, Title: "Integer to English Words", Difficulty: "Hard", MaxScore: 25},
	}
}
