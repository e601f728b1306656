package app

import (
	"context"
	"sort"
	"strconv"
	"time"

	"hackathon-portal/internal/domain"
)

// DocumentStore persists the hackathon document.
type DocumentStore interface {
	Load(ctx context.Context) (domain.Document, error)
	Save(ctx context.Context, doc domain.Document) error
	Update(ctx context.Context, fn func(*domain.Document) error) error
}

// CatalogRepository loads the problem catalog (static or cached from a DB).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) ([]domain.Problem, error)
}

// PortalService contains the hackathon use cases: logins, solution
// submission, admin evaluation, and screen rendering.
type PortalService struct {
	store    DocumentStore
	sessions SessionRepository
	catalog  CatalogRepository
	duration time.Duration
	timed    bool
	now      func() time.Time
}

func NewPortalService(store DocumentStore, sessions SessionRepository, catalog CatalogRepository, duration time.Duration, timed bool) *PortalService {
	return NewPortalServiceWithClock(store, sessions, catalog, duration, timed, time.Now)
}

// NewPortalServiceWithClock is test-only for deterministic timestamps.
func NewPortalServiceWithClock(store DocumentStore, sessions SessionRepository, catalog CatalogRepository, duration time.Duration, timed bool, now func() time.Time) *PortalService {
	return &PortalService{
		store:    store,
		sessions: sessions,
		catalog:  catalog,
		duration: duration,
		timed:    timed,
		now:      now,
	}
}

// LoginParticipant accepts any non-empty username. The first login creates
// the participant's record and, in timed variants, freezes the deadline at
// start time plus the configured duration. Later logins reuse the record.
func (s *PortalService) LoginParticipant(ctx context.Context, username string) (*Session, error) {
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}

	now := s.now()
	var rec *domain.UserRecord
	err := s.store.Update(ctx, func(doc *domain.Document) error {
		if existing, ok := doc.Users[username]; ok {
			rec = existing
			return nil
		}
		rec = &domain.UserRecord{
			Problems:  make(map[string]*domain.Submission),
			StartTime: now,
		}
		if s.timed {
			rec.HackathonEnd = now.Add(s.duration)
		}
		doc.Users[username] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	session := &Session{
		Token:        token,
		Username:     username,
		Role:         domain.RoleParticipant,
		StartedAt:    rec.StartTime,
		HackathonEnd: rec.HackathonEnd,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// LoginAdmin grants the admin role when the SHA-256 of the supplied password
// matches the stored hash. A mismatch surfaces ErrInvalidCredentials and
// grants nothing.
func (s *PortalService) LoginAdmin(ctx context.Context, password string) (*Session, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if HashPassword(password) != doc.AdminPasswordHash {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	session := &Session{
		Token:     token,
		Username:  "admin",
		Role:      domain.RoleAdmin,
		StartedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout drops the session. Unknown tokens are not an error.
func (s *PortalService) Logout(ctx context.Context, token string) {
	_ = s.sessions.Delete(ctx, token)
}

// Render reloads the document and decides the next screen for the session.
// When a participant has just covered the whole catalog, the completed flag
// is persisted before the completion screen is returned.
func (s *PortalService) Render(ctx context.Context, token string) (Screen, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return Screen{Kind: ScreenLogin}, err
	}
	if session.Role == domain.RoleAdmin {
		return NextScreen(session, nil, nil, s.now()), nil
	}

	problems, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return Screen{}, err
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return Screen{}, err
	}

	now := s.now()
	rec := doc.Users[session.Username]
	screen := NextScreen(session, rec, problems, now)

	if screen.Kind == ScreenCompleted && rec != nil && !rec.Completed {
		err := s.store.Update(ctx, func(doc *domain.Document) error {
			stored, ok := doc.Users[session.Username]
			if !ok {
				return domain.ErrUserNotFound
			}
			if !stored.Completed {
				stored.Completed = true
				stored.Version++
			}
			return nil
		})
		if err != nil {
			return Screen{}, err
		}
	}
	return screen, nil
}

// SubmitSolution overwrites the participant's submission for the problem with
// a fresh, unevaluated one and persists it immediately. A resubmission
// therefore clears any previously assigned score until the admin evaluates
// again. Submissions after the deadline are not recorded.
func (s *PortalService) SubmitSolution(ctx context.Context, token string, problemID int, solution string) (Screen, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return Screen{Kind: ScreenLogin}, err
	}
	if session.Role != domain.RoleParticipant {
		return Screen{}, domain.ErrNotAdmin
	}
	if expired(session, s.now()) {
		return s.Render(ctx, token)
	}

	problems, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return Screen{}, err
	}
	if !catalogHas(problems, problemID) {
		return Screen{}, domain.ErrProblemNotFound
	}

	now := s.now()
	err = s.store.Update(ctx, func(doc *domain.Document) error {
		rec, ok := doc.Users[session.Username]
		if !ok {
			return domain.ErrUserNotFound
		}
		rec.Problems[strconv.Itoa(problemID)] = &domain.Submission{
			Solution:    solution,
			SubmittedAt: now,
		}
		rec.RecomputeTotal()
		rec.Version++
		return nil
	})
	if err != nil {
		return Screen{}, err
	}
	return s.Render(ctx, token)
}

// Evaluate records the admin's score and feedback for one submission and
// recomputes the participant's total in the same write. The score must be
// within 0..max_score for the problem.
func (s *PortalService) Evaluate(ctx context.Context, token, username string, problemID, score int, feedback string) error {
	if _, err := s.adminSession(ctx, token); err != nil {
		return err
	}

	problems, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return err
	}
	var problem *domain.Problem
	for i := range problems {
		if problems[i].ID == problemID {
			problem = &problems[i]
			break
		}
	}
	if problem == nil {
		return domain.ErrProblemNotFound
	}
	if score < 0 || score > problem.MaxScore {
		return domain.ErrScoreOutOfRange
	}

	return s.store.Update(ctx, func(doc *domain.Document) error {
		rec, ok := doc.Users[username]
		if !ok {
			return domain.ErrUserNotFound
		}
		sub, ok := rec.Problems[strconv.Itoa(problemID)]
		if !ok {
			return domain.ErrSubmissionNotFound
		}
		assigned := score
		sub.Score = &assigned
		sub.Feedback = feedback
		rec.RecomputeTotal()
		rec.Version++
		return nil
	})
}

// ParticipantSummary is the admin's per-participant overview row.
type ParticipantSummary struct {
	Username   string    `json:"username"`
	Solved     int       `json:"solved"`
	TotalScore int       `json:"totalScore"`
	Completed  bool      `json:"completed"`
	StartTime  time.Time `json:"startTime"`
}

// Participants lists all registered participants, sorted by username.
func (s *PortalService) Participants(ctx context.Context, token string) ([]ParticipantSummary, error) {
	if _, err := s.adminSession(ctx, token); err != nil {
		return nil, err
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ParticipantSummary, 0, len(doc.Users))
	for username, rec := range doc.Users {
		summaries = append(summaries, ParticipantSummary{
			Username:   username,
			Solved:     rec.SolvedCount(),
			TotalScore: rec.TotalScore,
			Completed:  rec.Completed,
			StartTime:  rec.StartTime,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Username < summaries[j].Username
	})
	return summaries, nil
}

// Participant returns one participant's full record for the admin view.
func (s *PortalService) Participant(ctx context.Context, token, username string) (*domain.UserRecord, error) {
	if _, err := s.adminSession(ctx, token); err != nil {
		return nil, err
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := doc.Users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return rec, nil
}

// Snapshot returns the whole document for export. Admin only.
func (s *PortalService) Snapshot(ctx context.Context, token string) (domain.Document, error) {
	if _, err := s.adminSession(ctx, token); err != nil {
		return domain.Document{}, err
	}
	return s.store.Load(ctx)
}

// Catalog exposes the problem catalog to the transport layer.
func (s *PortalService) Catalog(ctx context.Context) ([]domain.Problem, error) {
	return s.catalog.GetCatalog(ctx)
}

func (s *PortalService) adminSession(ctx context.Context, token string) (*Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Role != domain.RoleAdmin {
		return nil, domain.ErrNotAdmin
	}
	return session, nil
}

func catalogHas(problems []domain.Problem, id int) bool {
	for i := range problems {
		if problems[i].ID == id {
			return true
		}
	}
	return false
}
