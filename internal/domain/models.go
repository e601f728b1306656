package domain

import "time"

// Document is the entire persisted state: every participant keyed by
// username, plus the shared admin credential hash.
type Document struct {
	Users             map[string]*UserRecord `json:"users"`
	AdminPasswordHash string                 `json:"admin_password_hash"`
}

// NewDocument builds an empty Document with the given admin hash.
func NewDocument(adminHash string) Document {
	return Document{
		Users:             make(map[string]*UserRecord),
		AdminPasswordHash: adminHash,
	}
}

// UserRecord holds one participant's submissions, scoring, and timing state.
// HackathonEnd is zero in variants that run without a countdown.
// Version is bumped on every mutation of the record.
type UserRecord struct {
	Problems     map[string]*Submission `json:"problems"`
	StartTime    time.Time              `json:"start_time"`
	Completed    bool                   `json:"completed"`
	TotalScore   int                    `json:"total_score"`
	HackathonEnd time.Time              `json:"hackathon_end,omitempty"`
	Version      int                    `json:"version,omitempty"`
}

// Submission is one answer to one problem. Score stays nil until an admin
// evaluates it; resubmitting replaces the whole Submission, score included.
type Submission struct {
	Solution    string    `json:"solution"`
	SubmittedAt time.Time `json:"submitted_at"`
	Score       *int      `json:"score"`
	Feedback    string    `json:"feedback"`
}

// Example is the worked input/output pair shown with a problem.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Problem is one catalog entry. Immutable after process start.
type Problem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Difficulty  string  `json:"difficulty"`
	Example     Example `json:"example"`
	MaxScore    int     `json:"max_score"`
}

// Role of a logged-in session.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

// Solved reports whether the record has a non-empty solution for the problem.
func (r *UserRecord) Solved(problemID string) bool {
	if r == nil {
		return false
	}
	sub, ok := r.Problems[problemID]
	return ok && sub.Solution != ""
}

// SolvedCount counts problems with a non-empty solution.
func (r *UserRecord) SolvedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, sub := range r.Problems {
		if sub.Solution != "" {
			n++
		}
	}
	return n
}

// RecomputeTotal sets TotalScore to the sum of all assigned scores,
// treating unset as zero, and returns the new total.
func (r *UserRecord) RecomputeTotal() int {
	total := 0
	for _, sub := range r.Problems {
		if sub.Score != nil {
			total += *sub.Score
		}
	}
	r.TotalScore = total
	return total
}
