package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"hackathon-portal/internal/domain"
)

const testAdminHash = "deadbeef"

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "user_data.json"), testAdminHash)

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.AdminPasswordHash != testAdminHash {
		t.Fatalf("expected default admin hash, got %q", doc.AdminPasswordHash)
	}
	if len(doc.Users) != 0 {
		t.Fatalf("expected no users, got %d", len(doc.Users))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "user_data.json"), testAdminHash)

	score := 20
	doc := domain.NewDocument(testAdminHash)
	doc.Users["alice"] = &domain.UserRecord{
		Problems: map[string]*domain.Submission{
			"1": {
				Solution:    "class Solution {}",
				SubmittedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
				Score:       &score,
				Feedback:    "ok",
			},
			"2": {
				Solution:    "pending",
				SubmittedAt: time.Date(2025, 6, 1, 10, 45, 0, 0, time.UTC),
			},
		},
		StartTime:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Completed:    true,
		TotalScore:   20,
		HackathonEnd: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		Version:      3,
	}

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", doc, loaded)
	}
}

func TestLoadCorruptFileSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := New(path, testAdminHash)

	_, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}

	// The damaged file must not be replaced.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if string(data) != "{truncated" {
		t.Fatalf("expected corrupt file left untouched, got %q", data)
	}
}

func TestUpdatePersistsMutation(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "user_data.json"), testAdminHash)

	err := store.Update(ctx, func(doc *domain.Document) error {
		doc.Users["bob"] = &domain.UserRecord{
			Problems:  map[string]*domain.Submission{},
			StartTime: time.Now().UTC(),
			Version:   1,
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := doc.Users["bob"]; !ok {
		t.Fatalf("expected bob persisted")
	}
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "user_data.json")
	store := New(path, testAdminHash)

	if err := store.Update(ctx, func(doc *domain.Document) error {
		doc.Users["alice"] = &domain.UserRecord{Problems: map[string]*domain.Submission{}}
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	if err := store.Update(ctx, func(doc *domain.Document) error {
		doc.Users["mallory"] = &domain.UserRecord{Problems: map[string]*domain.Submission{}}
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	doc, _ := store.Load(ctx)
	if _, ok := doc.Users["mallory"]; ok {
		t.Fatalf("failed update must not persist")
	}
	if _, ok := doc.Users["alice"]; !ok {
		t.Fatalf("prior state lost")
	}
}
