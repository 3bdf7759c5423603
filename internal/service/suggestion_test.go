package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
)

// fakeSuggestionRepo is an in-memory repository.SuggestionRepository.
// Entries are prepended so the list comes back newest first, like the
// real query's ORDER BY.
type fakeSuggestionRepo struct {
	byUser map[string][]model.TransferSuggestion
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{byUser: make(map[string][]model.TransferSuggestion)}
}

func (f *fakeSuggestionRepo) ListSuggestionsByUserID(_ context.Context, userID string) ([]model.TransferSuggestion, error) {
	out := make([]model.TransferSuggestion, len(f.byUser[userID]))
	copy(out, f.byUser[userID])
	return out, nil
}

func (f *fakeSuggestionRepo) CreateSuggestion(_ context.Context, s *model.TransferSuggestion) error {
	s.ID = xid.New().String()
	s.CreatedAt = time.Now()
	f.byUser[s.UserID] = append([]model.TransferSuggestion{*s}, f.byUser[s.UserID]...)
	return nil
}

func TestSuggestionCreate_Valid(t *testing.T) {
	svc := NewSuggestionService(newFakeSuggestionRepo(), testLogger())

	created, err := svc.Create(context.Background(), "user-1", 7, 9, "  better form  ", 0.85)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if created.Reasoning != "better form" {
		t.Errorf("Reasoning = %q, want trimmed %q", created.Reasoning, "better form")
	}
	if created.ConfidenceScore != 0.85 {
		t.Errorf("ConfidenceScore = %v, want 0.85", created.ConfidenceScore)
	}
}

func TestSuggestionCreate_ConfidenceBounds(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantErr    bool
	}{
		{name: "zero is allowed", confidence: 0.0, wantErr: false},
		{name: "one is allowed", confidence: 1.0, wantErr: false},
		{name: "just below zero", confidence: -0.001, wantErr: true},
		{name: "just above one", confidence: 1.001, wantErr: true},
		{name: "far out of range", confidence: 5.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSuggestionRepo()
			svc := NewSuggestionService(repo, testLogger())

			_, err := svc.Create(context.Background(), "user-1", 1, 2, "", tt.confidence)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrValidation) {
					t.Errorf("Create(conf=%v) error = %v, want ErrValidation", tt.confidence, err)
				}
				// Nothing invalid reaches storage.
				if n := len(repo.byUser["user-1"]); n != 0 {
					t.Errorf("stored suggestions after rejection = %d, want 0", n)
				}
				return
			}
			if err != nil {
				t.Errorf("Create(conf=%v) error = %v", tt.confidence, err)
			}
		})
	}
}

func TestSuggestionCreate_PlayerIDs(t *testing.T) {
	svc := NewSuggestionService(newFakeSuggestionRepo(), testLogger())

	tests := []struct {
		name        string
		playerOutID int
		playerInID  int
	}{
		{name: "zero out ID", playerOutID: 0, playerInID: 2},
		{name: "negative out ID", playerOutID: -3, playerInID: 2},
		{name: "zero in ID", playerOutID: 1, playerInID: 0},
		{name: "negative in ID", playerOutID: 1, playerInID: -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.playerOutID, tt.playerInID, "", 0.5)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSuggestionList(t *testing.T) {
	svc := NewSuggestionService(newFakeSuggestionRepo(), testLogger())

	first, err := svc.Create(context.Background(), "user-1", 1, 2, "one", 0.4)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(context.Background(), "user-1", 3, 4, "two", 0.6)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), "someone-else", 5, 6, "theirs", 0.9); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d suggestions, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("List() order = [%s, %s], want newest first [%s, %s]",
			list[0].ID, list[1].ID, second.ID, first.ID)
	}
}
