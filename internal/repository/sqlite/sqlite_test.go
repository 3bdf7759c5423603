package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// TestDBServesAllRepositories drives a single *DB through each repository
// interface. All three hang off the one receiver with resource-qualified
// method names, and the services only ever see the interfaces — this pins
// that wiring down.
func TestDBServesAllRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var users repository.UserRepository = db
	var squads repository.SquadRepository = db
	var suggestions repository.SuggestionRepository = db

	user := createTestUser(t, db, "wired@example.com")

	if _, err := users.GetUserByID(ctx, user.ID); err != nil {
		t.Fatalf("GetUserByID() through the interface: %v", err)
	}

	squad := &model.Squad{UserID: user.ID, BudgetRemaining: 10}
	if err := squads.UpsertSquad(ctx, squad); err != nil {
		t.Fatalf("UpsertSquad() through the interface: %v", err)
	}
	if _, err := squads.GetSquadByID(ctx, squad.ID); err != nil {
		t.Fatalf("GetSquadByID() through the interface: %v", err)
	}

	if err := suggestions.CreateSuggestion(ctx, &model.TransferSuggestion{
		UserID:      user.ID,
		PlayerOutID: 1,
		PlayerInID:  2,
	}); err != nil {
		t.Fatalf("CreateSuggestion() through the interface: %v", err)
	}
	list, err := suggestions.ListSuggestionsByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListSuggestionsByUserID() through the interface: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("suggestions = %d, want 1", len(list))
	}
}
