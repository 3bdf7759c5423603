package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
)

func saveTestSquad(t *testing.T, db *DB, userID string, budget float64) *model.Squad {
	t.Helper()
	squad := &model.Squad{
		UserID:          userID,
		Players:         json.RawMessage(`[{"element":233},{"element":355}]`),
		BudgetRemaining: budget,
		Formation:       "4-3-3",
	}
	if err := db.UpsertSquad(context.Background(), squad); err != nil {
		t.Fatalf("failed to save test squad: %v", err)
	}
	return squad
}

func countSquads(t *testing.T, db *DB, userID string) int {
	t.Helper()
	var count int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM user_squads WHERE user_id = ?`, userID,
	).Scan(&count); err != nil {
		t.Fatalf("counting squads: %v", err)
	}
	return count
}

// =========================================================================
// UPSERT TESTS
// =========================================================================

func TestSquadUpsert_CreatesRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "squad@example.com")

	squad := saveTestSquad(t, db, user.ID, 12.5)

	if squad.ID == "" {
		t.Error("UpsertSquad() did not set squad.ID")
	}
	if squad.UpdatedAt.IsZero() {
		t.Error("UpsertSquad() did not set squad.UpdatedAt")
	}
}

func TestSquadUpsert_SecondSaveOverwrites(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "squad@example.com")

	first := saveTestSquad(t, db, user.ID, 10.0)

	second := &model.Squad{
		UserID:          user.ID,
		Players:         json.RawMessage(`[]`),
		BudgetRemaining: 3.5,
		Formation:       "3-4-3",
	}
	if err := db.UpsertSquad(context.Background(), second); err != nil {
		t.Fatalf("second UpsertSquad() error = %v", err)
	}

	// One row, holding the second call's values, keeping the first ID.
	if got := countSquads(t, db, user.ID); got != 1 {
		t.Fatalf("squad count = %d, want 1", got)
	}
	if second.ID != first.ID {
		t.Errorf("squad ID changed on overwrite: %q vs %q", second.ID, first.ID)
	}

	latest, err := db.GetLatestSquadByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetLatestSquadByUserID() error = %v", err)
	}
	if latest.BudgetRemaining != 3.5 {
		t.Errorf("BudgetRemaining = %v, want 3.5", latest.BudgetRemaining)
	}
	if latest.Formation != "3-4-3" {
		t.Errorf("Formation = %q, want %q", latest.Formation, "3-4-3")
	}
}

func TestSquadUpsert_ManySavesSingleRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "repeat@example.com")

	// However many times a user saves, the UNIQUE(user_id) upsert keeps
	// them on the same single row.
	for i := 0; i < 8; i++ {
		squad := &model.Squad{UserID: user.ID, BudgetRemaining: float64(i)}
		if err := db.UpsertSquad(context.Background(), squad); err != nil {
			t.Fatalf("UpsertSquad() #%d error = %v", i, err)
		}
	}

	if got := countSquads(t, db, user.ID); got != 1 {
		t.Errorf("squad count after repeated saves = %d, want 1", got)
	}
}

func TestSquadUpsert_NilPlayersDefaultsToEmptyList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "empty@example.com")

	squad := &model.Squad{UserID: user.ID, BudgetRemaining: 100.0}
	if err := db.UpsertSquad(context.Background(), squad); err != nil {
		t.Fatalf("UpsertSquad() error = %v", err)
	}

	if string(squad.Players) != "[]" {
		t.Errorf("Players = %q, want %q", squad.Players, "[]")
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestGetLatestSquadByUserID_NoSquad(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "nosquad@example.com")

	squad, err := db.GetLatestSquadByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetLatestSquadByUserID() error = %v", err)
	}
	if squad != nil {
		t.Errorf("squad = %+v, want nil for a user without one", squad)
	}
}

func TestGetSquadByID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	created := saveTestSquad(t, db, user.ID, 7.0)

	found, err := db.GetSquadByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetSquadByID() error = %v", err)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
	if string(found.Players) != string(created.Players) {
		t.Errorf("Players = %s, want %s", found.Players, created.Players)
	}
}

func TestGetSquadByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetSquadByID(context.Background(), "missing-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSquadByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateSquad(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "update@example.com")
	squad := saveTestSquad(t, db, user.ID, 20.0)

	squad.BudgetRemaining = 1.5
	squad.Formation = "5-4-1"
	if err := db.UpdateSquad(context.Background(), squad); err != nil {
		t.Fatalf("UpdateSquad() error = %v", err)
	}

	found, err := db.GetSquadByID(context.Background(), squad.ID)
	if err != nil {
		t.Fatalf("GetSquadByID() error = %v", err)
	}
	if found.BudgetRemaining != 1.5 || found.Formation != "5-4-1" {
		t.Errorf("updated squad = %+v, want budget 1.5 formation 5-4-1", found)
	}
}

func TestUpdateSquad_MissingRow(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateSquad(context.Background(), &model.Squad{ID: "ghost", UserID: "u"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateSquad() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// CASCADE TESTS
// =========================================================================

func TestSquadDeletedWithUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "leaver@example.com")
	saveTestSquad(t, db, user.ID, 5.0)

	if _, err := db.conn.Exec(`DELETE FROM users WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	if got := countSquads(t, db, user.ID); got != 0 {
		t.Errorf("squad count after user deletion = %d, want 0 (cascade)", got)
	}
}
