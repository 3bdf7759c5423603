package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// compile-time check that *DB implements repository.SquadRepository
var _ repository.SquadRepository = (*DB)(nil)

// GetLatestSquadByUserID returns the user's squad, newest first in case
// older rows predate the UNIQUE(user_id) constraint. (nil, nil) means the
// user has no squad yet — that is a normal state, not an error.
func (db *DB) GetLatestSquadByUserID(ctx context.Context, userID string) (*model.Squad, error) {
	var s model.Squad
	var players string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, players, budget_remaining, formation, updated_at
		 FROM user_squads WHERE user_id = ?
		 ORDER BY updated_at DESC LIMIT 1`,
		userID,
	).Scan(
		&s.ID,
		&s.UserID,
		&players,
		&s.BudgetRemaining,
		&s.Formation,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: getting squad for user %s: %w", userID, err)
	}

	s.Players = []byte(players)
	return &s, nil
}

// UpsertSquad creates or overwrites the user's squad in a single statement.
//
// UNIQUE(user_id) plus ON CONFLICT makes this atomic: two concurrent saves
// for the same user both resolve to the same row, last write wins, and a
// duplicate row can never appear. The existing row keeps its ID on the
// update path; the generated ID is only used when the insert wins.
func (db *DB) UpsertSquad(ctx context.Context, squad *model.Squad) error {
	if squad.Players == nil {
		squad.Players = []byte("[]")
	}
	squad.UpdatedAt = time.Now()

	newID := xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_squads (id, user_id, players, budget_remaining, formation, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			players          = excluded.players,
			budget_remaining = excluded.budget_remaining,
			formation        = excluded.formation,
			updated_at       = excluded.updated_at`,
		newID,
		squad.UserID,
		string(squad.Players),
		squad.BudgetRemaining,
		squad.Formation,
		squad.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting squad for user %s: %w", squad.UserID, err)
	}

	// Read the canonical row back — on the conflict path the stored ID is
	// the original one, not newID.
	stored, err := db.GetLatestSquadByUserID(ctx, squad.UserID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back squad for user %s: %w", squad.UserID, err)
	}
	if stored == nil {
		return fmt.Errorf("sqlite: squad for user %s missing after upsert", squad.UserID)
	}
	*squad = *stored

	return nil
}

// GetSquadByID retrieves a squad by its own ID, regardless of owner.
// Ownership checks belong to the service layer.
func (db *DB) GetSquadByID(ctx context.Context, id string) (*model.Squad, error) {
	var s model.Squad
	var players string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, players, budget_remaining, formation, updated_at
		 FROM user_squads WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.UserID,
		&players,
		&s.BudgetRemaining,
		&s.Formation,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("squad", id)
		}
		return nil, fmt.Errorf("sqlite: getting squad %s: %w", id, err)
	}

	s.Players = []byte(players)
	return &s, nil
}

// UpdateSquad persists the full squad row by ID.
// Returns apperror.ErrNotFound if the row has vanished.
func (db *DB) UpdateSquad(ctx context.Context, squad *model.Squad) error {
	if squad.Players == nil {
		squad.Players = []byte("[]")
	}
	squad.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE user_squads
		 SET players = ?, budget_remaining = ?, formation = ?, updated_at = ?
		 WHERE id = ?`,
		string(squad.Players),
		squad.BudgetRemaining,
		squad.Formation,
		squad.UpdatedAt,
		squad.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating squad %s: %w", squad.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of squad %s: %w", squad.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("squad", squad.ID)
	}

	return nil
}
