package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// compile-time check that *DB implements repository.SuggestionRepository
var _ repository.SuggestionRepository = (*DB)(nil)

// ListSuggestionsByUserID returns the user's transfer suggestions, newest
// first. An empty (non-nil) slice means the user has none.
func (db *DB) ListSuggestionsByUserID(ctx context.Context, userID string) ([]model.TransferSuggestion, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, player_out_id, player_in_id, reasoning, confidence_score, created_at
		 FROM transfer_suggestions WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing suggestions for user %s: %w", userID, err)
	}
	defer rows.Close()

	suggestions := []model.TransferSuggestion{}
	for rows.Next() {
		var s model.TransferSuggestion
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.PlayerOutID,
			&s.PlayerInID,
			&s.Reasoning,
			&s.ConfidenceScore,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating suggestions: %w", err)
	}

	return suggestions, nil
}

// CreateSuggestion inserts a suggestion, assigning ID and CreatedAt.
func (db *DB) CreateSuggestion(ctx context.Context, suggestion *model.TransferSuggestion) error {
	suggestion.ID = xid.New().String()
	suggestion.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO transfer_suggestions
			(id, user_id, player_out_id, player_in_id, reasoning, confidence_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		suggestion.ID,
		suggestion.UserID,
		suggestion.PlayerOutID,
		suggestion.PlayerInID,
		suggestion.Reasoning,
		suggestion.ConfidenceScore,
		suggestion.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting suggestion for user %s: %w", suggestion.UserID, err)
	}

	return nil
}
