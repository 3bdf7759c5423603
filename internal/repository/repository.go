package repository

import (
	"context"

	"github.com/sakif/fantasy-forward/internal/model"
)

// Method names are resource-qualified (CreateUser, not Create) because the
// sqlite implementation hangs all three repositories off one *DB receiver.

// UserRepository reads and writes user records.
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertUser inserts the user if the ID is unseen, otherwise refreshes
	// the mirrored fields (email). Used by identity reconciliation.
	UpsertUser(ctx context.Context, user *model.User) error
}

// SquadRepository reads and writes squad records. Each user has at most one
// squad row, enforced by the storage layer.
type SquadRepository interface {
	// GetLatestSquadByUserID returns the user's squad, or (nil, nil) if
	// the user has none.
	GetLatestSquadByUserID(ctx context.Context, userID string) (*model.Squad, error)
	// UpsertSquad creates the user's squad or overwrites it in one
	// statement, so concurrent calls for the same user cannot produce two
	// rows.
	UpsertSquad(ctx context.Context, squad *model.Squad) error
	GetSquadByID(ctx context.Context, id string) (*model.Squad, error)
	UpdateSquad(ctx context.Context, squad *model.Squad) error
}

// SuggestionRepository reads and writes transfer suggestions.
type SuggestionRepository interface {
	ListSuggestionsByUserID(ctx context.Context, userID string) ([]model.TransferSuggestion, error)
	CreateSuggestion(ctx context.Context, suggestion *model.TransferSuggestion) error
}
