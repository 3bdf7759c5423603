package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// MaxFormationLength bounds the free-text formation label ("4-3-3" etc).
const MaxFormationLength = 50

// SquadService handles business logic for squads: budget bounds, ownership
// checks, and the one-squad-per-user save semantics.
type SquadService struct {
	repo   repository.SquadRepository
	logger *slog.Logger
}

// NewSquadService creates a SquadService.
func NewSquadService(repo repository.SquadRepository, logger *slog.Logger) *SquadService {
	return &SquadService{repo: repo, logger: logger}
}

// SquadUpdate carries the fields of a partial update. Nil means "leave the
// stored value alone"; only non-nil fields are applied.
type SquadUpdate struct {
	Players         json.RawMessage
	BudgetRemaining *float64
	Formation       *string
}

// Get returns the caller's squad, or (nil, nil) if none has been saved yet.
func (s *SquadService) Get(ctx context.Context, userID string) (*model.Squad, error) {
	return s.repo.GetLatestSquadByUserID(ctx, userID)
}

// Save creates the caller's squad or overwrites the existing one.
//
// Budget must be non-negative and the players payload must be a JSON array
// (the objects inside are opaque). The repository upsert guarantees the
// result is a single row per user even under concurrent saves.
func (s *SquadService) Save(ctx context.Context, userID string, players json.RawMessage, budget float64, formation string) (*model.Squad, error) {
	if budget < 0 {
		return nil, apperror.ValidationFailed("budget_remaining", "budget must not be negative")
	}
	if err := validateFormation(formation); err != nil {
		return nil, err
	}
	players, err := validatePlayers(players)
	if err != nil {
		return nil, err
	}

	squad := &model.Squad{
		UserID:          userID,
		Players:         players,
		BudgetRemaining: budget,
		Formation:       strings.TrimSpace(formation),
	}

	if err := s.repo.UpsertSquad(ctx, squad); err != nil {
		s.logger.Error("failed to save squad",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("squad saved",
		slog.String("id", squad.ID),
		slog.String("userID", userID),
	)

	return squad, nil
}

// UpdateByID applies a partial update to a specific squad.
//
// Fetch-then-update: the squad is loaded first, so a missing ID surfaces as
// ErrNotFound before anything is written, and the ownership check runs
// against the stored owner. A caller who is not the owner gets
// ErrForbidden — never a silent success.
func (s *SquadService) UpdateByID(ctx context.Context, squadID, userID string, update SquadUpdate) (*model.Squad, error) {
	squadID = strings.TrimSpace(squadID)
	if squadID == "" {
		return nil, apperror.ValidationFailed("id", "squad ID is required")
	}

	squad, err := s.repo.GetSquadByID(ctx, squadID)
	if err != nil {
		return nil, err
	}

	if squad.UserID != userID {
		return nil, apperror.Forbidden("not authorized to update this squad")
	}

	if update.Players != nil {
		players, err := validatePlayers(update.Players)
		if err != nil {
			return nil, err
		}
		squad.Players = players
	}
	if update.BudgetRemaining != nil {
		if *update.BudgetRemaining < 0 {
			return nil, apperror.ValidationFailed("budget_remaining", "budget must not be negative")
		}
		squad.BudgetRemaining = *update.BudgetRemaining
	}
	if update.Formation != nil {
		if err := validateFormation(*update.Formation); err != nil {
			return nil, err
		}
		squad.Formation = strings.TrimSpace(*update.Formation)
	}

	if err := s.repo.UpdateSquad(ctx, squad); err != nil {
		s.logger.Error("failed to update squad",
			slog.String("id", squadID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("squad updated", slog.String("id", squadID))

	return squad, nil
}

// validatePlayers checks that the payload is a JSON array. Nil defaults to
// an empty list; the array's elements are not inspected.
func validatePlayers(players json.RawMessage) (json.RawMessage, error) {
	if players == nil {
		return json.RawMessage("[]"), nil
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(players, &probe); err != nil {
		return nil, apperror.ValidationFailed("players", "players must be a JSON array")
	}
	return players, nil
}

func validateFormation(formation string) error {
	if len(formation) > MaxFormationLength {
		return apperror.ValidationFailed("formation", "formation label is too long")
	}
	return nil
}
