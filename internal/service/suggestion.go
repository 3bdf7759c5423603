package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// SuggestionService stores and lists transfer suggestions. The suggestions
// themselves are produced by an external pipeline; this service only
// validates and persists what it is given.
type SuggestionService struct {
	repo   repository.SuggestionRepository
	logger *slog.Logger
}

// NewSuggestionService creates a SuggestionService.
func NewSuggestionService(repo repository.SuggestionRepository, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{repo: repo, logger: logger}
}

// List returns the user's suggestions, newest first.
func (s *SuggestionService) List(ctx context.Context, userID string) ([]model.TransferSuggestion, error) {
	return s.repo.ListSuggestionsByUserID(ctx, userID)
}

// Create validates and stores a suggestion for the given user.
//
// Confidence outside [0.0, 1.0] and non-positive player IDs are rejected
// here — nothing invalid reaches the database.
func (s *SuggestionService) Create(ctx context.Context, userID string, playerOutID, playerInID int, reasoning string, confidence float64) (*model.TransferSuggestion, error) {
	if playerOutID <= 0 {
		return nil, apperror.ValidationFailed("player_out_id", "player_out_id must be a positive player ID")
	}
	if playerInID <= 0 {
		return nil, apperror.ValidationFailed("player_in_id", "player_in_id must be a positive player ID")
	}
	if confidence < 0.0 || confidence > 1.0 {
		return nil, apperror.ValidationFailed("confidence_score", "confidence_score must be between 0.0 and 1.0")
	}

	suggestion := &model.TransferSuggestion{
		UserID:          userID,
		PlayerOutID:     playerOutID,
		PlayerInID:      playerInID,
		Reasoning:       strings.TrimSpace(reasoning),
		ConfidenceScore: confidence,
	}

	if err := s.repo.CreateSuggestion(ctx, suggestion); err != nil {
		s.logger.Error("failed to create suggestion",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("suggestion created",
		slog.String("id", suggestion.ID),
		slog.String("userID", userID),
	)

	return suggestion, nil
}
