package model

import "time"

// TransferSuggestion is a recommended player swap produced by the suggestion
// pipeline, which runs outside this service and writes its results through
// the API.
//
// PlayerOutID and PlayerInID are FPL player IDs — references into the public
// FPL dataset, not foreign keys into our own tables. ConfidenceScore is
// always within [0.0, 1.0]; the service layer rejects anything outside that
// range before it reaches the database.
type TransferSuggestion struct {
	ID              string    `json:"id"               db:"id"`
	UserID          string    `json:"user_id"          db:"user_id"`
	PlayerOutID     int       `json:"player_out_id"    db:"player_out_id"`
	PlayerInID      int       `json:"player_in_id"     db:"player_in_id"`
	Reasoning       string    `json:"reasoning"        db:"reasoning"`
	ConfidenceScore float64   `json:"confidence_score" db:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
}
