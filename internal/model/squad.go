package model

import (
	"encoding/json"
	"time"
)

// Squad is a user's current fantasy squad: the selected players, the budget
// left to spend, and an optional formation label like "4-3-3".
//
// Players is stored as raw JSON. The player objects come from the frontend
// (built from the public FPL dataset) and the backend treats them as opaque —
// it never inspects individual player fields, only stores and returns them.
// json.RawMessage keeps the bytes untouched through decode/encode cycles.
//
// Each user has at most one squad row; saving again overwrites it.
type Squad struct {
	ID              string          `json:"id"               db:"id"`
	UserID          string          `json:"user_id"          db:"user_id"`
	Players         json.RawMessage `json:"players"          db:"players"`
	BudgetRemaining float64         `json:"budget_remaining" db:"budget_remaining"`
	Formation       string          `json:"formation"        db:"formation"` // empty = not set
	UpdatedAt       time.Time       `json:"updated_at"       db:"updated_at"`
}
