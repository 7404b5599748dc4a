package model

import "time"

// HabitCompletion is an append-only event log entry; rows are never
// updated or deleted once written.
type HabitCompletion struct {
	CompletionID string `bson:"completion_id" json:"completion_id"`
	HabitID      string `bson:"habit_id" json:"habit_id"`
	UserID       string `bson:"user_id" json:"user_id"`

	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`

	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
	Mood            string `bson:"mood,omitempty" json:"mood,omitempty"`
	DifficultyLevel string `bson:"difficulty_level,omitempty" json:"difficulty_level,omitempty"`
}
