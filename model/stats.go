package model

import "time"

// UserStats is a denormalized rolling aggregate, one row per user. It is
// a cache over the user's Habit and HabitCompletion rows: every domain
// operation that touches those must update it in the same transaction.
type UserStats struct {
	StatsID string `bson:"stats_id" json:"stats_id"`
	UserID  string `bson:"user_id" json:"user_id"`

	TotalHabitsCreated  int `bson:"total_habits_created" json:"total_habits_created"`
	TotalCompletions    int `bson:"total_completions" json:"total_completions"`
	CurrentActiveHabits int `bson:"current_active_habits" json:"current_active_habits"`

	CompletionRate  int `bson:"completion_rate" json:"completion_rate"`
	TotalStreakDays int `bson:"total_streak_days" json:"total_streak_days"`

	BestCompletionTime string `bson:"best_completion_time,omitempty" json:"best_completion_time,omitempty"` // "HH:MM"
	MostProductiveDay  string `bson:"most_productive_day,omitempty" json:"most_productive_day,omitempty"`   // weekday name

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StatsSummary is the rendered, display-only view of UserStats used by
// the bot and the REST surface.
type StatsSummary struct {
	TotalHabits    int     `json:"total_habits"`
	ActiveHabits   int     `json:"active_habits"`
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completion_rate"` // percent, 0..100
}
