package model

import "time"

type Habit struct {
	HabitID string `bson:"habit_id" json:"habit_id"`
	UserID  string `bson:"user_id" json:"user_id"`

	Name        string `bson:"name" json:"name" validate:"required,max=200"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Category    string `bson:"category" json:"category" validate:"required,max=50"`
	Difficulty  string `bson:"difficulty" json:"difficulty"` // easy / medium / hard

	FrequencyType  string   `bson:"frequency_type" json:"frequency_type"` // daily is the only value persisted today
	FrequencyValue []string `bson:"frequency_value" json:"frequency_value"`
	ReminderTime   string   `bson:"reminder_time,omitempty" json:"reminder_time,omitempty"` // "HH:MM"

	TargetStreak  int `bson:"target_streak" json:"target_streak"`
	CurrentStreak int `bson:"current_streak" json:"current_streak"` // invariant: LongestStreak >= CurrentStreak
	LongestStreak int `bson:"longest_streak" json:"longest_streak"`

	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
