package dto

type CreateHabitRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Category      string `json:"category" binding:"required,max=50"`
	FrequencyType string `json:"frequency_type" binding:"omitempty,oneof=daily weekly custom"`
	ReminderTime  string `json:"reminder_time" binding:"omitempty,reminder_time"`
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type CompletionRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=1000"`
	Mood  string `json:"mood" binding:"omitempty,max=20"`
}

type CreateRecommendationRequest struct {
	Type     string `json:"recommendation_type" binding:"omitempty,max=50"`
	Content  string `json:"content" binding:"required,max=2000"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}
