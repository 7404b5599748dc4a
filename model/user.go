package model

import "time"

type User struct {
	UserID       string    `bson:"user_id" json:"user_id"`                             // Unique ID number
	TelegramID   int64     `bson:"telegram_id" json:"telegram_id"`                     // Chat identity, unique per user
	Username     string    `bson:"username,omitempty" json:"username,omitempty"`       // Telegram @username
	FirstName    string    `bson:"first_name,omitempty" json:"first_name,omitempty"`   // Display name
	LastName     string    `bson:"last_name,omitempty" json:"last_name,omitempty"`     // Display name
	LanguageCode string    `bson:"language_code" json:"language_code"`                 // Locale, defaults to "en"
	Timezone     string    `bson:"timezone" json:"timezone"`                           // IANA zone, defaults to "UTC"

	NotificationTime string   `bson:"notification_time" json:"notification_time"` // "HH:MM" daily reminder slot
	MotivationLevel  string   `bson:"motivation_level" json:"motivation_level"`   // low / medium / high
	Goals            []string `bson:"goals" json:"goals"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
