package model

import "time"

// AIRecommendation is a passive record type. Nothing in this service
// generates recommendations; an external producer posts rows through the
// REST surface and they are only listed or flagged here.
type AIRecommendation struct {
	RecommendationID string `bson:"recommendation_id" json:"recommendation_id"`
	UserID           string `bson:"user_id" json:"user_id"`

	RecommendationType string `bson:"recommendation_type,omitempty" json:"recommendation_type,omitempty"`
	Content            string `bson:"content" json:"content"`
	Priority           string `bson:"priority" json:"priority"` // low / medium / high

	IsApplied   bool `bson:"is_applied" json:"is_applied"`
	IsDismissed bool `bson:"is_dismissed" json:"is_dismissed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
