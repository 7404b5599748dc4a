package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	habitsCollection := db.Collection("habits")
	completionsCollection := db.Collection("habit_completions")
	statsCollection := db.Collection("user_stats")
	recommendationsCollection := db.Collection("ai_recommendations")

	userIndexes := []mongo.IndexModel{
		// Exactly one user per chat identity
		{
			Keys: bson.D{{Key: "telegram_id", Value: 1}},
			Options: options.Index().
				SetName("telegram_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_unique").
				SetUnique(true),
		},
	}

	habitIndexes := []mongo.IndexModel{
		// List ordering index
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_habits_date"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_habits"),
		},
		{
			Keys: bson.D{{Key: "habit_id", Value: 1}},
			Options: options.Index().
				SetName("habit_id_unique").
				SetUnique(true),
		},
	}

	completionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "habit_id", Value: 1},
				{Key: "completed_at", Value: -1},
			},
			Options: options.Index().
				SetName("habit_completions_date"),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index"),
		},
	}

	statsIndexes := []mongo.IndexModel{
		// One stats row per user
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("stats_user_id_unique").
				SetUnique(true),
		},
	}

	recommendationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_recommendations_date"),
		},
	}

	collections := []struct {
		name       string
		collection *mongo.Collection
		indexes    []mongo.IndexModel
	}{
		{"users", usersCollection, userIndexes},
		{"habits", habitsCollection, habitIndexes},
		{"habit_completions", completionsCollection, completionIndexes},
		{"user_stats", statsCollection, statsIndexes},
		{"ai_recommendations", recommendationsCollection, recommendationIndexes},
	}

	for _, c := range collections {
		if _, err := c.collection.Indexes().CreateMany(ctx, c.indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", c.name, err)
		}
	}

	log.Println("Successfully created all indexes")
	return nil
}
