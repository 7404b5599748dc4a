package repository

import (
	"context"
	"fmt"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetCompletionRepo(client *mongo.Client) *CompletionRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "habitbot")
	collectionName := utils.GetEnvAsString("COMPLETIONS_COLLECTION", "habit_completions")
	return &CompletionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type CompletionRepo struct {
	MongoCollection *mongo.Collection
}

func (r *CompletionRepo) AddCompletion(ctx context.Context, completion *model.HabitCompletion) error {
	timer := utils.TrackDBOperation("insert", "habit_completions")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, completion); err != nil {
		utils.TrackError("database", "completion_creation_failed")
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (r *CompletionRepo) GetHabitCompletions(ctx context.Context, habitID string) ([]*model.HabitCompletion, error) {
	timer := utils.TrackDBOperation("find", "habit_completions")
	defer timer.ObserveDuration()

	filter := bson.M{"habit_id": habitID}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "completion_list_error")
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer cursor.Close(ctx)

	completions := []*model.HabitCompletion{}
	if err := cursor.All(ctx, &completions); err != nil {
		utils.TrackError("database", "completion_decode_error")
		return nil, fmt.Errorf("failed to decode completions: %w", err)
	}

	return completions, nil
}

func (r *CompletionRepo) CountUserCompletions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "habit_completions")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "completion_count_error")
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}
