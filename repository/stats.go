package repository

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetStatsRepo(client *mongo.Client) *StatsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "habitbot")
	collectionName := utils.GetEnvAsString("STATS_COLLECTION", "user_stats")
	return &StatsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type StatsRepo struct {
	MongoCollection *mongo.Collection
}

func (r *StatsRepo) AddStats(ctx context.Context, stats *model.UserStats) error {
	timer := utils.TrackDBOperation("insert", "user_stats")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, stats); err != nil {
		utils.TrackError("database", "stats_creation_failed")
		return fmt.Errorf("failed to add user stats: %w", err)
	}
	return nil
}

func (r *StatsRepo) FindStatsByUserID(ctx context.Context, userID string) (*model.UserStats, error) {
	timer := utils.TrackDBOperation("find", "user_stats")
	defer timer.ObserveDuration()

	var stats model.UserStats
	filter := bson.D{{Key: "user_id", Value: userID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&stats)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "stats_lookup_error")
		return nil, err
	}

	return &stats, nil
}

// IncrementHabitCounters bumps total_habits_created and
// current_active_habits for a freshly created habit.
func (r *StatsRepo) IncrementHabitCounters(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{
			"total_habits_created":  1,
			"current_active_habits": 1,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "stats_update_failed")
		return 0, fmt.Errorf("failed to increment habit counters: %w", err)
	}

	return result.MatchedCount, nil
}

func (r *StatsRepo) IncrementCompletions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{"total_completions": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "stats_update_failed")
		return 0, fmt.Errorf("failed to increment completions: %w", err)
	}

	return result.MatchedCount, nil
}

func (r *StatsRepo) DecrementActiveHabits(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	// Guard so the counter never drops below zero
	filter := bson.M{"user_id": userID, "current_active_habits": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"current_active_habits": -1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "stats_update_failed")
		return 0, fmt.Errorf("failed to decrement active habits: %w", err)
	}

	return result.MatchedCount, nil
}
