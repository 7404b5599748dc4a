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

func GetHabitRepo(client *mongo.Client) *HabitRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "habitbot")
	collectionName := utils.GetEnvAsString("HABITS_COLLECTION", "habits")
	return &HabitRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type HabitRepo struct {
	MongoCollection *mongo.Collection
}

func (r *HabitRepo) AddHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, habit); err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (r *HabitRepo) FindHabit(ctx context.Context, habitID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habit model.Habit
	filter := bson.D{{Key: "habit_id", Value: habitID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&habit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "habit_lookup_error")
		return nil, err
	}

	return &habit, nil
}

// GetUserHabits returns the user's habits ordered by creation time
// descending. The result is an empty slice, not an error, when the user
// has none.
func (r *HabitRepo) GetUserHabits(ctx context.Context, userID string, activeOnly bool) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "habit_list_error")
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer cursor.Close(ctx)

	habits := []*model.Habit{}
	if err := cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_error")
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}

	return habits, nil
}

// UpdateStreaks overwrites the streak counters on a habit row. Callers
// are responsible for keeping longest >= current.
func (r *HabitRepo) UpdateStreaks(ctx context.Context, habitID string, current, longest int) (int64, error) {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{"habit_id": habitID}
	update := bson.M{
		"$set": bson.M{
			"current_streak": current,
			"longest_streak": longest,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "streak_update_failed")
		return 0, fmt.Errorf("failed to update streaks: %w", err)
	}

	return result.MatchedCount, nil
}

func (r *HabitRepo) DeactivateHabit(ctx context.Context, habitID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{"habit_id": habitID, "is_active": true}
	update := bson.M{"$set": bson.M{"is_active": false}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_deactivate_failed")
		return 0, fmt.Errorf("failed to deactivate habit: %w", err)
	}

	return result.MatchedCount, nil
}
