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

func GetRecommendationRepo(client *mongo.Client) *RecommendationRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "habitbot")
	collectionName := utils.GetEnvAsString("RECOMMENDATIONS_COLLECTION", "ai_recommendations")
	return &RecommendationRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// RecommendationRepo stores suggestions written by an external producer.
// This service only lists and flags them.
type RecommendationRepo struct {
	MongoCollection *mongo.Collection
}

func (r *RecommendationRepo) AddRecommendation(ctx context.Context, rec *model.AIRecommendation) error {
	timer := utils.TrackDBOperation("insert", "ai_recommendations")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, rec); err != nil {
		utils.TrackError("database", "recommendation_creation_failed")
		return fmt.Errorf("failed to add recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationRepo) GetUserRecommendations(ctx context.Context, userID string, includeDismissed bool) ([]*model.AIRecommendation, error) {
	timer := utils.TrackDBOperation("find", "ai_recommendations")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	if !includeDismissed {
		filter["is_dismissed"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "recommendation_list_error")
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer cursor.Close(ctx)

	recs := []*model.AIRecommendation{}
	if err := cursor.All(ctx, &recs); err != nil {
		utils.TrackError("database", "recommendation_decode_error")
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	return recs, nil
}

func (r *RecommendationRepo) MarkApplied(ctx context.Context, recommendationID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "ai_recommendations")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"recommendation_id": recommendationID},
		bson.M{"$set": bson.M{"is_applied": true}})
	if err != nil {
		utils.TrackError("database", "recommendation_update_failed")
		return 0, fmt.Errorf("failed to mark recommendation applied: %w", err)
	}

	return result.MatchedCount, nil
}

func (r *RecommendationRepo) MarkDismissed(ctx context.Context, recommendationID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "ai_recommendations")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"recommendation_id": recommendationID},
		bson.M{"$set": bson.M{"is_dismissed": true}})
	if err != nil {
		utils.TrackError("database", "recommendation_update_failed")
		return 0, fmt.Errorf("failed to mark recommendation dismissed: %w", err)
	}

	return result.MatchedCount, nil
}
