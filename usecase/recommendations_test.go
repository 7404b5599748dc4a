package usecase

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupRecommendationServiceTest(t *testing.T) (*RecommendationService, func()) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("MONGO_DB", "habitbot_test")

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to test MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("Failed to ping test MongoDB: %v", err)
	}

	service := NewRecommendationService(client)

	cleanup := func() {
		ctx := context.Background()
		if err := service.RecommendationRepo.MongoCollection.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop recommendations collection: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
	return service, cleanup
}

func TestRecommendationLifecycle(t *testing.T) {
	service, cleanup := setupRecommendationServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New().String()

	first, err := service.CreateRecommendation(ctx, RecommendationInput{
		UserID:  userID,
		Type:    "habit_suggestion",
		Content: "Try a short walk after lunch",
	})
	if err != nil {
		t.Fatalf("CreateRecommendation failed: %v", err)
	}
	if first.Priority != "medium" {
		t.Errorf("Expected default priority medium, got %q", first.Priority)
	}

	second, err := service.CreateRecommendation(ctx, RecommendationInput{
		UserID:   userID,
		Content:  "Move your reminder earlier",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("CreateRecommendation failed: %v", err)
	}

	recs, err := service.ListRecommendations(ctx, userID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}

	if err := service.ApplyRecommendation(ctx, first.RecommendationID); err != nil {
		t.Fatalf("ApplyRecommendation failed: %v", err)
	}
	if err := service.DismissRecommendation(ctx, second.RecommendationID); err != nil {
		t.Fatalf("DismissRecommendation failed: %v", err)
	}

	// Dismissed rows drop out of the listing; applied ones stay
	recs, err = service.ListRecommendations(ctx, userID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation after dismissal, got %d", len(recs))
	}
	if recs[0].RecommendationID != first.RecommendationID || !recs[0].IsApplied {
		t.Errorf("Wrong surviving recommendation: %+v", recs[0])
	}
}

func TestRecommendationValidationAndNotFound(t *testing.T) {
	service, cleanup := setupRecommendationServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.CreateRecommendation(ctx, RecommendationInput{
		UserID:  uuid.New().String(),
		Content: "   ",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty content, got %v", err)
	}

	if err := service.ApplyRecommendation(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := service.DismissRecommendation(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
