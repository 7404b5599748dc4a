package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"main/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupHabitRepoTest(t *testing.T) (*HabitRepo, func()) {
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

	repo := GetHabitRepo(client)

	cleanup := func() {
		ctx := context.Background()
		if err := repo.MongoCollection.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop habits collection: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
	return repo, cleanup
}

func newTestHabit(userID, name string, createdAt time.Time, active bool) *model.Habit {
	return &model.Habit{
		HabitID:        uuid.New().String(),
		UserID:         userID,
		Name:           name,
		Category:       "Health",
		FrequencyType:  "daily",
		FrequencyValue: []string{},
		IsActive:       active,
		CreatedAt:      createdAt,
	}
}

func TestGetUserHabitsOrderingAndFiltering(t *testing.T) {
	repo, cleanup := setupHabitRepoTest(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New().String()
	now := time.Now()

	older := newTestHabit(userID, "Read a book", now.Add(-2*time.Hour), true)
	newer := newTestHabit(userID, "Morning run", now.Add(-1*time.Hour), true)
	paused := newTestHabit(userID, "Cold shower", now, false)
	foreign := newTestHabit(uuid.New().String(), "Not mine", now, true)

	for _, habit := range []*model.Habit{older, newer, paused, foreign} {
		if err := repo.AddHabit(ctx, habit); err != nil {
			t.Fatalf("Failed to insert habit: %v", err)
		}
	}

	all, err := repo.GetUserHabits(ctx, userID, false)
	if err != nil {
		t.Fatalf("GetUserHabits failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 habits, got %d", len(all))
	}
	if all[0].HabitID != paused.HabitID || all[2].HabitID != older.HabitID {
		t.Errorf("Habits not ordered newest first: %s, %s, %s",
			all[0].Name, all[1].Name, all[2].Name)
	}

	active, err := repo.GetUserHabits(ctx, userID, true)
	if err != nil {
		t.Fatalf("GetUserHabits failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("Expected 2 active habits, got %d", len(active))
	}
	for _, habit := range active {
		if !habit.IsActive {
			t.Errorf("Paused habit %q leaked into active list", habit.Name)
		}
	}

	none, err := repo.GetUserHabits(ctx, uuid.New().String(), false)
	if err != nil {
		t.Fatalf("GetUserHabits failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("Expected empty slice for unknown user, got %#v", none)
	}
}

func TestDeactivateHabitMatchesOnlyActive(t *testing.T) {
	repo, cleanup := setupHabitRepoTest(t)
	defer cleanup()

	ctx := context.Background()
	habit := newTestHabit(uuid.New().String(), "Meditate", time.Now(), true)
	if err := repo.AddHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to insert habit: %v", err)
	}

	matched, err := repo.DeactivateHabit(ctx, habit.HabitID)
	if err != nil {
		t.Fatalf("DeactivateHabit failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("Expected 1 matched row, got %d", matched)
	}

	// The filter requires is_active, so a second call is a no-op
	matched, err = repo.DeactivateHabit(ctx, habit.HabitID)
	if err != nil {
		t.Fatalf("DeactivateHabit failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("Expected 0 matched rows on repeat, got %d", matched)
	}
}

func TestUpdateStreaksReportsMatch(t *testing.T) {
	repo, cleanup := setupHabitRepoTest(t)
	defer cleanup()

	ctx := context.Background()
	habit := newTestHabit(uuid.New().String(), "Journal", time.Now(), true)
	if err := repo.AddHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to insert habit: %v", err)
	}

	matched, err := repo.UpdateStreaks(ctx, habit.HabitID, 5, 8)
	if err != nil {
		t.Fatalf("UpdateStreaks failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("Expected 1 matched row, got %d", matched)
	}

	got, err := repo.FindHabit(ctx, habit.HabitID)
	if err != nil {
		t.Fatalf("FindHabit failed: %v", err)
	}
	if got.CurrentStreak != 5 || got.LongestStreak != 8 {
		t.Errorf("Streaks not persisted: %+v", got)
	}

	matched, err = repo.UpdateStreaks(ctx, uuid.New().String(), 1, 1)
	if err != nil {
		t.Fatalf("UpdateStreaks failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("Expected 0 matched rows for unknown habit, got %d", matched)
	}
}
