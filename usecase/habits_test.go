package usecase

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"main/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupHabitServiceTest connects to the local test MongoDB and returns a
// service wired to a throwaway database. Transactions stay off because
// the test instance is a standalone, not a replica set.
func setupHabitServiceTest(t *testing.T) (*HabitService, func()) {
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

	service := NewHabitService(client, false)

	cleanup := func() {
		ctx := context.Background()
		if err := client.Database("habitbot_test").Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
	return service, cleanup
}

func testProfile() Profile {
	return Profile{
		TelegramID: time.Now().UnixNano(),
		Username:   "testuser",
		FirstName:  "Test",
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	profile := testProfile()

	first, isNew, err := service.EnsureUser(ctx, profile)
	if err != nil {
		t.Fatalf("First EnsureUser failed: %v", err)
	}
	if !isNew {
		t.Error("First contact should report a new user")
	}
	if first.LanguageCode != "en" || first.Timezone != "UTC" {
		t.Errorf("Defaults not applied: %+v", first)
	}

	second, isNew, err := service.EnsureUser(ctx, profile)
	if err != nil {
		t.Fatalf("Second EnsureUser failed: %v", err)
	}
	if isNew {
		t.Error("Repeat contact should not report a new user")
	}
	if second.UserID != first.UserID {
		t.Errorf("Expected same user row, got %s and %s", first.UserID, second.UserID)
	}

	count, err := service.StatsRepo.MongoCollection.CountDocuments(ctx,
		bson.M{"user_id": first.UserID})
	if err != nil {
		t.Fatalf("Failed to count stats rows: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one stats row, got %d", count)
	}
}

func TestEnsureUserRefreshesProfile(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	profile := testProfile()

	first, _, err := service.EnsureUser(ctx, profile)
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	profile.FirstName = "Renamed"
	profile.Username = "newhandle"
	second, isNew, err := service.EnsureUser(ctx, profile)
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if isNew {
		t.Error("Profile refresh must not report a new user")
	}
	if second.UserID != first.UserID {
		t.Fatalf("Expected same user row, got %s and %s", first.UserID, second.UserID)
	}
	if second.FirstName != "Renamed" || second.Username != "newhandle" {
		t.Errorf("Returned row not refreshed: %+v", second)
	}

	stored, err := service.LookupUser(ctx, profile.TelegramID)
	if err != nil {
		t.Fatalf("LookupUser failed: %v", err)
	}
	if stored.FirstName != "Renamed" || stored.Username != "newhandle" {
		t.Errorf("Stored row not refreshed: %+v", stored)
	}
}

func TestStreakCountersAdvanceMonotonically(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	habit, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID:   user.UserID,
		Name:     "Morning run",
		Category: "Health",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if habit.CurrentStreak != 0 || habit.LongestStreak != 0 {
		t.Errorf("New habit should start with zeroed streaks: %+v", habit)
	}

	const completions = 3
	for i := 0; i < completions; i++ {
		if _, err := service.RecordCompletion(ctx, CompletionInput{
			HabitID: habit.HabitID,
			UserID:  user.UserID,
		}); err != nil {
			t.Fatalf("RecordCompletion %d failed: %v", i+1, err)
		}
	}

	got, err := service.GetHabit(ctx, habit.HabitID, user.UserID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.CurrentStreak != completions {
		t.Errorf("Expected current streak %d, got %d", completions, got.CurrentStreak)
	}
	if got.LongestStreak != completions {
		t.Errorf("Expected longest streak %d, got %d", completions, got.LongestStreak)
	}
	if got.LongestStreak < got.CurrentStreak {
		t.Errorf("Longest streak %d fell below current %d", got.LongestStreak, got.CurrentStreak)
	}
}

func TestStatsTrackHabitLifecycle(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	run, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID: user.UserID, Name: "Morning run", Category: "Health",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	read, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID: user.UserID, Name: "Read a book", Category: "Learning",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := service.RecordCompletion(ctx, CompletionInput{
			HabitID: run.HabitID, UserID: user.UserID,
		}); err != nil {
			t.Fatalf("RecordCompletion failed: %v", err)
		}
	}
	if _, err := service.RecordCompletion(ctx, CompletionInput{
		HabitID: read.HabitID, UserID: user.UserID,
	}); err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}

	if err := service.DeactivateHabit(ctx, read.HabitID, user.UserID); err != nil {
		t.Fatalf("DeactivateHabit failed: %v", err)
	}

	stats, err := service.GetStats(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalHabitsCreated != 2 {
		t.Errorf("Expected 2 habits created, got %d", stats.TotalHabitsCreated)
	}
	if stats.CurrentActiveHabits != 1 {
		t.Errorf("Expected 1 active habit, got %d", stats.CurrentActiveHabits)
	}
	if stats.TotalCompletions != 3 {
		t.Errorf("Expected 3 completions, got %d", stats.TotalCompletions)
	}

	active, err := service.ListHabits(ctx, user.UserID, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(active) != 1 || active[0].HabitID != run.HabitID {
		t.Errorf("Active list should hold only the running habit: %+v", active)
	}
}

func TestDeactivateHabitIdempotent(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	habit, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID: user.UserID, Name: "Meditate", Category: "Mindset",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := service.DeactivateHabit(ctx, habit.HabitID, user.UserID); err != nil {
			t.Fatalf("DeactivateHabit call %d failed: %v", i+1, err)
		}
	}

	stats, err := service.GetStats(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.CurrentActiveHabits != 0 {
		t.Errorf("Repeated deactivation must decrement once, got %d active", stats.CurrentActiveHabits)
	}
}

func TestListHabitsEmptyIsNotAnError(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	habits, err := service.ListHabits(ctx, user.UserID, false)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if habits == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(habits) != 0 {
		t.Errorf("Expected no habits, got %d", len(habits))
	}
}

func TestRecordCompletionUnknownHabitLeavesNoTrace(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	_, err = service.RecordCompletion(ctx, CompletionInput{
		HabitID: uuid.New().String(),
		UserID:  user.UserID,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	stats, err := service.GetStats(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalCompletions != 0 {
		t.Errorf("Failed completion must not bump counters, got %d", stats.TotalCompletions)
	}

	count, err := service.CompletionRepo.MongoCollection.CountDocuments(ctx,
		bson.M{"user_id": user.UserID})
	if err != nil {
		t.Fatalf("Failed to count completion rows: %v", err)
	}
	if count != 0 {
		t.Errorf("Failed completion must not persist rows, got %d", count)
	}
}

func TestCreateHabitValidation(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	longName := make([]byte, 201)
	for i := range longName {
		longName[i] = 'x'
	}

	tests := []struct {
		name  string
		input CreateHabitInput
	}{
		{"empty name", CreateHabitInput{UserID: user.UserID, Name: "  ", Category: "Health"}},
		{"name too long", CreateHabitInput{UserID: user.UserID, Name: string(longName), Category: "Health"}},
		{"empty category", CreateHabitInput{UserID: user.UserID, Name: "Run", Category: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.CreateHabit(ctx, tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	stats, err := service.GetStats(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalHabitsCreated != 0 {
		t.Errorf("Rejected habits must not bump counters, got %d", stats.TotalHabitsCreated)
	}
}

func TestGetHabitScopedToOwner(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	owner, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	habit, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID: owner.UserID, Name: "Journal", Category: "Mindset",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	if _, err := service.GetHabit(ctx, habit.HabitID, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign user, got %v", err)
	}
}

type memoryStatsCache struct {
	entries       map[string]model.StatsSummary
	invalidations int
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{entries: make(map[string]model.StatsSummary)}
}

func (c *memoryStatsCache) GetSummary(ctx context.Context, userID string) (model.StatsSummary, bool) {
	summary, ok := c.entries[userID]
	return summary, ok
}

func (c *memoryStatsCache) SetSummary(ctx context.Context, userID string, summary model.StatsSummary) {
	c.entries[userID] = summary
}

func (c *memoryStatsCache) Invalidate(ctx context.Context, userID string) {
	delete(c.entries, userID)
	c.invalidations++
}

func TestGetSummaryUsesCache(t *testing.T) {
	service, cleanup := setupHabitServiceTest(t)
	defer cleanup()

	cache := newMemoryStatsCache()
	service.Cache = cache

	ctx := context.Background()
	user, _, err := service.EnsureUser(ctx, testProfile())
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	habit, err := service.CreateHabit(ctx, CreateHabitInput{
		UserID: user.UserID, Name: "Morning run", Category: "Health",
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if cache.invalidations == 0 {
		t.Error("CreateHabit must invalidate the cached summary")
	}

	summary, err := service.GetSummary(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.TotalHabits != 1 {
		t.Errorf("Expected 1 habit in summary, got %d", summary.TotalHabits)
	}
	if _, ok := cache.entries[user.UserID]; !ok {
		t.Error("GetSummary must populate the cache")
	}

	// A primed cache entry is served without re-folding the store
	cache.entries[user.UserID] = model.StatsSummary{TotalHabits: 99}
	summary, err = service.GetSummary(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.TotalHabits != 99 {
		t.Errorf("Expected cached summary, got %+v", summary)
	}

	invalidations := cache.invalidations
	if _, err := service.RecordCompletion(ctx, CompletionInput{
		HabitID: habit.HabitID, UserID: user.UserID,
	}); err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}
	if cache.invalidations <= invalidations {
		t.Error("RecordCompletion must invalidate the cached summary")
	}
	if _, ok := cache.entries[user.UserID]; ok {
		t.Error("Stale summary must be gone after a completion")
	}
}

func TestComputeSummaryRate(t *testing.T) {
	now := time.Now()
	stats := &model.UserStats{
		TotalHabitsCreated:  2,
		CurrentActiveHabits: 2,
		TotalCompletions:    5,
	}
	habits := []*model.Habit{
		{IsActive: true, CreatedAt: now.AddDate(0, 0, -4)}, // 5 expected days
		{IsActive: true, CreatedAt: now.AddDate(0, 0, -4)}, // 5 expected days
		{IsActive: false, CreatedAt: now.AddDate(0, 0, -30)},
	}

	summary := ComputeSummary(stats, habits, now)
	if summary.TotalHabits != 2 || summary.ActiveHabits != 2 || summary.Completions != 5 {
		t.Errorf("Counters not carried over: %+v", summary)
	}
	if summary.CompletionRate != 50.0 {
		t.Errorf("Expected 50.0%% rate, got %.1f", summary.CompletionRate)
	}

	// Over-completion is clamped rather than reported above 100%
	stats.TotalCompletions = 40
	summary = ComputeSummary(stats, habits, now)
	if summary.CompletionRate != 100.0 {
		t.Errorf("Expected clamped 100.0%% rate, got %.1f", summary.CompletionRate)
	}

	// No active habits means no meaningful rate
	summary = ComputeSummary(stats, []*model.Habit{}, now)
	if summary.CompletionRate != 0 {
		t.Errorf("Expected zero rate without habits, got %.1f", summary.CompletionRate)
	}
}
