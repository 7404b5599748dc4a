package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	maxHabitNameLength = 200
	maxCategoryLength  = 50

	defaultFrequencyType = "daily"
	defaultReminderTime  = "09:00"
	defaultDifficulty    = "medium"
	defaultTargetStreak  = 21
)

type HabitService struct {
	Client          *mongo.Client // nil runs multi-row writes without a transaction
	UseTransactions bool

	UserRepo       *repository.UserRepo
	HabitRepo      *repository.HabitRepo
	CompletionRepo *repository.CompletionRepo
	StatsRepo      *repository.StatsRepo

	Cache StatsCache
}

// StatsCache is implemented by the Redis stats cache; a nil value means
// caching is disabled.
type StatsCache interface {
	GetSummary(ctx context.Context, userID string) (model.StatsSummary, bool)
	SetSummary(ctx context.Context, userID string, summary model.StatsSummary)
	Invalidate(ctx context.Context, userID string)
}

func NewHabitService(client *mongo.Client, useTransactions bool) *HabitService {
	return &HabitService{
		Client:          client,
		UseTransactions: useTransactions,
		UserRepo:        repository.GetUserRepo(client),
		HabitRepo:       repository.GetHabitRepo(client),
		CompletionRepo:  repository.GetCompletionRepo(client),
		StatsRepo:       repository.GetStatsRepo(client),
	}
}

// Profile carries the identity fields the transport asserts for a chat.
type Profile struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

type CreateHabitInput struct {
	UserID        string
	Name          string
	Category      string
	FrequencyType string
	ReminderTime  string
	Difficulty    string
}

type CompletionInput struct {
	HabitID string
	UserID  string
	Notes   string
	Mood    string
}

// withTxn runs fn inside a Mongo session transaction so that the
// multi-row updates of each domain operation are all-or-nothing.
func (s *HabitService) withTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.Client == nil || !s.UseTransactions {
		return fn(ctx)
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureUser looks up the user by chat identity, creating the User and
// its zero-valued UserStats row together on first contact. Idempotent:
// repeated calls return the same row with isNew=false, refreshing the
// display-name fields when the Telegram profile changed.
func (s *HabitService) EnsureUser(ctx context.Context, profile Profile) (*model.User, bool, error) {
	existing, err := s.UserRepo.FindUserByTelegramID(ctx, profile.TelegramID)
	if err != nil {
		return nil, false, fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		if profile.FirstName != "" && (existing.Username != profile.Username ||
			existing.FirstName != profile.FirstName || existing.LastName != profile.LastName) {
			if _, err := s.UserRepo.UpdateUserProfile(ctx, existing.UserID,
				profile.Username, profile.FirstName, profile.LastName); err != nil {
				return nil, false, fmt.Errorf("profile refresh failed: %w", err)
			}
			existing.Username = profile.Username
			existing.FirstName = profile.FirstName
			existing.LastName = profile.LastName
		}
		return existing, false, nil
	}

	now := time.Now()
	languageCode := profile.LanguageCode
	if languageCode == "" {
		languageCode = "en"
	}
	user := &model.User{
		UserID:           uuid.New().String(),
		TelegramID:       profile.TelegramID,
		Username:         profile.Username,
		FirstName:        profile.FirstName,
		LastName:         profile.LastName,
		LanguageCode:     languageCode,
		Timezone:         "UTC",
		NotificationTime: defaultReminderTime,
		MotivationLevel:  "medium",
		Goals:            []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stats := &model.UserStats{
		StatsID:   uuid.New().String(),
		UserID:    user.UserID,
		UpdatedAt: now,
	}

	err = s.withTxn(ctx, func(ctx context.Context) error {
		if err := s.UserRepo.AddUser(ctx, user); err != nil {
			return err
		}
		return s.StatsRepo.AddStats(ctx, stats)
	})
	if err != nil {
		// A concurrent first contact may have won the unique index race;
		// the surviving row is the answer either way.
		if mongo.IsDuplicateKeyError(err) {
			winner, findErr := s.UserRepo.FindUserByTelegramID(ctx, profile.TelegramID)
			if findErr == nil && winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, fmt.Errorf("user registration failed: %w", err)
	}

	log.Printf("Registered new user %s (telegram %d)", user.UserID, user.TelegramID)
	return user, true, nil
}

// LookupUser resolves a chat identity without registering it. Returns
// (nil, nil) when the chat has never run /start.
func (s *HabitService) LookupUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.UserRepo.FindUserByTelegramID(ctx, telegramID)
}

// GetHabit reads one habit, scoped to its owner.
func (s *HabitService) GetHabit(ctx context.Context, habitID, userID string) (*model.Habit, error) {
	habit, err := s.HabitRepo.FindHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil || habit.UserID != userID {
		return nil, fmt.Errorf("%w: habit %s", ErrNotFound, habitID)
	}
	return habit, nil
}

// CreateHabit inserts a habit with zeroed streak counters and bumps the
// owner's habit counters in the same transaction.
func (s *HabitService) CreateHabit(ctx context.Context, input CreateHabitInput) (*model.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: habit name is required", ErrValidation)
	}
	if len(name) > maxHabitNameLength {
		return nil, fmt.Errorf("%w: habit name exceeds %d characters", ErrValidation, maxHabitNameLength)
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if len(category) > maxCategoryLength {
		return nil, fmt.Errorf("%w: category exceeds %d characters", ErrValidation, maxCategoryLength)
	}
	if input.ReminderTime != "" && !utils.ValidateReminderTime(input.ReminderTime) {
		return nil, fmt.Errorf("%w: reminder time must be HH:MM", ErrValidation)
	}

	habit := &model.Habit{
		HabitID:        uuid.New().String(),
		UserID:         input.UserID,
		Name:           name,
		Category:       category,
		Difficulty:     defaultString(input.Difficulty, defaultDifficulty),
		FrequencyType:  defaultString(input.FrequencyType, defaultFrequencyType),
		FrequencyValue: []string{},
		ReminderTime:   defaultString(input.ReminderTime, defaultReminderTime),
		TargetStreak:   defaultTargetStreak,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}

	err := s.withTxn(ctx, func(ctx context.Context) error {
		user, err := s.UserRepo.FindUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, input.UserID)
		}

		if err := s.HabitRepo.AddHabit(ctx, habit); err != nil {
			return err
		}

		matched, err := s.StatsRepo.IncrementHabitCounters(ctx, input.UserID)
		if err != nil {
			return err
		}
		if matched == 0 {
			return fmt.Errorf("%w: stats row for user %s", ErrNotFound, input.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.TrackHabitOperation("create")
	s.invalidateStats(ctx, input.UserID)
	return habit, nil
}

// ListHabits returns the user's habits, newest first. An empty slice is
// a valid answer, not an error.
func (s *HabitService) ListHabits(ctx context.Context, userID string, activeOnly bool) ([]*model.Habit, error) {
	utils.TrackHabitOperation("list")
	return s.HabitRepo.GetUserHabits(ctx, userID, activeOnly)
}

// RecordCompletion appends a completion event, advances the habit's
// streak counters and bumps the owner's completion total, all in one
// transaction. This is the only mutator of streak counters; streaks
// never decay or reset.
func (s *HabitService) RecordCompletion(ctx context.Context, input CompletionInput) (*model.HabitCompletion, error) {
	completion := &model.HabitCompletion{
		CompletionID: uuid.New().String(),
		HabitID:      input.HabitID,
		UserID:       input.UserID,
		CompletedAt:  time.Now(),
		Notes:        strings.TrimSpace(input.Notes),
		Mood:         input.Mood,
	}

	err := s.withTxn(ctx, func(ctx context.Context) error {
		habit, err := s.HabitRepo.FindHabit(ctx, input.HabitID)
		if err != nil {
			return err
		}
		if habit == nil || habit.UserID != input.UserID {
			return fmt.Errorf("%w: habit %s", ErrNotFound, input.HabitID)
		}

		if err := s.CompletionRepo.AddCompletion(ctx, completion); err != nil {
			return err
		}

		current := habit.CurrentStreak + 1
		longest := habit.LongestStreak
		if current > longest {
			longest = current
		}
		if _, err := s.HabitRepo.UpdateStreaks(ctx, habit.HabitID, current, longest); err != nil {
			return err
		}

		matched, err := s.StatsRepo.IncrementCompletions(ctx, input.UserID)
		if err != nil {
			return err
		}
		if matched == 0 {
			return fmt.Errorf("%w: stats row for user %s", ErrNotFound, input.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.TrackHabitOperation("complete")
	s.invalidateStats(ctx, input.UserID)
	return completion, nil
}

// DeactivateHabit flips is_active off and decrements the owner's active
// habit count. Already-paused habits are left untouched.
func (s *HabitService) DeactivateHabit(ctx context.Context, habitID, userID string) error {
	err := s.withTxn(ctx, func(ctx context.Context) error {
		habit, err := s.HabitRepo.FindHabit(ctx, habitID)
		if err != nil {
			return err
		}
		if habit == nil || habit.UserID != userID {
			return fmt.Errorf("%w: habit %s", ErrNotFound, habitID)
		}
		if !habit.IsActive {
			return nil
		}

		matched, err := s.HabitRepo.DeactivateHabit(ctx, habitID)
		if err != nil {
			return err
		}
		if matched == 0 {
			return nil
		}

		_, err = s.StatsRepo.DecrementActiveHabits(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}

	utils.TrackHabitOperation("deactivate")
	s.invalidateStats(ctx, userID)
	return nil
}

// GetStats is a pure read of the denormalized aggregate.
func (s *HabitService) GetStats(ctx context.Context, userID string) (*model.UserStats, error) {
	stats, err := s.StatsRepo.FindStatsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("%w: stats row for user %s", ErrNotFound, userID)
	}
	return stats, nil
}

// GetSummary returns the rendered statistics view, served from the cache
// when one is wired. Both the bot and the REST surface read through here
// so the two never disagree.
func (s *HabitService) GetSummary(ctx context.Context, userID string) (model.StatsSummary, error) {
	if s.Cache != nil {
		if summary, ok := s.Cache.GetSummary(ctx, userID); ok {
			return summary, nil
		}
	}

	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return model.StatsSummary{}, err
	}
	habits, err := s.ListHabits(ctx, userID, false)
	if err != nil {
		return model.StatsSummary{}, err
	}

	summary := ComputeSummary(stats, habits, time.Now())
	if s.Cache != nil {
		s.Cache.SetSummary(ctx, userID, summary)
	}
	return summary, nil
}

func (s *HabitService) invalidateStats(ctx context.Context, userID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// ComputeSummary renders the display-only statistics view. Completion
// rate is completions over expected daily occurrences since each active
// habit was created, capped at 100%.
func ComputeSummary(stats *model.UserStats, habits []*model.Habit, now time.Time) model.StatsSummary {
	summary := model.StatsSummary{
		TotalHabits:  stats.TotalHabitsCreated,
		ActiveHabits: stats.CurrentActiveHabits,
		Completions:  stats.TotalCompletions,
	}

	expected := 0
	for _, habit := range habits {
		if !habit.IsActive {
			continue
		}
		days := int(now.Sub(habit.CreatedAt).Hours()/24) + 1
		if days < 1 {
			days = 1
		}
		expected += days
	}
	if expected > 0 {
		rate := float64(stats.TotalCompletions) / float64(expected) * 100
		if rate > 100 {
			rate = 100
		}
		summary.CompletionRate = rate
	}

	return summary
}
