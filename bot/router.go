package bot

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"main/dialog"
	"main/model"
	"main/usecase"
	"main/utils"
)

// HabitOperations is the slice of the domain layer the router drives.
type HabitOperations interface {
	EnsureUser(ctx context.Context, profile usecase.Profile) (*model.User, bool, error)
	LookupUser(ctx context.Context, telegramID int64) (*model.User, error)
	CreateHabit(ctx context.Context, input usecase.CreateHabitInput) (*model.Habit, error)
	GetHabit(ctx context.Context, habitID, userID string) (*model.Habit, error)
	ListHabits(ctx context.Context, userID string, activeOnly bool) ([]*model.Habit, error)
	RecordCompletion(ctx context.Context, input usecase.CompletionInput) (*model.HabitCompletion, error)
	DeactivateHabit(ctx context.Context, habitID, userID string) error
	GetStats(ctx context.Context, userID string) (*model.UserStats, error)
	GetSummary(ctx context.Context, userID string) (model.StatsSummary, error)
}

// Inbound is one text event plus its session key. Command is set (without
// the slash) when the text was a bot command.
type Inbound struct {
	ChatID  int64
	Command string
	Args    string
	Text    string
	Profile usecase.Profile
}

// Router is the core entry point: one inbound event in, one reply out.
// It never performs network I/O itself.
type Router struct {
	Habits  HabitOperations
	Dialogs *dialog.Store
}

func NewRouter(habits HabitOperations, dialogs *dialog.Store) *Router {
	return &Router{Habits: habits, Dialogs: dialogs}
}

func (r *Router) Handle(ctx context.Context, in Inbound) Reply {
	if in.Command != "" {
		utils.TrackBotUpdate("command")
		return r.handleCommand(ctx, in)
	}

	if r.Dialogs.InProgress(in.ChatID) {
		utils.TrackBotUpdate("text")
		return r.handleDialog(ctx, in)
	}

	utils.TrackBotUpdate("unknown")
	return fallbackReply()
}

func (r *Router) handleCommand(ctx context.Context, in Inbound) Reply {
	switch in.Command {
	case "start":
		user, isNew, err := r.Habits.EnsureUser(ctx, in.Profile)
		if err != nil {
			log.Printf("EnsureUser failed for chat %d: %v", in.ChatID, err)
			return storageErrorReply()
		}
		if isNew {
			return welcomeReply(user.FirstName)
		}
		return welcomeBackReply(user.FirstName)

	case "help":
		return helpReply()

	case "add_habit":
		_, reply, ok := r.requireUser(ctx, in)
		if !ok {
			return reply
		}
		r.Dialogs.Step(in.ChatID, func(dialog.State) dialog.State {
			return dialog.State{Stage: dialog.StageAwaitingName}
		})
		return namePromptReply()

	case "habits":
		user, reply, ok := r.requireUser(ctx, in)
		if !ok {
			return reply
		}
		habits, err := r.Habits.ListHabits(ctx, user.UserID, false)
		if err != nil {
			log.Printf("ListHabits failed for chat %d: %v", in.ChatID, err)
			return storageErrorReply()
		}
		return habitListReply(habits)

	case "done":
		user, reply, ok := r.requireUser(ctx, in)
		if !ok {
			return reply
		}
		habits, err := r.Habits.ListHabits(ctx, user.UserID, true)
		if err != nil {
			log.Printf("ListHabits failed for chat %d: %v", in.ChatID, err)
			return storageErrorReply()
		}
		if len(habits) == 0 {
			return habitListReply(habits)
		}
		habitIDs := make([]string, len(habits))
		for i, habit := range habits {
			habitIDs[i] = habit.HabitID
		}
		r.Dialogs.Step(in.ChatID, func(dialog.State) dialog.State {
			return dialog.State{Stage: dialog.StageAwaitingCompletion, HabitIDs: habitIDs}
		})
		return completionPromptReply(habits)

	case "stats":
		user, reply, ok := r.requireUser(ctx, in)
		if !ok {
			return reply
		}
		summary, err := r.Habits.GetSummary(ctx, user.UserID)
		if err != nil {
			log.Printf("GetSummary failed for chat %d: %v", in.ChatID, err)
			return storageErrorReply()
		}
		return statsReply(user.FirstName, summary)

	case "pause":
		user, reply, ok := r.requireUser(ctx, in)
		if !ok {
			return reply
		}
		return r.handlePause(ctx, user, in.Args)

	case "cancel":
		if !r.Dialogs.InProgress(in.ChatID) {
			return nothingToCancelReply()
		}
		r.Dialogs.Reset(in.ChatID)
		return cancelledReply()

	default:
		return fallbackReply()
	}
}

// requireUser resolves the chat identity to a registered user. Unknown
// chats are pointed at /start rather than registered implicitly, which
// is the behavior every command except /start has.
func (r *Router) requireUser(ctx context.Context, in Inbound) (*model.User, Reply, bool) {
	user, err := r.Habits.LookupUser(ctx, in.Profile.TelegramID)
	if err != nil {
		log.Printf("LookupUser failed for chat %d: %v", in.ChatID, err)
		return nil, storageErrorReply(), false
	}
	if user == nil {
		return nil, startFirstReply(), false
	}
	return user, Reply{}, true
}

// handlePause resolves n against the same all-habits list /habits
// renders, so the numbers the user sees are the numbers /pause accepts.
func (r *Router) handlePause(ctx context.Context, user *model.User, args string) Reply {
	choice, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || choice < 1 {
		return pauseUsageReply()
	}

	habits, listErr := r.Habits.ListHabits(ctx, user.UserID, false)
	if listErr != nil {
		log.Printf("ListHabits failed for user %s: %v", user.UserID, listErr)
		return storageErrorReply()
	}
	if choice > len(habits) {
		return pauseUsageReply()
	}

	habit := habits[choice-1]
	if !habit.IsActive {
		return habitAlreadyPausedReply(habit)
	}
	if err := r.Habits.DeactivateHabit(ctx, habit.HabitID, user.UserID); err != nil {
		log.Printf("DeactivateHabit failed for habit %s: %v", habit.HabitID, err)
		return storageErrorReply()
	}
	return habitPausedReply(habit)
}

// handleDialog runs one state-machine step under the session lock. A
// failed domain operation never leaves the session stuck mid-dialog: the
// state resets to idle alongside the retry-later message.
func (r *Router) handleDialog(ctx context.Context, in Inbound) Reply {
	user, err := r.Habits.LookupUser(ctx, in.Profile.TelegramID)
	if err != nil {
		log.Printf("LookupUser failed for chat %d: %v", in.ChatID, err)
		return storageErrorReply()
	}
	if user == nil {
		r.Dialogs.Reset(in.ChatID)
		return startFirstReply()
	}

	var reply Reply
	r.Dialogs.Step(in.ChatID, func(state dialog.State) dialog.State {
		next, effect := dialog.Advance(state, in.Text)

		switch effect.Kind {
		case dialog.EffectPromptCategory:
			reply = categoryPromptReply(effect.Name)

		case dialog.EffectPromptFrequency:
			reply = frequencyPromptReply(effect.Category)

		case dialog.EffectInvalidName:
			reply = invalidNameReply()

		case dialog.EffectInvalidCategory:
			reply = invalidCategoryReply()

		case dialog.EffectInvalidChoice:
			reply = invalidChoiceReply()

		case dialog.EffectCreateHabit:
			habit, err := r.Habits.CreateHabit(ctx, usecase.CreateHabitInput{
				UserID:   user.UserID,
				Name:     effect.Name,
				Category: effect.Category,
			})
			if err != nil {
				log.Printf("CreateHabit failed for chat %d: %v", in.ChatID, err)
				reply = storageErrorReply()
				return dialog.State{}
			}
			reply = habitCreatedReply(habit)

		case dialog.EffectCompleteHabit:
			reply = r.completeHabit(ctx, user, effect.HabitID)
			return dialog.State{}

		default:
			reply = fallbackReply()
		}

		return next
	})

	return reply
}

func (r *Router) completeHabit(ctx context.Context, user *model.User, habitID string) Reply {
	_, err := r.Habits.RecordCompletion(ctx, usecase.CompletionInput{
		HabitID: habitID,
		UserID:  user.UserID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return habitGoneReply()
		}
		log.Printf("RecordCompletion failed for habit %s: %v", habitID, err)
		return storageErrorReply()
	}

	habit, err := r.Habits.GetHabit(ctx, habitID, user.UserID)
	if err != nil {
		log.Printf("GetHabit failed for habit %s: %v", habitID, err)
		return storageErrorReply()
	}
	return completionLoggedReply(habit)
}
