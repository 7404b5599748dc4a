package bot

import (
	"fmt"
	"strings"

	"main/model"
)

// Reply is the outbound message for one inbound update: plain text plus
// an optional quick-reply keyboard, rows of labels.
type Reply struct {
	Text         string
	QuickReplies [][]string
}

var mainKeyboard = [][]string{
	{"/add_habit", "/habits"},
	{"/done", "/stats"},
	{"/help"},
}

var categoryKeyboard = [][]string{
	{"Health", "Productivity"},
	{"Learning", "Mindset"},
	{"Sport", "Lifestyle"},
}

var frequencyKeyboard = [][]string{
	{"Daily", "Weekdays"},
	{"Every other day", "Custom days"},
}

func welcomeReply(firstName string) Reply {
	text := fmt.Sprintf(`Welcome, %s!

I'm your habit tracking assistant. With me you can:
- Create and track habits
- Log completions and build streaks
- See your progress and statistics

Let's create your first habit: send /add_habit to begin.`, firstName)
	return Reply{Text: text, QuickReplies: mainKeyboard}
}

func welcomeBackReply(firstName string) Reply {
	text := fmt.Sprintf(`Welcome back, %s!

Ready to keep working on your habits?

/add_habit - Add a new habit
/habits - List my habits
/done - Log a completion
/stats - My statistics
/help - Help`, firstName)
	return Reply{Text: text, QuickReplies: mainKeyboard}
}

func helpReply() Reply {
	return Reply{Text: `Commands:

/start - Start working with the bot
/add_habit - Add a new habit
/habits - List my habits
/done - Log a habit completion
/pause <n> - Pause habit number n from the list
/stats - My statistics and progress
/cancel - Abandon the current dialog

Start with /add_habit to create your first habit!`}
}

func namePromptReply() Reply {
	return Reply{Text: `Great, let's create a new habit.

Step 1 of 4: What is your habit called?
For example: "Morning run", "Read a book", "Evening walk"`}
}

func categoryPromptReply(name string) Reply {
	text := fmt.Sprintf(`Step 2 of 4: "%s" is a great name!

Now pick a category:`, name)
	return Reply{Text: text, QuickReplies: categoryKeyboard}
}

func frequencyPromptReply(category string) Reply {
	text := fmt.Sprintf(`Step 3 of 4: Category "%s" selected!

How often do you plan to perform this habit?`, category)
	return Reply{Text: text, QuickReplies: frequencyKeyboard}
}

func habitCreatedReply(habit *model.Habit) Reply {
	text := fmt.Sprintf(`Congratulations, your habit is created!

Name: %s
Category: %s
Frequency: Daily

Use /done to log completions and /habits to see all your habits.`, habit.Name, habit.Category)
	return Reply{Text: text, QuickReplies: mainKeyboard}
}

func habitListReply(habits []*model.Habit) Reply {
	if len(habits) == 0 {
		return Reply{Text: "You don't have any habits yet.\nAdd your first one with /add_habit"}
	}

	var b strings.Builder
	b.WriteString("Your habits:\n\n")
	for i, habit := range habits {
		status := "Active"
		if !habit.IsActive {
			status = "Paused"
		}
		fmt.Fprintf(&b, "%d. %s\n   %s | Streak: %d days | %s\n\n",
			i+1, habit.Name, habit.Category, habit.CurrentStreak, status)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), QuickReplies: mainKeyboard}
}

func completionPromptReply(habits []*model.Habit) Reply {
	var b strings.Builder
	b.WriteString("Which habit did you complete?\n\n")
	var row []string
	rows := [][]string{}
	for i, habit := range habits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, habit.Name)
		row = append(row, fmt.Sprintf("%d", i+1))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	b.WriteString("\nSend the number from the list.")
	return Reply{Text: b.String(), QuickReplies: rows}
}

func completionLoggedReply(habit *model.Habit) Reply {
	text := fmt.Sprintf(`Completion logged for "%s"!

Current streak: %d days
Longest streak: %d days

Keep it up!`, habit.Name, habit.CurrentStreak, habit.LongestStreak)
	return Reply{Text: text, QuickReplies: mainKeyboard}
}

func statsReply(firstName string, summary model.StatsSummary) Reply {
	text := fmt.Sprintf(`Statistics for %s

Total habits: %d
Active habits: %d
Completions logged: %d
Completion rate: %.1f%%

Keep up the good work!`,
		firstName, summary.TotalHabits, summary.ActiveHabits,
		summary.Completions, summary.CompletionRate)
	return Reply{Text: text, QuickReplies: mainKeyboard}
}

func startFirstReply() Reply {
	return Reply{Text: "Please start the bot with /start first."}
}

func fallbackReply() Reply {
	return Reply{Text: "I didn't understand that message.\nUse the menu commands or /help for guidance.", QuickReplies: mainKeyboard}
}

func storageErrorReply() Reply {
	return Reply{Text: "Something went wrong on my side. Please try again in a moment.", QuickReplies: mainKeyboard}
}

func invalidNameReply() Reply {
	return Reply{Text: "That doesn't look like a valid name. Please send a non-empty name up to 200 characters."}
}

func invalidCategoryReply() Reply {
	return Reply{Text: "That doesn't look like a valid category. Please send a non-empty category up to 50 characters.", QuickReplies: categoryKeyboard}
}

func invalidChoiceReply() Reply {
	return Reply{Text: "Please send one of the numbers from the list, or /cancel to abort."}
}

func cancelledReply() Reply {
	return Reply{Text: "Dialog cancelled.", QuickReplies: mainKeyboard}
}

func nothingToCancelReply() Reply {
	return Reply{Text: "There is nothing to cancel.", QuickReplies: mainKeyboard}
}

func habitGoneReply() Reply {
	return Reply{Text: "That habit no longer exists. Use /habits to check your list.", QuickReplies: mainKeyboard}
}

func pauseUsageReply() Reply {
	return Reply{Text: "Send /pause <n> where n is the habit number from /habits."}
}

func habitPausedReply(habit *model.Habit) Reply {
	return Reply{Text: fmt.Sprintf("Habit \"%s\" is paused. It will no longer count toward your active habits.", habit.Name), QuickReplies: mainKeyboard}
}

func habitAlreadyPausedReply(habit *model.Habit) Reply {
	return Reply{Text: fmt.Sprintf("Habit \"%s\" is already paused.", habit.Name), QuickReplies: mainKeyboard}
}
