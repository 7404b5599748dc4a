package handler

import (
	"errors"
	"log"
	"strconv"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// resolveUser maps the :telegramID path segment to a registered user.
func resolveUser(c *gin.Context, habitService *usecase.HabitService) (*model.User, bool) {
	telegramID, err := strconv.ParseInt(c.Param("telegramID"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid telegram ID")
		return nil, false
	}

	user, err := habitService.LookupUser(c.Request.Context(), telegramID)
	if err != nil {
		log.Printf("Error looking up user %d: %v", telegramID, err)
		utils.InternalError(c, "Failed to look up user")
		return nil, false
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return nil, false
	}
	return user, true
}

func ListHabitsHandler(c *gin.Context, habitService *usecase.HabitService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	activeOnly := c.Query("active") == "true"
	habits, err := habitService.ListHabits(c.Request.Context(), user.UserID, activeOnly)
	if err != nil {
		log.Printf("Error listing habits for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to list habits")
		return
	}

	utils.Success(c, habits)
}

func CreateHabitHandler(c *gin.Context, habitService *usecase.HabitService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	habit, err := habitService.CreateHabit(c.Request.Context(), usecase.CreateHabitInput{
		UserID:        user.UserID,
		Name:          req.Name,
		Category:      req.Category,
		FrequencyType: req.FrequencyType,
		ReminderTime:  req.ReminderTime,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error creating habit for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to create habit")
		return
	}

	utils.Created(c, habit)
}

func RecordCompletionHandler(c *gin.Context, habitService *usecase.HabitService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	var req dto.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	completion, err := habitService.RecordCompletion(c.Request.Context(), usecase.CompletionInput{
		HabitID: c.Param("habitID"),
		UserID:  user.UserID,
		Notes:   req.Notes,
		Mood:    req.Mood,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		log.Printf("Error recording completion for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to record completion")
		return
	}

	utils.Created(c, completion)
}

func DeactivateHabitHandler(c *gin.Context, habitService *usecase.HabitService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	err := habitService.DeactivateHabit(c.Request.Context(), c.Param("habitID"), user.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		log.Printf("Error deactivating habit for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to deactivate habit")
		return
	}

	utils.Success(c, gin.H{"message": "Habit deactivated"})
}
