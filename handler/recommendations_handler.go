package handler

import (
	"errors"
	"log"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func ListRecommendationsHandler(c *gin.Context, habitService *usecase.HabitService, recService *usecase.RecommendationService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	recs, err := recService.ListRecommendations(c.Request.Context(), user.UserID)
	if err != nil {
		log.Printf("Error listing recommendations for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to list recommendations")
		return
	}

	utils.Success(c, recs)
}

func CreateRecommendationHandler(c *gin.Context, habitService *usecase.HabitService, recService *usecase.RecommendationService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}

	var req dto.CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	rec, err := recService.CreateRecommendation(c.Request.Context(), usecase.RecommendationInput{
		UserID:   user.UserID,
		Type:     req.Type,
		Content:  req.Content,
		Priority: req.Priority,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error creating recommendation for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to create recommendation")
		return
	}

	utils.Created(c, rec)
}

func ApplyRecommendationHandler(c *gin.Context, recService *usecase.RecommendationService) {
	err := recService.ApplyRecommendation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.NotFound(c, "Recommendation not found")
			return
		}
		log.Printf("Error applying recommendation %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to apply recommendation")
		return
	}
	utils.Success(c, gin.H{"message": "Recommendation applied"})
}

func DismissRecommendationHandler(c *gin.Context, recService *usecase.RecommendationService) {
	err := recService.DismissRecommendation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.NotFound(c, "Recommendation not found")
			return
		}
		log.Printf("Error dismissing recommendation %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to dismiss recommendation")
		return
	}
	utils.Success(c, gin.H{"message": "Recommendation dismissed"})
}
