package handler

import (
	"log"

	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetStatsHandler(c *gin.Context, habitService *usecase.HabitService) {
	user, ok := resolveUser(c, habitService)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	stats, err := habitService.GetStats(ctx, user.UserID)
	if err != nil {
		log.Printf("Error fetching stats for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to fetch stats")
		return
	}

	// Same cached summary path the bot's /stats uses
	summary, err := habitService.GetSummary(ctx, user.UserID)
	if err != nil {
		log.Printf("Error building summary for user %s: %v", user.UserID, err)
		utils.InternalError(c, "Failed to build summary")
		return
	}

	utils.Success(c, gin.H{
		"stats":   stats,
		"summary": summary,
	})
}
