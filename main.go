package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/bot"
	"main/config"
	"main/dialog"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"BOT_TOKEN",
		"MONGO_URI",
		"MONGO_DB",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	// Initialize MongoDB connection
	if os.Getenv("GO_ENV") != "test" {
		utils.InitMongoClient()
	}
}

func setupRouter(habitService *usecase.HabitService, recService *usecase.RecommendationService) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.MetricsMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		users := api.Group("/users/:telegramID")
		{
			users.GET("/habits", func(c *gin.Context) {
				handler.ListHabitsHandler(c, habitService)
			})
			users.POST("/habits", func(c *gin.Context) {
				handler.CreateHabitHandler(c, habitService)
			})
			users.POST("/habits/:habitID/complete", func(c *gin.Context) {
				handler.RecordCompletionHandler(c, habitService)
			})
			users.POST("/habits/:habitID/deactivate", func(c *gin.Context) {
				handler.DeactivateHabitHandler(c, habitService)
			})
			users.GET("/stats", func(c *gin.Context) {
				handler.GetStatsHandler(c, habitService)
			})
			users.GET("/recommendations", func(c *gin.Context) {
				handler.ListRecommendationsHandler(c, habitService, recService)
			})
			users.POST("/recommendations", func(c *gin.Context) {
				handler.CreateRecommendationHandler(c, habitService, recService)
			})
		}

		recommendations := api.Group("/recommendations")
		{
			recommendations.POST("/:id/apply", func(c *gin.Context) {
				handler.ApplyRecommendationHandler(c, recService)
			})
			recommendations.POST("/:id/dismiss", func(c *gin.Context) {
				handler.DismissRecommendationHandler(c, recService)
			})
		}
	}

	return engine
}

func main() {
	utils.InitValidator()

	dbConfig := config.LoadDatabaseConfig()
	if err := repository.SetupIndexes(utils.MongoClient.Database(dbConfig.DatabaseName)); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	habitService := usecase.NewHabitService(utils.MongoClient, dbConfig.UseTransactions)
	recService := usecase.NewRecommendationService(utils.MongoClient)

	// Stats cache is optional: without Redis every /stats re-folds the
	// habit list, which is still correct.
	redisConfig := config.LoadRedisConfig()
	if redisConfig.URL != "" {
		statsCache, err := services.NewStatsCache(redisConfig.URL, redisConfig.StatsTTL)
		if err != nil {
			log.Printf("Stats cache disabled: %v", err)
		} else {
			habitService.Cache = statsCache
			defer statsCache.Close()
		}
	}

	dialogs := dialog.NewStore()
	router := bot.NewRouter(habitService, dialogs)

	botConfig := config.LoadBotConfig()
	habitBot, err := bot.NewBot(botConfig, router)
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	utils.StartSystemMetrics(30 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go habitBot.Run(ctx, botConfig.UpdateTimeout)

	port := utils.GetEnvAsString("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: setupRouter(habitService, recService),
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
