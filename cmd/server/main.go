package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/config"
	"github.com/kubayevvv7/Elite-Math-Update/internal/database"
	"github.com/kubayevvv7/Elite-Math-Update/internal/handlers"
	"github.com/kubayevvv7/Elite-Math-Update/internal/middleware"
	"github.com/kubayevvv7/Elite-Math-Update/internal/scheduler"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
	"github.com/kubayevvv7/Elite-Math-Update/internal/telegram"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userService := services.NewUserService(db)
	gradingService := services.NewGradingService()
	testService := services.NewTestService(db)
	resultService := services.NewResultService(db)
	quizService := services.NewQuizService(db, userService, cfg.QuizReward)
	paymentService := services.NewPaymentService(db, cfg.SubscriptionPrice, cfg.SubscriptionDays)
	blocklistService := services.NewBlocklistService(db)
	videoService := services.NewVideoService(db)
	authService := services.NewAuthService(db, cfg.JWTSecret)

	client := telegram.NewClient(cfg.BotToken)
	stateManager := telegram.NewStateManager()
	updateHandler := telegram.NewUpdateHandler(
		client, stateManager, cfg,
		userService, testService, resultService, gradingService,
		quizService, paymentService, blocklistService, videoService,
	)

	dispatcher := telegram.NewQuizDispatcher(
		client, quizService, userService, cfg.AdminIDs,
		time.Duration(cfg.DispatchIntervalHours)*time.Hour,
	)
	go dispatcher.Run(ctx)

	subscriptionScheduler := scheduler.NewSubscriptionScheduler(paymentService)
	if err := subscriptionScheduler.Start(); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer subscriptionScheduler.Stop()

	if cfg.Polling {
		poller := telegram.NewPoller(client, updateHandler)
		go poller.Run(ctx)
	} else {
		webhookURL := cfg.WebhookBaseURL + "/webhook/bot"
		if err := client.SetWebhook(webhookURL, cfg.WebhookSecret); err != nil {
			log.Fatalf("set webhook: %v", err)
		}
		log.Printf("webhook registered: %s", webhookURL)
	}

	authHandler := handlers.NewAuthHandler(authService)
	testHandler := handlers.NewTestHandler(testService, videoService, gradingService)
	resultHandler := handlers.NewResultHandler(testService, resultService, cfg.MediaDir)
	webhook := telegram.NewWebhook(updateHandler, cfg.WebhookSecret)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/webhook/bot", webhook.Handle)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		tests := api.Group("/tests")
		tests.Use(middleware.JWTAuth(authService))
		{
			tests.GET("", testHandler.ListTests)
			tests.POST("", testHandler.CreateTest)
			tests.GET("/:id", testHandler.GetTest)
			tests.DELETE("/:id", testHandler.DeleteTest)
			tests.POST("/:id/video", testHandler.AttachVideo)
			tests.DELETE("/:id/video", testHandler.DetachVideo)
			tests.GET("/:id/results", resultHandler.ListByTest)
			tests.GET("/:id/stats", resultHandler.StatsByTest)
			tests.GET("/:id/report.pdf", resultHandler.DownloadPDF)
		}

		videos := api.Group("/videos")
		videos.Use(middleware.JWTAuth(authService))
		{
			videos.GET("", testHandler.ListVideos)
		}

		results := api.Group("/results")
		results.Use(middleware.JWTAuth(authService))
		{
			results.GET("/today", resultHandler.Today)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
