package main

import (
	"context"
	"log"

	"evenza/config"
	"evenza/internal/cache"
	"evenza/internal/database"
	"evenza/internal/handler"
	"evenza/internal/mailer"
	"evenza/internal/middleware"
	"evenza/internal/repository"
	"evenza/internal/service"
	"evenza/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	eventStore := repository.NewEventStore(pool)
	userRepo := repository.NewUserRepository(pool)
	joinedCache := cache.NewJoinedEventCache(rdb)
	uploader := upload.NewImgbbUploader(&cfg.Upload)
	mail := mailer.NewClient(cfg.Mail.RelayURL)

	eventService := service.NewEventService(eventStore, userRepo, uploader)
	participation := service.NewParticipationService(eventStore, joinedCache)
	authService := service.NewAuthService(userRepo, mail, cfg.Auth.JWTSecret)

	// 啟動先載入一次活動列表
	eventService.Refresh(context.Background())

	// 背景定期刷新,刷新後對已載入的使用者 reconcile
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Refresh.CronSpec, func() {
		events := eventService.Refresh(context.Background())
		participation.ReconcileAll(context.Background(), events)
	}); err != nil {
		log.Fatalf("Invalid refresh cron spec %q: %v", cfg.Refresh.CronSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	requireAuth := middleware.Auth(cfg.Auth.JWTSecret, true)
	rl := middleware.NewRateLimiter(5, 10)

	handler.NewEventHandler(eventService, mail).RegisterRoutes(router, requireAuth)
	handler.NewFeedHandler(eventService).RegisterRoutes(router)
	handler.NewParticipationHandler(eventService, participation, mail).RegisterRoutes(router, requireAuth)
	handler.NewAuthHandler(authService).RegisterRoutes(router, rl)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
