package main

import (
	"log"

	"evenza/config"
	"evenza/internal/handler"
	"evenza/internal/mailer"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	if cfg.Mail.SMTPHost == "" || cfg.Mail.SMTPUser == "" {
		log.Println("SMTP configuration is incomplete; email sending will fail until SMTP_HOST/SMTP_USER/SMTP_PASS are provided")
	}

	sender := mailer.NewSMTPSender(&cfg.Mail)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEmailHandler(sender).RegisterRoutes(router)

	if err := router.Run(cfg.Mail.ListenAddr); err != nil {
		log.Fatalf("Mail relay exited: %v", err)
	}
}
