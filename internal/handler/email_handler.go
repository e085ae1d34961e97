package handler

import (
	"net/http"

	"evenza/internal/mailer"
	"evenza/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmailHandler mail relay 服務的端點。payload 形狀與主服務的
// mailer.Client 對齊。
type EmailHandler struct {
	sender mailer.Sender
}

func NewEmailHandler(sender mailer.Sender) *EmailHandler {
	return &EmailHandler{sender: sender}
}

func (h *EmailHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/email")
	{
		router.POST("join", h.Join)
		router.POST("cancellation", h.Cancellation)
		router.POST("verification", h.Verification)
	}
}

func (h *EmailHandler) Join(c *gin.Context) {
	var req mailer.JoinEmail
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientEmail == "" || req.EventTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: recipientEmail and eventTitle.",
		})
		return
	}

	subject := "You're joining " + req.EventTitle + "!"
	body := mailer.JoinBody(req.EventTitle, req.EventDate, req.EventLocation)
	h.send(c, []string{req.RecipientEmail}, req.OrganizerEmail, subject, body)
}

func (h *EmailHandler) Cancellation(c *gin.Context) {
	var req mailer.CancellationEmail
	if err := c.ShouldBindJSON(&req); err != nil || req.EventTitle == "" || len(req.Recipients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: recipients (non-empty array) and eventTitle.",
		})
		return
	}

	subject := req.EventTitle + " has been canceled"
	body := mailer.CancellationBody(req.EventTitle, req.EventDate, req.EventLocation)
	h.send(c, req.Recipients, req.OrganizerEmail, subject, body)
}

func (h *EmailHandler) Verification(c *gin.Context) {
	var req mailer.VerificationEmail
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientEmail == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: recipientEmail and code.",
		})
		return
	}

	h.send(c, []string{req.RecipientEmail}, "", "Your Evenza verification code", mailer.VerificationBody(req.Code))
}

func (h *EmailHandler) send(c *gin.Context, to []string, cc, subject, body string) {
	if err := h.sender.Send(to, cc, subject, body); err != nil {
		logger.WithComponent("mailrelay").Error("Failed to send email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
