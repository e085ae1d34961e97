package handler

import (
	"context"
	"net/http"

	"evenza/internal/mailer"
	"evenza/internal/middleware"
	"evenza/internal/model"
	"evenza/internal/service"

	"github.com/gin-gonic/gin"
)

type ParticipationHandler struct {
	events        service.EventService
	participation service.ParticipationService
	mail          *mailer.Client
}

func NewParticipationHandler(events service.EventService, participation service.ParticipationService, mail *mailer.Client) *ParticipationHandler {
	return &ParticipationHandler{events: events, participation: participation, mail: mail}
}

func (h *ParticipationHandler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	router := r.Group("/api/v1", requireAuth)
	{
		router.POST("events/:id/join", h.Join)
		router.POST("events/:id/leave", h.Leave)
		router.GET("me/joined", h.Joined)
	}
}

func (h *ParticipationHandler) Join(c *gin.Context) {
	ident := middleware.IdentityFrom(c)

	event, ok := h.findEvent(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	alreadyJoined := h.participation.IsJoined(c, ident, event.ID)
	h.participation.Join(c, ident, event)

	// 確認信只在第一次加入時寄,best-effort
	if !alreadyJoined && ident.Email != "" {
		payload := mailer.JoinEmail{
			RecipientEmail: ident.Email,
			EventTitle:     event.Title,
			EventDate:      event.Date,
			EventLocation:  event.Location,
		}
		go h.mail.SendJoinEmail(context.Background(), payload)
	}

	c.JSON(http.StatusOK, gin.H{"joined": true})
}

func (h *ParticipationHandler) Leave(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	h.participation.Leave(c, ident, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"joined": false})
}

// Joined 回傳前先對最新的活動列表 reconcile 一次
func (h *ParticipationHandler) Joined(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	h.participation.Reconcile(c, ident, h.events.Events())
	c.JSON(http.StatusOK, gin.H{"joinedEvents": h.participation.JoinedEvents(c, ident)})
}

func (h *ParticipationHandler) findEvent(id string) (model.Event, bool) {
	for _, event := range h.events.Events() {
		if event.ID == id {
			return event, true
		}
	}
	return model.Event{}, false
}
