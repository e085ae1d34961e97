package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"evenza/internal/mailer"
	"evenza/internal/middleware"
	"evenza/internal/model"
	"evenza/internal/service"
	"evenza/pkg/app_errors"
	"evenza/pkg/logger"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	events service.EventService
	mail   *mailer.Client
}

func NewEventHandler(events service.EventService, mail *mailer.Client) *EventHandler {
	return &EventHandler{events: events, mail: mail}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:id", h.GetByID)
		router.GET("events/:id/calendar.ics", h.CalendarICS)
		router.POST("events", requireAuth, h.Create)
		router.PUT("events/:id", requireAuth, h.Update)
		router.DELETE("events/:id", requireAuth, h.Delete)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	Category      string    `json:"category"`
	StartDateTime time.Time `json:"startDateTime" binding:"required"`
	EndDateTime   time.Time `json:"endDateTime" binding:"required"`
	Mode          string    `json:"mode" binding:"required,oneof=Onsite Online"`
	ImageBase64   string    `json:"imageBase64" binding:"required"`
}

// UpdateEventRequest 更新活動請求;省略的欄位不變更
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	StartDateTime *time.Time `json:"startDateTime"`
	EndDateTime   *time.Time `json:"endDateTime"`
	Mode          *string    `json:"mode"`
	ImageChanged  bool       `json:"imageChanged"`
	ImageBase64   string     `json:"imageBase64"`
}

func (h *EventHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"events":  h.events.Events(),
		"loading": h.events.Loading(),
	})
}

func (h *EventHandler) GetByID(c *gin.Context) {
	event, ok := h.find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	input := model.CreateEventInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      model.Category(req.Category),
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		Mode:          model.LocationMode(req.Mode),
		ImageBase64:   req.ImageBase64,
	}
	created, err := h.events.Create(c, middleware.IdentityFrom(c), input)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	input := model.UpdateEventInput{
		ID:            c.Param("id"),
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		ImageChanged:  req.ImageChanged,
		ImageBase64:   req.ImageBase64,
	}
	if req.Category != nil {
		category := model.Category(*req.Category)
		input.Category = &category
	}
	if req.Mode != nil {
		mode := model.LocationMode(*req.Mode)
		input.Mode = &mode
	}

	updated, err := h.events.Update(c, middleware.IdentityFrom(c), input)
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	snapshot, err := h.events.Delete(c, c.Param("id"), ident.UID)
	if err != nil {
		h.handleError(c, err, "Delete")
		return
	}

	// 取消通知走 relay,best-effort,不擋回應
	if len(snapshot.ParticipantEmails) > 0 {
		payload := mailer.CancellationEmail{
			Recipients:     snapshot.ParticipantEmails,
			EventTitle:     snapshot.Title,
			EventDate:      snapshot.Date,
			EventLocation:  snapshot.Location,
			OrganizerEmail: ident.Email,
		}
		go h.mail.SendCancellationEmail(context.Background(), payload)
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *EventHandler) CalendarICS(c *gin.Context) {
	event, ok := h.find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	ve := cal.AddEvent(event.ID + "@evenza")
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetSummary(event.Title)
	ve.SetDescription(event.Description)
	ve.SetLocation(event.Location)
	// 沒有可解析時間的活動輸出成不含 DTSTART 的條目,交給收端處理
	if event.StartDateTime != nil {
		ve.SetStartAt(*event.StartDateTime)
	}
	if event.EndDateTime != nil {
		ve.SetEndAt(*event.EndDateTime)
	}

	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func (h *EventHandler) find(id string) (model.Event, bool) {
	for _, event := range h.events.Events() {
		if event.ID == id {
			return event, true
		}
	}
	return model.Event{}, false
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, app_errors.ErrAuthenticationRequired):
		log.Warn("Authentication required")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in before publishing an event."})
	case errors.Is(err, app_errors.ErrEmailNotVerified):
		log.Warn("Email not verified")
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email before publishing an event."})
	case errors.Is(err, app_errors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the event creator can do that."})
	case errors.Is(err, app_errors.ErrPermissionDenied):
		log.Warn("Backend permission denied")
		c.JSON(http.StatusForbidden, gin.H{"error": "Publishing requires a verified account. Please verify your email and try again."})
	case errors.Is(err, app_errors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, app_errors.ErrInvalidDateRange):
		log.Warn("Invalid date range")
		c.JSON(http.StatusBadRequest, gin.H{"error": "End time must not be earlier than start time."})
	case errors.Is(err, app_errors.ErrImageUploadFailed):
		log.Warn("Image upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload image. Please try again."})
	case errors.Is(err, app_errors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
