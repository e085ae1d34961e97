package handler

import (
	"net/http"
	"time"

	"evenza/internal/feed"
	"evenza/internal/model"
	"evenza/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	events service.EventService
}

func NewFeedHandler(events service.EventService) *FeedHandler {
	return &FeedHandler{events: events}
}

func (h *FeedHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/feed")
	{
		router.GET("home", h.Home)
		router.GET("spotlight", h.Spotlight)
	}
}

type HomeFeedResponse struct {
	Featured []model.Event `json:"featured"`
	Popular  []model.Event `json:"popular"`
	Upcoming []model.Event `json:"upcoming"`
	Search   []model.Event `json:"search,omitempty"`
}

// Home 首頁視圖:精選輪播、熱門、即將到來,帶 q 時附搜尋結果
func (h *FeedHandler) Home(c *gin.Context) {
	events := h.events.Events()
	now := time.Now()

	featured := feed.Featured(events, now, feed.DefaultFeaturedSelection)
	resp := HomeFeedResponse{
		Featured: featured,
		Popular:  feed.Popular(events, featured, now),
		Upcoming: feed.Upcoming(events, now),
	}
	if query := c.Query("q"); query != "" {
		resp.Search = feed.Search(events, query, now)
	}

	c.JSON(http.StatusOK, resp)
}

// Spotlight 單卡精選變體:只取 isFeatured 旗標的活動
func (h *FeedHandler) Spotlight(c *gin.Context) {
	events := h.events.Events()
	spotlight := feed.Featured(events, time.Now(), feed.FeaturedSelection{Limit: 1, FlaggedOnly: true})
	if len(spotlight) == 0 {
		c.JSON(http.StatusOK, gin.H{"spotlight": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"spotlight": spotlight[0]})
}
