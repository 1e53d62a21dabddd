package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"team-status-backend/config"
	"team-status-backend/internal/mw"
	"team-status-backend/internal/notification"
	"team-status-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, publisher Publisher, pool *notification.WorkerPool, webpushOptions *webpush.Options, loc *time.Location) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(cfg, s, publisher, pool, webpushOptions, loc)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.PUT("/status", handler.PutStatus)

		api.POST("/board", handler.PostBoard)
		api.GET("/board/preview", caching, handler.GetBoardPreview)
		api.GET("/report/weekly", handler.GetWeeklyReport)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
