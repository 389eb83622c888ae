// Package http wires the REST surface, static assets, and the
// WebSocket upgrade endpoint around the hub.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/adapters/ws"
	"github.com/collabhub-in/collabhub/internal/ai"
	"github.com/collabhub-in/collabhub/internal/config"
	"github.com/collabhub-in/collabhub/internal/fileshare"
	"github.com/collabhub-in/collabhub/internal/hub"
)

// ClientTokenMiddleware issues a long-lived token cookie so log lines
// can be tied to a browser across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	hubRouter *hub.Router,
	registry *hub.Registry,
	aiClient *ai.Client,
	files *fileshare.Store,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CollabHubSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	started := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
			"uptime": time.Since(started).Seconds(),
		})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	chat := &ChatHandler{AI: aiClient, Hub: hubRouter}
	share := &FileshareHandler{Store: files}
	code := &CodeshareHandler{Hub: hubRouter}

	api := r.Group("/api")
	api.POST("/chat", chat.Post)

	fs := api.Group("/fileshare")
	fs.POST("/upload", share.Upload)
	fs.GET("/download/:id", share.Download)
	// Registered last in the group so it cannot shadow /upload or
	// /download.
	fs.GET("/:code", share.List)

	cs := api.Group("/codeshare")
	cs.GET("/:id", code.Get)
	cs.POST("/:id", code.Post)

	wsCtl := &ws.Controller{Router: hubRouter, Registry: registry, ReadLimit: cfg.ReadLimit}
	r.GET("/api/ws", func(c *gin.Context) {
		wsCtl.Handle(ctx, c)
	})

	return r
}
