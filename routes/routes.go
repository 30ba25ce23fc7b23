package routes

import (
	"net/http"
	"strings"
	"time"

	"waly/handlers"
	"waly/middleware"
	"waly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAssistantRoutes registers the Waly conversation endpoints. Every
// route accepts anonymous callers; a valid bearer token unlocks user data.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/waly")
	{
		api.Use(middleware.OptionalAuthMiddleware())
		api.POST("/sessions", hb.OpenSessionHandler)
		api.POST("/chat", hb.ChatHandler)
		api.GET("/context", hb.ContextHandler)
		api.GET("/sessions/:id/transcript", hb.TranscriptHandler)
		api.DELETE("/sessions/:id", hb.ResetSessionHandler)
		api.GET("/sessions/:id/events", hb.EventStreamHandler)
		api.POST("/voice", hb.VoiceChatHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, I'm Waly",
			"deps":    utils.GetHealthStatus(),
		})
	})
}

// CORSConfig allows credentialed requests from the listed dashboard origins.
func CORSConfig(origins []string) cors.Config {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return cors.Config{
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(CORSConfig(allowedOrigins)))

	RegisterAssistantRoutes(r, hb)
	RegisterHealthRoute(r)
}
