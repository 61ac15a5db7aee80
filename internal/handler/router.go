package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/middleware"
)

// NewRouter builds the engine with the full middleware chain and every
// route registered. CORS runs before the rate limiter so preflight
// requests are answered at the CORS layer and never spend rate budget.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recover(),
		middleware.Logging(),
	)
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	r.Use(middleware.RateLimit())

	h.Register(r)
	return r
}
