package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/realestate-api/internal/container"

	handlers "github.com/oksasatya/realestate-api/internal/interface/http"
	"github.com/oksasatya/realestate-api/internal/interface/middleware"
	"github.com/oksasatya/realestate-api/pkg/helpers"
)

// PropertyModule wires listing routes.
// Public reads carry OptionalAuth so an authenticated viewer also sees
// their own non-active listings; writes require a session.

type PropertyModule struct {
	Handler *handlers.PropertyHandler
	JWT     *helpers.JWTManager
}

func NewPropertyModule(h *handlers.PropertyHandler, jwt *helpers.JWTManager) *PropertyModule {
	return &PropertyModule{Handler: h, JWT: jwt}
}

func (m *PropertyModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	inquiryLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	optional := middleware.OptionalAuth(container.GetRedis(), m.JWT)

	pub := rg.Group("/properties")
	{
		pub.GET("", readLimiter, optional, m.Handler.List)
		pub.GET("/search", searchLimiter, m.Handler.Search)
		pub.GET("/:id", readLimiter, optional, m.Handler.Get)
		pub.POST("/:id/inquiries", inquiryLimiter, m.Handler.Inquire)
	}

	auth := rg.Group("/properties")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
