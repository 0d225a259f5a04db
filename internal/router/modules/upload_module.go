package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/realestate-api/internal/container"

	handlers "github.com/oksasatya/realestate-api/internal/interface/http"
	"github.com/oksasatya/realestate-api/internal/interface/middleware"
	"github.com/oksasatya/realestate-api/pkg/helpers"
)

// UploadModule exposes the signed upload-credential endpoint.
// Session required; credentials are short-lived so the limiter is tight.

type UploadModule struct {
	Handler *handlers.UploadHandler
	JWT     *helpers.JWTManager
}

func NewUploadModule(h *handlers.UploadHandler, jwt *helpers.JWTManager) *UploadModule {
	return &UploadModule{Handler: h, JWT: jwt}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/uploads")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/signature", m.Handler.Signature)
	}
}
