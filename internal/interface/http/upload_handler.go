package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realestate-api/internal/application"
	"github.com/oksasatya/realestate-api/pkg/response"
	"github.com/oksasatya/realestate-api/pkg/validation"
)

type UploadHandler struct {
	Svc    *application.UploadService
	Logger *logrus.Logger
}

func NewUploadHandler(svc *application.UploadService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Svc: svc, Logger: logger}
}

type signatureRequest struct {
	Folder string `json:"folder" binding:"omitempty,max=128"`
}

// Signature POST /api/uploads/signature (auth required)
func (h *UploadHandler) Signature(c *gin.Context) {
	var req signatureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	cred, err := h.Svc.Issue(principalFrom(c), req.Folder)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cred, "upload credential issued", nil)
}
