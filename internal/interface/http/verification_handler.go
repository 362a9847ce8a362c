package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/internal/application"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
	"github.com/Widedbounou/SK-B/pkg/response"
	"github.com/Widedbounou/SK-B/pkg/validation"
)

type VerificationHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewVerificationHandler(svc *application.UserService, logger *logrus.Logger) *VerificationHandler {
	return &VerificationHandler{Svc: svc, Logger: logger}
}

// Confirm POST /api/user/verify/confirm {token}
func (h *VerificationHandler) Confirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "email verified", nil)
}

// Resend POST /api/user/verify/resend (auth required)
// Already verified users get an idempotent OK.
func (h *VerificationHandler) Resend(c *gin.Context) {
	already, err := h.Svc.ResendVerification(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if already {
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true}, "verification email queued", nil)
}
