package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Widedbounou/SK-B/internal/container"
	handlers "github.com/Widedbounou/SK-B/internal/interface/http"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
)

type VerificationModule struct {
	Handler *handlers.VerificationHandler
	Auth    gin.HandlerFunc
}

func NewVerificationModule(h *handlers.VerificationHandler, auth gin.HandlerFunc) *VerificationModule {
	return &VerificationModule{Handler: h, Auth: auth}
}

func (m *VerificationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil)

	rg.POST("/user/verify/confirm", confirmLimiter, m.Handler.Confirm)
	rg.POST("/user/verify/resend", m.Auth, resendLimiter, m.Handler.Resend)
}
