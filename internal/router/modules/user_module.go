package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Widedbounou/SK-B/internal/container"
	handlers "github.com/Widedbounou/SK-B/internal/interface/http"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
)

// UserModule wires account routes.
// Public: POST /api/user/signup, POST /api/user/login, GET /api/user/:id
// Protected: POST /api/user/logout, PUT /api/user/update/:id, DELETE /api/user/delete/:id
// Admin: POST /api/user/admin/create
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signupLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	userLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil)

	u := rg.Group("/user")
	u.POST("/signup", signupLimiter, m.Handler.Signup)
	u.POST("/login", loginLimiter, m.Handler.Login)
	u.GET("/:id", m.Handler.Get)

	u.POST("/logout", m.Auth, m.Handler.Logout)
	u.PUT("/update/:id", m.Auth, userLimiter, m.Handler.Update)
	u.DELETE("/delete/:id", m.Auth, userLimiter, m.Handler.Delete)
	u.POST("/admin/create", m.Auth, middleware.RequireAdmin(), m.Handler.CreateAdmin)
}
