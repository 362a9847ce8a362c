package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Widedbounou/SK-B/internal/container"
	handlers "github.com/Widedbounou/SK-B/internal/interface/http"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
)

// OfferModule wires listing routes.
// Public: GET /api/offers, /api/offers/search, /api/offer/:id, /api/offers/user/:userId
// Protected: POST /api/offer/publish, PUT /api/offer/update/:id, DELETE /api/offer/delete/:id
type OfferModule struct {
	Handler *handlers.OfferHandler
	Auth    gin.HandlerFunc
}

func NewOfferModule(h *handlers.OfferHandler, auth gin.HandlerFunc) *OfferModule {
	return &OfferModule{Handler: h, Auth: auth}
}

func (m *OfferModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	publishLimiter := middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByUserID(), nil)

	rg.GET("/offers", m.Handler.List)
	rg.GET("/offers/search", searchLimiter, m.Handler.Search)
	rg.GET("/offers/user/:userId", m.Handler.ListByOwner)
	rg.GET("/offer/:id", m.Handler.Get)

	rg.POST("/offer/publish", m.Auth, publishLimiter, m.Handler.Publish)
	rg.PUT("/offer/update/:id", m.Auth, m.Handler.Update)
	rg.DELETE("/offer/delete/:id", m.Auth, m.Handler.Delete)
}
