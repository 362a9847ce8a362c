package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/Widedbounou/SK-B/internal/interface/http"
)

type TaxonomyModule struct {
	Handler *handlers.TaxonomyHandler
}

func NewTaxonomyModule(h *handlers.TaxonomyHandler) *TaxonomyModule {
	return &TaxonomyModule{Handler: h}
}

func (m *TaxonomyModule) Register(rg *gin.RouterGroup) {
	rg.GET("/data", m.Handler.Data)
	rg.GET("/categories", m.Handler.Categories)
	rg.GET("/subcategories", m.Handler.Subcategories)
	rg.GET("/categories/:catId", m.Handler.Category)
	rg.GET("/features", m.Handler.Features)
}
