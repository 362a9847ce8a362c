package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Widedbounou/SK-B/pkg/response"
	"github.com/Widedbounou/SK-B/pkg/taxonomy"
)

type TaxonomyHandler struct {
	Tax *taxonomy.Taxonomy
}

func NewTaxonomyHandler(t *taxonomy.Taxonomy) *TaxonomyHandler {
	return &TaxonomyHandler{Tax: t}
}

// Data GET /api/data
func (h *TaxonomyHandler) Data(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Tax.Raw(), "taxonomy", nil)
}

// Categories GET /api/categories
func (h *TaxonomyHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Tax.CategoryNames(), "categories", nil)
}

// Subcategories GET /api/subcategories
func (h *TaxonomyHandler) Subcategories(c *gin.Context) {
	names := h.Tax.SubcategoryNames()
	if len(names) == 0 {
		response.Error[any](c, http.StatusNotFound, "no subcategory found", nil)
		return
	}
	response.Success(c, http.StatusOK, names, "subcategories", nil)
}

// Category GET /api/categories/:catId
func (h *TaxonomyHandler) Category(c *gin.Context) {
	subs, ok := h.Tax.Subcategories(c.Param("catId"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "category not found", nil)
		return
	}
	response.Success(c, http.StatusOK, subs, "subcategories", nil)
}

// Features GET /api/features
func (h *TaxonomyHandler) Features(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Tax.Features(), "features", nil)
}
