package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/internal/application"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
	"github.com/Widedbounou/SK-B/pkg/response"
	"github.com/Widedbounou/SK-B/pkg/validation"
)

type OfferHandler struct {
	Svc       *application.OfferService
	Logger    *logrus.Logger
	MaxUpload int64
}

func NewOfferHandler(svc *application.OfferService, logger *logrus.Logger, maxUpload int64) *OfferHandler {
	return &OfferHandler{Svc: svc, Logger: logger, MaxUpload: maxUpload}
}

type publishRequest struct {
	Title         string   `form:"title" binding:"required,max=50"`
	Description   string   `form:"description" binding:"required,max=1000"`
	Price         *float64 `form:"price" binding:"required,gte=0,lte=100000"`
	Currency      string   `form:"currency"`
	Location      string   `form:"location" binding:"required"`
	Categories    []string `form:"categories"`
	Subcategories []string `form:"subcategories"`
	AdTypes       []string `form:"adTypes"`
	// Details is a JSON object of feature name to selected labels.
	Details string `form:"details"`
}

type updateOfferRequest struct {
	Title         *string             `json:"title" binding:"omitempty,max=50"`
	Description   *string             `json:"description" binding:"omitempty,max=1000"`
	Price         *float64            `json:"price" binding:"omitempty,gte=0,lte=100000"`
	Currency      *string             `json:"currency"`
	Location      *string             `json:"location"`
	Categories    []string            `json:"categories"`
	Subcategories []string            `json:"subcategories"`
	AdTypes       []string            `json:"adTypes"`
	Details       map[string][]string `json:"details"`
}

// Publish POST /api/offer/publish (multipart, "picture" repeated)
func (h *OfferHandler) Publish(c *gin.Context) {
	if !limitUpload(c, h.MaxUpload) {
		return
	}
	var req publishRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing title, description, price or location", validation.ToDetails(err))
		return
	}
	var details map[string][]string
	if req.Details != "" {
		if err := json.Unmarshal([]byte(req.Details), &details); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid product details", nil)
			return
		}
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "no image uploaded", nil)
		return
	}
	view, err := h.Svc.Publish(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PublishOfferInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         *req.Price,
		Currency:      req.Currency,
		Location:      req.Location,
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
		AdTypes:       req.AdTypes,
		Attributes:    details,
	}, uploadsFromFiles(form.File["picture"]))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	middleware.IncrementOffersPublished()
	response.Success(c, http.StatusCreated, view, "offer published", nil)
}

// List GET /api/offers
func (h *OfferHandler) List(c *gin.Context) {
	var params application.OfferListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.List(c.Request.Context(), params)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "offers", nil)
}

// Search GET /api/offers/search?q=&size=
func (h *OfferHandler) Search(c *gin.Context) {
	// unparsable sizes fall back to the service default
	size, _ := strconv.Atoi(c.Query("size"))
	offers, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, offers, "search results", map[string]any{"count": len(offers)})
}

// Get GET /api/offer/:id
func (h *OfferHandler) Get(c *gin.Context) {
	view, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "offer", nil)
}

// ListByOwner GET /api/offers/user/:userId
func (h *OfferHandler) ListByOwner(c *gin.Context) {
	offers, err := h.Svc.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, offers, "offers", nil)
}

// Update PUT /api/offer/update/:id
func (h *OfferHandler) Update(c *gin.Context) {
	var req updateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), application.UpdateOfferInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		Location:      req.Location,
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
		AdTypes:       req.AdTypes,
		Attributes:    req.Details,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "offer updated", nil)
}

// Delete DELETE /api/offer/delete/:id
func (h *OfferHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Remove(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": id}, "offer deleted", nil)
}
