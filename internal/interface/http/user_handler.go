package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/internal/application"
	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/internal/interface/middleware"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/response"
	"github.com/Widedbounou/SK-B/pkg/validation"
)

type UserHandler struct {
	Svc       *application.UserService
	Logger    *logrus.Logger
	Cookies   *helpers.Manager
	MaxUpload int64
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, maxUpload int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure), MaxUpload: maxUpload}
}

type signupRequest struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required,pwd"`
	Username   string `form:"username" binding:"required"`
	Phone      string `form:"phone" binding:"omitempty,tzphone"`
	Newsletter bool   `form:"newsletter"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type adminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Username string `json:"username" binding:"required"`
	Phone    string `json:"phone" binding:"required,tzphone"`
}

// Signup POST /api/user/signup (multipart, optional "avatar" file)
func (h *UserHandler) Signup(c *gin.Context) {
	if !limitUpload(c, h.MaxUpload) {
		return
	}
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	var avatar *repo.Upload
	if fh, err := c.FormFile("avatar"); err == nil {
		up := uploadFromFile(fh)
		avatar = &up
	}
	view, sess, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		Username:   req.Username,
		Phone:      req.Phone,
		Newsletter: req.Newsletter,
	}, avatar)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	middleware.IncrementSignups()
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusCreated, view, "account created", map[string]any{"session_expires_at": sess.ExpiresAt})
}

// Login POST /api/user/login. The session is only sent as a cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, res, res.Message, map[string]any{"session_expires_at": sess.ExpiresAt})
}

// Logout POST /api/user/logout. Every session of the user is revoked.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey)); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Get GET /api/user/:id
func (h *UserHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "user", nil)
}

// Update PUT /api/user/update/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req application.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if res.Session != nil {
		h.Cookies.SetSession(c, res.Session.Token, res.Session.ExpiresAt)
	}
	response.Success(c, http.StatusOK, res.User, "user updated", nil)
}

// Delete DELETE /api/user/delete/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Remove(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if id == c.GetString(middleware.CtxUserIDKey) {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": id}, "user deleted", nil)
}

// CreateAdmin POST /api/user/admin/create (admin only)
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.CreateAdmin(c.Request.Context(), application.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Phone:    req.Phone,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "admin created", nil)
}
