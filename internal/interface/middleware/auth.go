package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/pkg/apperror"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// Authenticator resolves a session to the user that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, userID, sessionToken string) (*entity.User, error)
}

// Auth validates the session token (cookie or bearer header) and loads the
// user. It sets userID and user in the Gin context on success.
func Auth(jwt *helpers.JWTManager, authn Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.SessionFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		u, err := authn.Authenticate(c.Request.Context(), claims.UserID, claims.SessionID)
		if err != nil {
			if !apperror.Is(err, apperror.KindAuth) {
				response.FromError(c, logger, err)
				c.Abort()
				return
			}
			response.Abort(c, http.StatusUnauthorized, apperror.PublicMessage(err), nil)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			response.Abort(c, http.StatusForbidden, "admin only", nil)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
