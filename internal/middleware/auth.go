package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studenthub/backend/internal/logging"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repo"
	"github.com/studenthub/backend/internal/tokens"
	"github.com/studenthub/backend/internal/transport"
)

const userContextKey = "auth_user"

type Auth struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewAuth(r *repo.GormRepo, secret []byte) *Auth {
	return &Auth{Repo: r, JWTSecret: secret}
}

// UserFromContext returns the identity attached by RequireAuth.
func UserFromContext(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userContextKey).(*models.User)
	return u, ok
}

// RequireAuth verifies the bearer token and attaches the resolved user to
// the request context. Every failure path returns immediately, so a
// request gets exactly one terminal response.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, transport.Error("not authorized, no token provided"))
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.Parse(tokenStr, m.JWTSecret)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, tokens.ErrExpiredToken) {
				reason = "expired"
			}
			l.Warn("auth_failed", "status", 401, "reason", reason)
			return c.JSON(http.StatusUnauthorized, transport.Error("not authorized, token failed"))
		}

		userID, err := claims.UserID()
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "bad subject")
			return c.JSON(http.StatusUnauthorized, transport.Error("not authorized, token failed"))
		}

		user, err := m.Repo.GetUserByID(ctx, userID)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "unknown user")
			return c.JSON(http.StatusUnauthorized, transport.Error("not authorized, token failed"))
		}

		user.PasswordHash = ""
		c.Set(userContextKey, user)

		return next(c)
	}
}

// RequireAdmin composes after RequireAuth.
func (m *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
		}
		if user.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, transport.Error("not authorized as admin"))
		}
		return next(c)
	}
}
