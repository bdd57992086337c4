package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studenthub/backend/internal/logging"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/service"
	"github.com/studenthub/backend/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error("invalid body"))
	}
	if err := transport.Validate(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error(errMessage(err)))
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, l, "register_error", err)
	}

	token, err := h.Svc.IssueToken(user)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot issue token", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error("invalid body"))
	}
	if err := transport.Validate(&req); err != nil {
		// A malformed login attempt gets the same generic answer as a
		// wrong password, so the response leaks nothing about accounts.
		l.Warn("login_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, transport.Error("invalid email or password"))
	}

	user, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401)
			return c.JSON(http.StatusUnauthorized, transport.Error("invalid email or password"))
		}
		l.Error("login_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	token, err := h.Svc.IssueToken(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, transport.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}
	return c.JSON(http.StatusOK, transport.UserResponse{Success: true, User: user})
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.list_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, transport.UsersResponse{
		Success: true,
		Count:   len(users),
		Users:   users,
	})
}
