package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studenthub/backend/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	StudentHandler *StudentHTTP
	Auth           *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	students := e.Group("/students")
	students.Use(d.Auth.RequireAuth)
	students.GET("", d.StudentHandler.ListStudents)
	students.POST("", d.StudentHandler.CreateStudent)
	students.GET("/search", d.StudentHandler.SearchStudents)
	students.GET("/:id", d.StudentHandler.GetStudent)
	students.PUT("/:id", d.StudentHandler.UpdateStudent)
	students.DELETE("/:id", d.StudentHandler.DeleteStudent)

	admin := e.Group("/admin")
	admin.Use(d.Auth.RequireAuth, d.Auth.RequireAdmin)
	admin.GET("/users", d.AuthHandler.ListUsers)
}
