package server

import (
	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, admin echo.MiddlewareFunc) {
	h.Auth.RegisterRoutes(e, auth, admin)
	h.Book.RegisterRoutes(e, auth, admin)
	h.Author.RegisterRoutes(e, auth, admin)
	h.Publisher.RegisterRoutes(e, auth, admin)
	h.Category.RegisterRoutes(e, auth, admin)
}
