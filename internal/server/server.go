package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handler一式
type Handlers struct {
	Auth      *handler.AuthHandler
	Book      *handler.BookHandler
	Author    *handler.AuthorHandler
	Publisher *handler.PublisherHandler
	Category  *handler.CategoryHandler
}

func New(h Handlers, auth echo.MiddlewareFunc, admin echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	registerRoutes(e, h, auth, admin)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
