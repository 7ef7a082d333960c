// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/handler"
	"github.com/iliyamo/cinema-backoffice/internal/middleware"
	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// Deps is everything the routes need.
type Deps struct {
	Auth       *handler.AuthHandler
	Catalog    *handler.CatalogHandler
	Screenings *handler.ScreeningHandler
	Health     echo.HandlerFunc

	Tickets  *auth.Tickets
	Sessions middleware.SessionView

	// RateLimit wraps every route.  On protected routes it runs after the
	// session check so the bucket key can include the username.
	RateLimit echo.MiddlewareFunc
}

// Register mounts the public and protected routes on e.
func Register(e *echo.Echo, d Deps) {
	limit := d.RateLimit
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	session := middleware.RequireSession(d.Tickets, d.Sessions)

	e.GET("/healthz", d.Health)

	// Account operations.  Sign-out needs a ticket; the rest is open.
	a := e.Group("/v1/auth")
	a.POST("/sign-up", d.Auth.SignUp, limit)
	a.POST("/sign-in", d.Auth.SignIn, limit)
	a.GET("/me", d.Auth.Me, limit)
	a.POST("/sign-out", d.Auth.SignOut, session, limit)

	// Browsing is public.
	pub := e.Group("/v1")
	pub.GET("/movies", d.Catalog.ListMovies, limit)
	pub.GET("/movies/:title", d.Catalog.GetMovie, limit)
	pub.GET("/rooms", d.Catalog.ListRooms, limit)
	pub.GET("/rooms/:name", d.Catalog.GetRoom, limit)
	pub.GET("/screenings", d.Screenings.List, limit)

	// Mutations need the administrator's session.  The services check the
	// privilege again.
	admin := []echo.MiddlewareFunc{session, limit, middleware.RequireRole(model.RoleAdmin)}

	e.POST("/v1/movies", d.Catalog.CreateMovie, admin...)
	e.PUT("/v1/movies/:title", d.Catalog.UpdateMovie, admin...)
	e.DELETE("/v1/movies/:title", d.Catalog.DeleteMovie, admin...)

	e.POST("/v1/rooms", d.Catalog.CreateRoom, admin...)
	e.PUT("/v1/rooms/:name", d.Catalog.UpdateRoom, admin...)
	e.DELETE("/v1/rooms/:name", d.Catalog.DeleteRoom, admin...)

	e.POST("/v1/screenings", d.Screenings.Create, admin...)
	e.DELETE("/v1/screenings", d.Screenings.Delete, admin...)
}
