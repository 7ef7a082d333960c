package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/result"
	"github.com/iliyamo/cinema-backoffice/internal/service"
)

// CatalogHandler serves movies and rooms.
type CatalogHandler struct {
	Movies *service.MovieService
	Rooms  *service.RoomService
	Log    *slog.Logger
}

func NewCatalogHandler(m *service.MovieService, r *service.RoomService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{Movies: m, Rooms: r, Log: log}
}

type movieAttrs struct {
	Genre          string `json:"genre"`
	RuntimeMinutes int    `json:"runtime_minutes"`
}

type roomAttrs struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](r result.Result[[]T]) result.Result[[]T] {
	return result.Map(r, func(v []T) []T {
		if v == nil {
			return []T{}
		}
		return v
	})
}

// ----- movies -----

func (h *CatalogHandler) ListMovies(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, nonNil(h.Movies.List(c.Request().Context())))
}

func (h *CatalogHandler) GetMovie(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, h.Movies.Get(c.Request().Context(), c.Param("title")))
}

func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var m model.Movie
	if err := c.Bind(&m); err != nil {
		return badRequest(c, "invalid body")
	}
	return reply(c, h.Log, http.StatusCreated, h.Movies.Create(c.Request().Context(), m))
}

func (h *CatalogHandler) UpdateMovie(c echo.Context) error {
	var attrs movieAttrs
	if err := c.Bind(&attrs); err != nil {
		return badRequest(c, "invalid body")
	}
	m := model.Movie{Title: c.Param("title"), Genre: attrs.Genre, RuntimeMinutes: attrs.RuntimeMinutes}
	return reply(c, h.Log, http.StatusOK, h.Movies.Update(c.Request().Context(), m))
}

func (h *CatalogHandler) DeleteMovie(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, h.Movies.Delete(c.Request().Context(), c.Param("title")))
}

// ----- rooms -----

func (h *CatalogHandler) ListRooms(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, nonNil(h.Rooms.List(c.Request().Context())))
}

func (h *CatalogHandler) GetRoom(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, h.Rooms.Get(c.Request().Context(), c.Param("name")))
}

func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	var r model.Room
	if err := c.Bind(&r); err != nil {
		return badRequest(c, "invalid body")
	}
	return reply(c, h.Log, http.StatusCreated, h.Rooms.Create(c.Request().Context(), r))
}

func (h *CatalogHandler) UpdateRoom(c echo.Context) error {
	var attrs roomAttrs
	if err := c.Bind(&attrs); err != nil {
		return badRequest(c, "invalid body")
	}
	r := model.Room{Name: c.Param("name"), Rows: attrs.Rows, Cols: attrs.Cols}
	return reply(c, h.Log, http.StatusOK, h.Rooms.Update(c.Request().Context(), r))
}

func (h *CatalogHandler) DeleteRoom(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, h.Rooms.Delete(c.Request().Context(), c.Param("name")))
}
