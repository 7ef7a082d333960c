package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/service"
)

// ScreeningHandler serves the schedule.
type ScreeningHandler struct {
	Screenings *service.ScreeningService
	Log        *slog.Logger
}

func NewScreeningHandler(s *service.ScreeningService, log *slog.Logger) *ScreeningHandler {
	return &ScreeningHandler{Screenings: s, Log: log}
}

type screeningReq struct {
	Movie string `json:"movie"`
	Room  string `json:"room"`
	Start string `json:"start"` // "2006-01-02 15:04", UTC
}

func (r screeningReq) start() (time.Time, bool) {
	t, err := model.ParseStart(r.Start)
	return t, err == nil
}

const msgBadStart = "start must look like 2006-01-02 15:04"

// List returns every screening with its movie resolved.
func (h *ScreeningHandler) List(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, nonNil(h.Screenings.ListDetailed(c.Request().Context())))
}

func (h *ScreeningHandler) Create(c echo.Context) error {
	var req screeningReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	start, ok := req.start()
	if !ok {
		return badRequest(c, msgBadStart)
	}
	return reply(c, h.Log, http.StatusCreated, h.Screenings.Create(c.Request().Context(), req.Movie, req.Room, start))
}

// Delete takes the screening's movie, room and start from the query string.
func (h *ScreeningHandler) Delete(c echo.Context) error {
	req := screeningReq{Movie: c.QueryParam("movie"), Room: c.QueryParam("room"), Start: c.QueryParam("start")}
	start, ok := req.start()
	if !ok {
		return badRequest(c, msgBadStart)
	}
	return reply(c, h.Log, http.StatusOK, h.Screenings.Delete(c.Request().Context(), req.Movie, req.Room, start))
}
