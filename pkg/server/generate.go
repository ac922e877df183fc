package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"peak/pkg/schema"
	"peak/pkg/utils"
)

// POST /api/generate
func (s *Server) handlePostGenerate(c echo.Context) error {
	var form schema.Form
	if err := c.Bind(&form); err != nil {
		log.Warn("invalid JSON in /api/generate", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	res, err := s.Studio.Generate(c.Request().Context(), form)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// POST /api/generate/stream reports the submitting state first, then the
// result or the error, as server-sent events.
func (s *Server) handlePostGenerateStream(c echo.Context) error {
	var form schema.Form
	if err := c.Bind(&form); err != nil {
		log.Warn("invalid JSON in /api/generate/stream", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer w.Close()

	if err := w.Event("status", map[string]string{"status": "submitting"}); err != nil {
		return nil
	}

	res, err := s.Studio.Generate(c.Request().Context(), form)
	if err != nil {
		body := errorBody(err)
		body["status"] = statusOf(err)
		return w.Event("error", body)
	}
	return w.Event("done", res)
}
