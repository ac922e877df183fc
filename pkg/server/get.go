package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Peak Script API",
		"status":  "ok",
	})
}

// GET /api/state
func (s *Server) handleGetState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Studio.State())
}
