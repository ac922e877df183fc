package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"peak/pkg/continuity"
	"peak/pkg/prompt"
	"peak/pkg/schema"
	"peak/pkg/studio"
	"peak/pkg/utils"
)

// GET /api/scripts
func (s *Server) handleGetScripts(c echo.Context) error {
	scripts := s.Studio.History()
	if scripts == nil {
		scripts = []schema.Script{}
	}
	return c.JSON(http.StatusOK, scripts)
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, utils.ErrJSON("not_found", studio.ErrNotFound.Error()))
}

// GET /api/scripts/:id returns the whole script, the same JSON a user copies.
func (s *Server) handleGetScript(c echo.Context) error {
	sc, ok := s.Studio.Script(c.Param("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSONPretty(http.StatusOK, sc, "  ")
}

// POST /api/scripts/:id/select
func (s *Server) handlePostSelect(c echo.Context) error {
	sc, err := s.Studio.Select(c.Param("id"))
	switch {
	case errors.Is(err, studio.ErrNotFound):
		return notFound(c)
	case errors.Is(err, studio.ErrBusy):
		return c.JSON(http.StatusConflict, utils.ErrJSON(string(studio.OutcomeBusy), err.Error()))
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, sc)
}

// DELETE /api/current closes the result view.
func (s *Server) handleDeleteCurrent(c echo.Context) error {
	s.Studio.Close()
	return c.JSON(http.StatusOK, s.Studio.State())
}

// GET /api/scripts/:id/export
func (s *Server) handleGetExport(c echo.Context) error {
	sc, ok := s.Studio.Script(c.Param("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSONPretty(http.StatusOK, schema.NewExport(sc, s.seed()), "  ")
}

// GET /api/scripts/:id/continuity
func (s *Server) handleGetContinuity(c echo.Context) error {
	sc, ok := s.Studio.Script(c.Param("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, continuity.Check(sc, prompt.SceneCount))
}

// GET /api/scripts/:id/scenes/:number/:field returns one field as plain
// text, ready to paste.
func (s *Server) handleGetSceneField(c echo.Context) error {
	sc, ok := s.Studio.Script(c.Param("id"))
	if !ok {
		return notFound(c)
	}

	n, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "scene number must be an integer")
	}
	scene, ok := sc.Scene(n)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "scene not found")
	}
	text, ok := scene.Field(c.Param("field"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown field, want one of "+strings.Join(schema.SceneFields, ", "))
	}
	return c.String(http.StatusOK, text)
}
