package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"peak/pkg/schema"
	"peak/pkg/utils"
)

type configResp struct {
	Config    schema.Config `json:"config"`
	KeyStatus string        `json:"key_status"`
}

func (s *Server) currentConfig() configResp {
	return configResp{
		Config:    s.Studio.Config().Masked(),
		KeyStatus: string(s.Studio.State().KeyStatus),
	}
}

// GET /api/config
func (s *Server) handleGetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, s.currentConfig())
}

// PUT /api/config edits the configuration in memory. Sending back the
// masked key keeps the stored one.
func (s *Server) handlePutConfig(c echo.Context) error {
	var cfg schema.Config
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	current := s.Studio.Config()
	if cfg.APIKey != "" && cfg.APIKey == current.Masked().APIKey {
		cfg.APIKey = current.APIKey
	}

	if err := s.Studio.UpdateConfig(cfg); err != nil {
		if errors.Is(err, schema.ErrInvalidConfig) {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid_config", err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, s.currentConfig())
}

// POST /api/config/save
func (s *Server) handlePostSaveConfig(c echo.Context) error {
	if err := s.Studio.SaveConfig(c.Request().Context()); err != nil {
		log.Error("failed saving configuration", "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("save_failed", "failed saving configuration"))
	}
	return c.JSON(http.StatusOK, s.currentConfig())
}
