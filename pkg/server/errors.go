package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"peak/pkg/studio"
	"peak/pkg/utils"
)

// statusOf maps a generation error onto an HTTP status.
func statusOf(err error) int {
	switch studio.OutcomeOf(err) {
	case studio.OutcomeSuccess:
		return http.StatusOK
	case studio.OutcomeMissingSubject, studio.OutcomeInvalidForm:
		return http.StatusBadRequest
	case studio.OutcomeMissingCredential:
		return http.StatusPreconditionRequired
	case studio.OutcomeInvalidCredential:
		return http.StatusUnauthorized
	case studio.OutcomeBusy:
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func errorBody(err error) map[string]any {
	return utils.ErrJSON(string(studio.OutcomeOf(err)), studio.Message(err))
}

func generationError(c echo.Context, err error) error {
	return c.JSON(statusOf(err), errorBody(err))
}
