package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/pkg/constants"
	"github.com/kilimostat/kilimostat/internal/pkg/kilimo"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError

	var statusErr *kilimo.StatusError
	var netErr *url.Error
	switch {
	case errors.As(err, &statusErr):
		// Upstream failures are the data service's problem, not ours.
		code = http.StatusBadGateway
		msg = constants.ErrUpstreamUnavailable.Error() + ": " + statusErr.Error()
	case errors.As(err, &netErr):
		// Connection refused, DNS failure, timeout: the service never
		// answered at all.
		code = http.StatusBadGateway
		msg = constants.ErrUpstreamUnavailable.Error() + ": " + err.Error()
	default:
		for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
			if ce, ok := unwrapped.(*constants.CodedError); ok {
				code = ce.Code()
				break
			}
		}
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
