package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kilimostat/kilimostat/internal/pkg/constants"
)

type Binder struct {
	base echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i any, c echo.Context) error {
	if err := b.base.Bind(i, c); err != nil {
		return constants.NewCodedError(http.StatusBadRequest, "invalid request payload: "+err.Error())
	}
	return nil
}
