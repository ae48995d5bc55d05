package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kilimostat/kilimostat/internal/domain"
)

type recordQueryRequest struct {
	Counties  []int64 `json:"counties"`
	Elements  []int64 `json:"elements"`
	Items     []int64 `json:"items"`
	Years     []int   `json:"years"`
	SubDomain int64   `json:"subdomain"`
}

func (r recordQueryRequest) toQuery() domain.RecordQuery {
	return domain.RecordQuery{
		Counties:  r.Counties,
		Elements:  r.Elements,
		Items:     r.Items,
		Years:     r.Years,
		SubDomain: r.SubDomain,
	}
}

func (c *Controller) QueryRecords(ctx echo.Context) error {
	var req recordQueryRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	recs, err := c.records.Query(ctx.Request().Context(), req.toQuery())
	if err != nil {
		return err
	}
	if recs == nil {
		// Zero records is a valid "no data for this selection" answer,
		// not an error.
		recs = []domain.DataRecord{}
	}

	return ctx.JSON(http.StatusOK, recs)
}
