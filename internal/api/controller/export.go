package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kilimostat/kilimostat/internal/pkg/constants"
	"github.com/kilimostat/kilimostat/internal/pkg/csvexport"
)

type exportRequest struct {
	recordQueryRequest
	IncludeUnits      bool   `json:"include_units"`
	IncludeFlags      bool   `json:"include_flags"`
	IncludeNotes      bool   `json:"include_notes"`
	ThousandSeparator string `json:"thousand_separator" validate:"omitempty,oneof=none comma period"`
}

// ExportCSV streams the filtered record set as a CSV attachment.
func (c *Controller) ExportCSV(ctx echo.Context) error {
	var req exportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	recs, err := c.records.Query(ctx.Request().Context(), req.toQuery())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return constants.NewCodedError(http.StatusNotFound, "no data available for download")
	}

	doc := csvexport.Records(recs, csvexport.Options{
		IncludeUnits:      req.IncludeUnits,
		IncludeFlags:      req.IncludeFlags,
		IncludeNotes:      req.IncludeNotes,
		ThousandSeparator: csvexport.ThousandSeparator(req.ThousandSeparator),
	})

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="kilimostat_export.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(doc))
}
