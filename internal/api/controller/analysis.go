package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/domain/dto"
	"github.com/kilimostat/kilimostat/internal/pkg/aggregate"
)

type compareRequest struct {
	Counties  []int64 `json:"counties" validate:"required,min=1"`
	Elements  []int64 `json:"elements"`
	Items     []int64 `json:"items"`
	SubDomain int64   `json:"subdomain"`
	YearFrom  int     `json:"year_from" validate:"required"`
	YearTo    int     `json:"year_to" validate:"required,gtefield=YearFrom"`
}

// CompareCounties sums record values per county per year over an inclusive
// year range. The response axis is dense: chart consumers expect a value
// slot for every year in the range, zero where no data exists.
func (c *Controller) CompareCounties(ctx echo.Context) error {
	var req compareRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	years := aggregate.DenseYears(req.YearFrom, req.YearTo)
	recs, err := c.records.Query(ctx.Request().Context(), domain.RecordQuery{
		Counties:  req.Counties,
		Elements:  req.Elements,
		Items:     req.Items,
		Years:     years,
		SubDomain: req.SubDomain,
	})
	if err != nil {
		return err
	}

	byCounty := aggregate.SumByKeyByYear(recs, aggregate.ByCounty)

	resp := dto.Comparison{Years: years, Counties: make([]dto.CountySeries, 0, len(byCounty))}
	for county, series := range byCounty {
		resp.Counties = append(resp.Counties, dto.CountySeries{
			County: county,
			Values: aggregate.ValuesOn(years, series),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

type rankingsRequest struct {
	Counties  []int64 `json:"counties"`
	Elements  []int64 `json:"elements"`
	Items     []int64 `json:"items"`
	SubDomain int64   `json:"subdomain"`
	Year      int     `json:"year" validate:"required"`
	TopN      int     `json:"top_n"`
	GroupBy   string  `json:"group_by" validate:"omitempty,oneof=county item element"`
}

func groupKey(name string) aggregate.KeyFunc {
	switch name {
	case "item":
		return aggregate.ByItem
	case "element":
		return aggregate.ByElement
	default:
		return aggregate.ByCounty
	}
}

// Rankings returns the top-N groups for one year, ranked by summed value
// with ties kept in first-encountered order.
func (c *Controller) Rankings(ctx echo.Context) error {
	var req rankingsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}
	if req.TopN <= 0 {
		req.TopN = 10
	}

	recs, err := c.records.Query(ctx.Request().Context(), domain.RecordQuery{
		Counties:  req.Counties,
		Elements:  req.Elements,
		Items:     req.Items,
		Years:     []domain.Year{req.Year},
		SubDomain: req.SubDomain,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, aggregate.TopN(recs, groupKey(req.GroupBy), req.TopN))
}

// Distribution computes the percentage share of each top group for one
// year. An all-zero selection yields all-zero percentages, the signal for a
// no-data state.
func (c *Controller) Distribution(ctx echo.Context) error {
	var req rankingsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	recs, err := c.records.Query(ctx.Request().Context(), domain.RecordQuery{
		Counties:  req.Counties,
		Elements:  req.Elements,
		Items:     req.Items,
		Years:     []domain.Year{req.Year},
		SubDomain: req.SubDomain,
	})
	if err != nil {
		return err
	}

	rows := aggregate.TopN(recs, groupKey(req.GroupBy), req.TopN)
	slices := make([]dto.Slice, len(rows))
	for i, row := range rows {
		slices[i] = dto.Slice{Label: row.Key, Value: row.Value}
	}

	return ctx.JSON(http.StatusOK, aggregate.Distribution(slices))
}

type trendRequest struct {
	Counties  []int64 `json:"counties"`
	Elements  []int64 `json:"elements"`
	Items     []int64 `json:"items"`
	SubDomain int64   `json:"subdomain"`
	LastN     int     `json:"last_n"`
}

// Trend returns totals for the trailing N years observed in the selection.
func (c *Controller) Trend(ctx echo.Context) error {
	var req trendRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.LastN <= 0 {
		req.LastN = 10
	}

	recs, err := c.records.Query(ctx.Request().Context(), domain.RecordQuery{
		Counties:  req.Counties,
		Elements:  req.Elements,
		Items:     req.Items,
		SubDomain: req.SubDomain,
	})
	if err != nil {
		return err
	}

	window := aggregate.LastYears(aggregate.YearAxis(recs), aggregate.TotalsByYear(recs), req.LastN)
	return ctx.JSON(http.StatusOK, window)
}
