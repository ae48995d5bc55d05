package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Optional id filters arrive as query params; 0 or absent means unfiltered.
func queryID(ctx echo.Context, name string) int64 {
	id, err := strconv.ParseInt(ctx.QueryParams().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *Controller) ListCounties(ctx echo.Context) error {
	counties, err := c.reference.Counties(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, counties)
}

func (c *Controller) ListSubsectors(ctx echo.Context) error {
	subsectors, err := c.reference.Subsectors(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subsectors)
}

func (c *Controller) ListDomains(ctx echo.Context) error {
	domains, err := c.reference.Domains(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, domains)
}

func (c *Controller) ListSubDomains(ctx echo.Context) error {
	if domainID := queryID(ctx, "domain_id"); domainID > 0 {
		subDomains, err := c.reference.SubDomainsByDomain(ctx.Request().Context(), domainID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, subDomains)
	}

	subDomains, err := c.reference.SubDomains(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subDomains)
}

func (c *Controller) ListElements(ctx echo.Context) error {
	if subDomainID := queryID(ctx, "subdomain_id"); subDomainID > 0 {
		elements, err := c.reference.ElementsBySubDomain(ctx.Request().Context(), subDomainID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, elements)
	}

	elements, err := c.reference.Elements(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, elements)
}

func (c *Controller) ListItems(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if subDomainID := queryID(ctx, "subdomain_id"); subDomainID > 0 {
		items, err := c.reference.ItemsBySubDomain(reqCtx, subDomainID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, items)
	}
	if categoryID := queryID(ctx, "category_id"); categoryID > 0 {
		items, err := c.reference.ItemsByCategory(reqCtx, categoryID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, items)
	}

	items, err := c.reference.Items(reqCtx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, items)
}

func (c *Controller) ListItemCategories(ctx echo.Context) error {
	if subDomainID := queryID(ctx, "subdomain_id"); subDomainID > 0 {
		categories, err := c.reference.ItemCategoriesBySubDomain(ctx.Request().Context(), subDomainID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, categories)
	}

	categories, err := c.reference.ItemCategories(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (c *Controller) ListUnits(ctx echo.Context) error {
	units, err := c.reference.Units(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, units)
}
