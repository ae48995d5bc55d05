package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kilimostat/kilimostat/internal/api/controller"
	"github.com/kilimostat/kilimostat/internal/pkg/store"
	"github.com/kilimostat/kilimostat/internal/service/records"
	"github.com/kilimostat/kilimostat/internal/service/reference"
)

type APIService struct {
	router *echo.Echo
}

func (svc *APIService) Serve(addr string) error {
	return svc.router.Start(addr)
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (svc *APIService) Handler() *echo.Echo {
	return svc.router
}

func NewAPIService(st store.Store, corsOrigins []string) (*APIService, error) {
	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(middleware.Logger())
	if len(corsOrigins) > 0 {
		svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{echo.GET, echo.POST},
			AllowHeaders: []string{"Content-Type"},
		}))
	}

	cntrl := controller.NewController(
		reference.NewReferenceService(st),
		records.NewRecordsService(st),
	)

	api := svc.router.Group("/api/v1")

	counties := api.Group("/counties")
	counties.GET("/list", cntrl.ListCounties)

	subsectors := api.Group("/subsectors")
	subsectors.GET("/list", cntrl.ListSubsectors)

	domains := api.Group("/domains")
	domains.GET("/list", cntrl.ListDomains)

	subdomains := api.Group("/subdomains")
	subdomains.GET("/list", cntrl.ListSubDomains)

	elements := api.Group("/elements")
	elements.GET("/list", cntrl.ListElements)

	items := api.Group("/items")
	items.GET("/list", cntrl.ListItems)

	itemCategories := api.Group("/itemcategories")
	itemCategories.GET("/list", cntrl.ListItemCategories)

	units := api.Group("/units")
	units.GET("/list", cntrl.ListUnits)

	recs := api.Group("/records")
	recs.POST("/query", cntrl.QueryRecords)
	recs.POST("/compare", cntrl.CompareCounties)
	recs.POST("/rankings", cntrl.Rankings)
	recs.POST("/distribution", cntrl.Distribution)
	recs.POST("/trend", cntrl.Trend)
	recs.POST("/export", cntrl.ExportCSV)

	return svc, nil
}
