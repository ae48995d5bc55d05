package controller

import (
	"github.com/kilimostat/kilimostat/internal/service/records"
	"github.com/kilimostat/kilimostat/internal/service/reference"
)

type Controller struct {
	reference *reference.Service
	records   *records.Service
}

func NewController(reference *reference.Service, records *records.Service) *Controller {
	return &Controller{reference: reference, records: records}
}
