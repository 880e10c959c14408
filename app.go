package main

import (
	"fmt"
	"time"

	"github.com/giygas/medicines-api/config"
	"github.com/giygas/medicines-api/data"
	"github.com/giygas/medicines-api/handlers"
	"github.com/giygas/medicines-api/health"
	"github.com/giygas/medicines-api/medicinesparser"
	"github.com/giygas/medicines-api/scheduler"
	"github.com/giygas/medicines-api/search"
	"github.com/giygas/medicines-api/server"
	"github.com/giygas/medicines-api/validation"
)

// application wires the query service components together
type application struct {
	container *data.DataContainer
	scheduler *scheduler.Scheduler
	server    *server.Server
}

func newApplication(cfg *config.Config) (*application, error) {
	opts, err := medicinesparser.OptionsWithCurrency(cfg.CurrencyPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid currency pattern: %w", err)
	}

	mode, err := search.ParseMode(cfg.SearchMode)
	if err != nil {
		return nil, err
	}

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	parser := medicinesparser.NewMedicinesParser(cfg.MedicinesCSVPath, opts)

	handler := handlers.NewHTTPHandler(
		container,
		validator,
		health.NewHealthChecker(container, cfg.ReloadTimes),
		search.Searcher{Mode: mode},
		cfg.SearchDefaultLimit,
	)

	return &application{
		container: container,
		scheduler: scheduler.NewScheduler(container, parser, validator, cfg.ReloadTimes),
		server:    server.NewServer(cfg, handler),
	}, nil
}
