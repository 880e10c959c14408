// Package handlers provides HTTP request handlers for the medicines API endpoints:
// relevance search, full and paged listings, artifact export, data quality and health.
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/medicines-api/export"
	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/logging"
	"github.com/giygas/medicines-api/medicinesparser/entities"
	"github.com/giygas/medicines-api/metrics"
	"github.com/giygas/medicines-api/search"
)

// PageSize is the number of medicines per page
const PageSize = 10

// Compile-time check
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	searcher      search.Searcher
	defaultLimit  int
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker, searcher search.Searcher, defaultLimit int) *HTTPHandlerImpl {
	if defaultLimit <= 0 {
		defaultLimit = search.DefaultLimit
	}
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
		searcher:      searcher,
		defaultLimit:  defaultLimit,
	}
}

// SearchResponse is returned by the search endpoint
type SearchResponse struct {
	Query   string          `json:"query"`
	Limit   int             `json:"limit"`
	Count   int             `json:"count"`
	Results []search.Result `json:"results"`
}

// PagedResponse is returned by the paged listing endpoint
type PagedResponse struct {
	Data       []entities.Medicine `json:"data"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalItems int                 `json:"totalItems"`
	MaxPage    int                 `json:"maxPage"`
}

// QualityResponse is returned by the data quality endpoint
type QualityResponse struct {
	LastUpdate string                        `json:"last_update"`
	ParseStats entities.ParseStats           `json:"parse_stats"`
	Report     *interfaces.DataQualityReport `json:"report"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// ServeAllMedicines returns the whole snapshot. Clients revalidate with If-None-Match.
func (h *HTTPHandlerImpl) ServeAllMedicines(w http.ResponseWriter, r *http.Request) {
	medicines := h.dataStore.GetMedicines()
	etag := snapshotETag(h.dataStore.GetLastUpdated(), len(medicines))

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	RespondWithJSON(w, http.StatusOK, medicines)
}

// ServePagedMedicines returns one page of the snapshot
func (h *HTTPHandlerImpl) ServePagedMedicines(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	medicines := h.dataStore.GetMedicines()
	start := (page - 1) * PageSize
	end := start + PageSize

	if start >= len(medicines) {
		RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	if end > len(medicines) {
		end = len(medicines)
	}

	totalItems := len(medicines)
	RespondWithJSON(w, http.StatusOK, PagedResponse{
		Data:       medicines[start:end],
		Page:       page,
		PageSize:   PageSize,
		TotalItems: totalItems,
		MaxPage:    (totalItems + PageSize - 1) / PageSize,
	})
}

// SearchMedicines ranks medicines matching ?q= by name and generic.
// Queries shorter than two characters succeed with no results.
func (h *HTTPHandlerImpl) SearchMedicines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := h.validator.ValidateQuery(query); err != nil {
		logging.Warn("Rejected search query", "query", query, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := h.validator.ValidateLimit(r.URL.Query().Get("limit"), h.defaultLimit)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.searcher.Search(h.dataStore.GetMedicines(), query, limit)
	metrics.MedicinesSearchTotal.WithLabelValues(h.searcher.Mode.String()).Inc()

	RespondWithJSON(w, http.StatusOK, SearchResponse{
		Query:   search.NormalizeQuery(query),
		Limit:   limit,
		Count:   len(results),
		Results: results,
	})
}

// ExportMedicines renders the snapshot as a downloadable js, json or xlsx artifact
func (h *HTTPHandlerImpl) ExportMedicines(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, h.dataStore.GetMedicines(), h.searcher.Mode); err != nil {
		logging.Error("Failed to render export", "format", format, "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to render export")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ServeDataQuality returns the parse statistics and quality report of the current snapshot
func (h *HTTPHandlerImpl) ServeDataQuality(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, QualityResponse{
		LastUpdate: h.dataStore.GetLastUpdated().Format(time.RFC3339),
		ParseStats: h.dataStore.GetParseStats(),
		Report:     h.dataStore.GetQualityReport(),
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var uptime time.Duration
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Uptime: formatUptimeHuman(uptime),
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}
