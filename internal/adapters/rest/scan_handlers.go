package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ScanHandlers struct {
	startScanUC usecases_port.StartScanUseCase
	listRunsUC  usecases_port.GetScanRunsUseCase
	getRunUC    usecases_port.GetScanRunUseCase
}

func NewScanHandlers(startScanUC usecases_port.StartScanUseCase,
	listRunsUC usecases_port.GetScanRunsUseCase,
	getRunUC usecases_port.GetScanRunUseCase) *ScanHandlers {
	return &ScanHandlers{
		startScanUC: startScanUC,
		listRunsUC:  listRunsUC,
		getRunUC:    getRunUC,
	}
}

// HandleStartScan - POST /api/v1/scans
func (h *ScanHandlers) HandleStartScan(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleStartScan"})

	var reqDTO StartScanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil && !errors.Is(err, io.EOF) {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	runType := domain.RunTypeOnDemand
	switch domain.RunType(reqDTO.RunType) {
	case "", domain.RunTypeOnDemand:
	case domain.RunTypeWeekly:
		runType = domain.RunTypeWeekly
	default:
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Unknown runType '%s'", reqDTO.RunType))
		return
	}

	if err := h.startScanUC.Execute(r.Context(), runType); err != nil {
		switch {
		case errors.Is(err, domain.ErrConfigNotFound):
			logger.Warn("Scan rejected, no configuration", nil)
			WriteJSONError(w, http.StatusNotFound, "No scan configuration found")
		case errors.Is(err, domain.ErrInvalidConfig):
			logger.Error("Scan rejected, invalid configuration", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, domain.ErrScanAlreadyRunning):
			WriteJSONError(w, http.StatusConflict, "A scan is already running")
		case errors.Is(err, domain.ErrOnDemandDisabled):
			WriteJSONError(w, http.StatusForbidden, "On-demand scans are disabled")
		default:
			logger.Error("Use case execution failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to start scan")
		}
		return
	}

	logger.Info("Scan accepted", port.Fields{"run_type": string(runType)})
	RespondWithJSON(w, http.StatusAccepted, StartScanResponseDTO{
		Message: "Scan started successfully",
		Status:  string(domain.ScanStatusRunning),
	})
}

// HandleListScanRuns - GET /api/v1/scans?limit=
func (h *ScanHandlers) HandleListScanRuns(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleListScanRuns"})

	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'limit' must be an integer")
		return
	}

	runs, err := h.listRunsUC.Execute(r.Context(), limit)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load scan runs")
		return
	}
	RespondWithJSON(w, http.StatusOK, runs)
}

// HandleGetScanRun - GET /api/v1/scans/{scanRunID}
func (h *ScanHandlers) HandleGetScanRun(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetScanRun"})

	id, err := uuid.Parse(chi.URLParam(r, "scanRunID"))
	if err != nil {
		logger.Warn("Invalid scan run ID format in URL", port.Fields{"provided_id": chi.URLParam(r, "scanRunID")})
		WriteJSONError(w, http.StatusBadRequest, "Invalid scan run ID format")
		return
	}

	run, err := h.getRunUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrScanRunNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Scan run not found")
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load scan run")
		return
	}
	RespondWithJSON(w, http.StatusOK, run)
}
