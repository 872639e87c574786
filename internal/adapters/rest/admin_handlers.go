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
)

type AdminHandlers struct {
	listAdaptersUC usecases_port.ListAdaptersUseCase
	testAdapterUC  usecases_port.TestAdapterUseCase
	probeUC        usecases_port.ProbeConnectivityUseCase
	healthUC       usecases_port.GetHealthUseCase
	configUC       usecases_port.GetScanConfigUseCase
}

func NewAdminHandlers(listAdaptersUC usecases_port.ListAdaptersUseCase,
	testAdapterUC usecases_port.TestAdapterUseCase,
	probeUC usecases_port.ProbeConnectivityUseCase,
	healthUC usecases_port.GetHealthUseCase,
	configUC usecases_port.GetScanConfigUseCase) *AdminHandlers {
	return &AdminHandlers{
		listAdaptersUC: listAdaptersUC,
		testAdapterUC:  testAdapterUC,
		probeUC:        probeUC,
		healthUC:       healthUC,
		configUC:       configUC,
	}
}

// HandleListAdapters - GET /api/v1/admin/adapters
func (h *AdminHandlers) HandleListAdapters(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.listAdaptersUC.Execute(r.Context()))
}

// HandleTestAdapter - POST /api/v1/admin/adapters/test
func (h *AdminHandlers) HandleTestAdapter(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleTestAdapter"})

	var reqDTO TestAdapterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		if errors.Is(err, io.EOF) {
			WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if reqDTO.AdapterID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Field 'adapterId' is required")
		return
	}

	mode := usecases_port.TestMode(reqDTO.TestMode)
	switch mode {
	case "", usecases_port.TestModeBasic, usecases_port.TestModeDetailed:
	default:
		WriteJSONError(w, http.StatusBadRequest, "Field 'testMode' must be 'basic' or 'detailed'")
		return
	}

	report, err := h.testAdapterUC.Execute(r.Context(), usecases_port.AdapterTestRequest{
		AdapterID: reqDTO.AdapterID,
		Mode:      mode,
		Params:    reqDTO.TestParams.toDomain(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAdapterNotFound) {
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Adapter '%s' not found", reqDTO.AdapterID))
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Adapter test failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, report)
}

// HandleProbeConnectivity - POST /api/v1/admin/connectivity
func (h *AdminHandlers) HandleProbeConnectivity(w http.ResponseWriter, r *http.Request) {
	var reqDTO ConnectivityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil && !errors.Is(err, io.EOF) {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result := h.probeUC.Execute(r.Context(), reqDTO.URL)
	if !result.Success {
		RespondWithJSON(w, http.StatusOK, ConnectivityFailureDTO{
			Success:        false,
			URL:            result.URL,
			Error:          result.Error,
			Status:         result.Status,
			DurationMs:     result.DurationMs,
			IsTimeout:      result.IsTimeout,
			IsNetworkError: result.IsNetworkError,
			IsBlocked:      result.IsBlocked,
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

// HandleHealth - GET /api/v1/admin/health
func (h *AdminHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleHealth"})

	stats, err := h.healthUC.Execute(r.Context())
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load health stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, stats)
}

// HandleGetConfig - GET /api/v1/admin/config
func (h *AdminHandlers) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetConfig"})

	cfg, err := h.configUC.Execute(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfigNotFound):
			WriteJSONError(w, http.StatusNotFound, "No scan configuration found")
		case errors.Is(err, domain.ErrInvalidConfig):
			WriteJSONError(w, http.StatusInternalServerError, err.Error())
		default:
			logger.Error("Use case execution failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to load scan configuration")
		}
		return
	}
	RespondWithJSON(w, http.StatusOK, cfg)
}
