package rest

import (
	"errors"
	"net/http"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ParcelHandlers struct {
	searchUC  usecases_port.SearchParcelsUseCase
	detailsUC usecases_port.GetParcelDetailsUseCase
}

func NewParcelHandlers(searchUC usecases_port.SearchParcelsUseCase, detailsUC usecases_port.GetParcelDetailsUseCase) *ParcelHandlers {
	return &ParcelHandlers{searchUC: searchUC, detailsUC: detailsUC}
}

// HandleSearchParcels - GET /api/v1/parcels
func (h *ParcelHandlers) HandleSearchParcels(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSearchParcels"})

	filter := domain.ParcelFilter{State: r.URL.Query().Get("state")}
	var ok bool
	if filter.MinAcreage, ok = queryFloatPtr(r, "minAcreage"); !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'minAcreage' must be a number")
		return
	}
	if filter.MaxAcreage, ok = queryFloatPtr(r, "maxAcreage"); !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'maxAcreage' must be a number")
		return
	}
	if filter.MinScore, ok = queryIntPtr(r, "minScore"); !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'minScore' must be an integer")
		return
	}
	if filter.Limit, ok = queryInt(r, "limit", 0); !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'limit' must be an integer")
		return
	}
	if filter.Offset, ok = queryInt(r, "offset", 0); !ok {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'offset' must be an integer")
		return
	}

	page, err := h.searchUC.Execute(r.Context(), filter)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to search parcels")
		return
	}
	RespondWithJSON(w, http.StatusOK, page)
}

// HandleGetParcel - GET /api/v1/parcels/{parcelID}
func (h *ParcelHandlers) HandleGetParcel(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetParcel"})

	id, err := uuid.Parse(chi.URLParam(r, "parcelID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid parcel ID format")
		return
	}

	details, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrParcelNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Parcel not found")
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load parcel")
		return
	}
	RespondWithJSON(w, http.StatusOK, details)
}
