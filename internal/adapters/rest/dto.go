package rest

import "land-scanner-service/internal/core/domain"

type StartScanResponseDTO struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type StartScanRequestDTO struct {
	RunType string `json:"runType,omitempty"`
}

type TestParamsDTO struct {
	States     []string `json:"states"`
	MinAcreage float64  `json:"minAcreage"`
	MaxAcreage float64  `json:"maxAcreage"`
	Page       int      `json:"page,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

func (p *TestParamsDTO) toDomain() *domain.SearchParams {
	if p == nil {
		return nil
	}
	return &domain.SearchParams{
		States:     p.States,
		MinAcreage: p.MinAcreage,
		MaxAcreage: p.MaxAcreage,
		Page:       p.Page,
		Limit:      p.Limit,
	}
}

type TestAdapterRequestDTO struct {
	AdapterID  string         `json:"adapterId"`
	TestMode   string         `json:"testMode"`
	TestParams *TestParamsDTO `json:"testParams,omitempty"`
}

type ConnectivityRequestDTO struct {
	URL string `json:"url"`
}

// ConnectivityFailureDTO is the body returned when the probe could not reach the URL.
type ConnectivityFailureDTO struct {
	Success        bool   `json:"success"`
	URL            string `json:"url"`
	Error          string `json:"error"`
	Status         int    `json:"status,omitempty"`
	DurationMs     int64  `json:"durationMs"`
	IsTimeout      bool   `json:"isTimeout"`
	IsNetworkError bool   `json:"isNetworkError"`
	IsBlocked      bool   `json:"isBlocked"`
}
