package usecase

import (
	"context"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/port"
)

type ProbeConnectivityUseCase struct {
	prober     port.ConnectivityProber
	defaultURL string
}

func NewProbeConnectivityUseCase(prober port.ConnectivityProber, defaultURL string) *ProbeConnectivityUseCase {
	return &ProbeConnectivityUseCase{prober: prober, defaultURL: defaultURL}
}

// Execute probes url, or the default source URL when url is empty.
func (uc *ProbeConnectivityUseCase) Execute(ctx context.Context, url string) port.ProbeResult {
	if url == "" {
		url = uc.defaultURL
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ProbeConnectivity",
		"url":      url,
	})
	ucLogger.Info("Testing connectivity", nil)

	result := uc.prober.Probe(ctx, url)
	ucLogger.Info("Connectivity probe finished", port.Fields{
		"success":     result.Success,
		"status":      result.Status,
		"duration_ms": result.DurationMs,
		"is_blocked":  result.IsBlocked,
	})
	return result
}
