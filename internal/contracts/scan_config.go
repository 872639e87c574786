// Package contracts validates documents exchanged with the outside world
// against embedded JSON schemas.
package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"land-scanner-service/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const scanConfigSchemaPath = "schemas/scan_config.schema.json"

//go:embed schemas/*.json
var schemasFS embed.FS

var (
	scanConfigOnce   sync.Once
	scanConfigSchema *jsonschema.Schema
	scanConfigErr    error
)

func compiledScanConfigSchema() (*jsonschema.Schema, error) {
	scanConfigOnce.Do(func() {
		raw, err := schemasFS.ReadFile(scanConfigSchemaPath)
		if err != nil {
			scanConfigErr = fmt.Errorf("failed to read embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(scanConfigSchemaPath, bytes.NewReader(raw)); err != nil {
			scanConfigErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		scanConfigSchema, scanConfigErr = compiler.Compile(scanConfigSchemaPath)
	})
	return scanConfigSchema, scanConfigErr
}

// ValidateScanConfig checks a JSON document against the scan configuration
// schema. Validation failures wrap domain.ErrInvalidConfig.
func ValidateScanConfig(body []byte) error {
	schema, err := compiledScanConfigSchema()
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: config is not valid JSON: %v", domain.ErrInvalidConfig, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// DecodeScanConfig validates body and decodes it.
func DecodeScanConfig(body []byte) (domain.ScanConfig, error) {
	if err := ValidateScanConfig(body); err != nil {
		return domain.ScanConfig{}, err
	}
	var cfg domain.ScanConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		return domain.ScanConfig{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if cfg.FitScore.Thresholds.Medium > cfg.FitScore.Thresholds.High {
		return domain.ScanConfig{}, fmt.Errorf("%w: medium threshold %d exceeds high threshold %d",
			domain.ErrInvalidConfig, cfg.FitScore.Thresholds.Medium, cfg.FitScore.Thresholds.High)
	}
	if cfg.Acreage.Max > 0 && cfg.Acreage.Max < cfg.Acreage.Min {
		return domain.ScanConfig{}, fmt.Errorf("%w: acreage max %v is below min %v",
			domain.ErrInvalidConfig, cfg.Acreage.Max, cfg.Acreage.Min)
	}
	return cfg, nil
}
