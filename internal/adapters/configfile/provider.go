// Package configfile loads the scan configuration from a YAML file.
package configfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/contracts"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"gopkg.in/yaml.v2"
)

// Provider reads the file on every Load so edits apply to the next scan
// without a restart.
type Provider struct {
	path string
}

func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

func (p *Provider) Load(ctx context.Context) (domain.ScanConfig, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ConfigFileProvider",
		"path":      p.path,
	})

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ScanConfig{}, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, p.path)
		}
		return domain.ScanConfig{}, fmt.Errorf("failed to read scan config: %w", err)
	}

	body, err := YAMLToJSON(raw)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	cfg, err := contracts.DecodeScanConfig(body)
	if err != nil {
		logger.Warn("Scan config failed validation", port.Fields{"error": err.Error()})
		return domain.ScanConfig{}, err
	}
	logger.Debug("Scan config loaded", port.Fields{"sources": len(cfg.ListingSources)})
	return cfg, nil
}

// YAMLToJSON converts a YAML document to JSON so it can be validated
// against the JSON schema.
func YAMLToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc == nil {
		return nil, errors.New("config document is empty")
	}
	return json.Marshal(stringKeys(doc))
}

// stringKeys rewrites the map[interface{}]interface{} values yaml.v2
// produces into JSON-compatible maps.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}
