package configfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan_config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestLoadRoundTripsDefaultConfig(t *testing.T) {
	raw, err := yaml.Marshal(domain.DefaultScanConfig())
	require.NoError(t, err)

	cfg, err := NewProvider(writeFile(t, raw)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScanConfig(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewProvider(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoadInvalidDocument(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"not yaml":     "allowedStates: [VA, NC\n",
		"fails schema": "allowedStates: [VA]\nacreage: {min: 10, max: 20}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewProvider(writeFile(t, []byte(body))).Load(context.Background())
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestSampleConfigIsValid(t *testing.T) {
	cfg, err := NewProvider(filepath.Join("..", "..", "..", "configs", "scan_config.yaml")).Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.EnabledSources())
	assert.Equal(t, 80, cfg.FitScore.Thresholds.High)
}
