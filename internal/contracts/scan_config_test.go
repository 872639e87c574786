package contracts

import (
	"encoding/json"
	"testing"

	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfigJSON(t *testing.T, mutate func(m map[string]interface{})) []byte {
	t.Helper()
	raw, err := json.Marshal(domain.DefaultScanConfig())
	require.NoError(t, err)
	if mutate == nil {
		return raw
	}
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	mutate(m)
	raw, err = json.Marshal(m)
	require.NoError(t, err)
	return raw
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := DecodeScanConfig(defaultConfigJSON(t, nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScanConfig(), cfg)
}

func TestValidateScanConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]interface{})
	}{
		{"missing listing sources", func(m map[string]interface{}) { delete(m, "listingSources") }},
		{"lowercase state", func(m map[string]interface{}) { m["allowedStates"] = []string{"va"} }},
		{"hour out of range", func(m map[string]interface{}) {
			m["schedules"].(map[string]interface{})["weeklyScan"].(map[string]interface{})["hourUTC"] = 24
		}},
		{"unknown adapter", func(m map[string]interface{}) {
			m["listingSources"].([]interface{})[0].(map[string]interface{})["adapter"] = "zillow"
		}},
		{"rate limit zero", func(m map[string]interface{}) {
			m["listingSources"].([]interface{})[0].(map[string]interface{})["rateLimitPerMin"] = 0
		}},
		{"bad email", func(m map[string]interface{}) {
			m["notifications"] = map[string]interface{}{"onScanComplete": map[string]interface{}{"emailList": []string{"not-an-email"}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScanConfig(defaultConfigJSON(t, tt.mutate))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestValidateScanConfigRejectsMalformedJSON(t *testing.T) {
	err := ValidateScanConfig([]byte(`{"allowedStates": [`))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestDecodeScanConfigChecksThresholdOrder(t *testing.T) {
	body := defaultConfigJSON(t, func(m map[string]interface{}) {
		m["fitScore"].(map[string]interface{})["thresholds"] = map[string]interface{}{"high": 50, "medium": 70}
	})
	_, err := DecodeScanConfig(body)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
