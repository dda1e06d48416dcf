package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	Info("business imported", map[string]interface{}{
		"business_id": "gp_abc",
		"city":        "Uberaba",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "business imported", entry["message"])
	assert.Equal(t, "gp_abc", entry["business_id"])
	assert.Equal(t, "Uberaba", entry["city"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Debug("hidden")
	Info("hidden too")
	assert.Zero(t, buf.Len())

	Error("store failure", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestWithContextCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})

	WithContext(map[string]interface{}{"request_id": "req-1"}).Warn("slow request")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "warn", entry["level"])
}
