package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, Setup("debug", "json"))

	WithComponent("orders").WithField("order_number", "ORD-1").Info("created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "orders", line["component"])
	assert.Equal(t, "ORD-1", line["order_number"])
	assert.Equal(t, "created", line["msg"])
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, Setup("info", "json"))

	LogError(WithComponent("inventory"), "AddOrAdjustInventory", map[string]int{"delta": -3}, errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "AddOrAdjustInventory", line["func"])
	assert.Equal(t, "boom", line["msg"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup("loud", "json"))
}
