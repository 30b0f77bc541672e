package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerCarriesComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := newZerolog(&buf, "simulator")
	l.Infof("soc %0.2f", 0.42)

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "simulator", entry["component"])
	assert.Equal(t, "soc 0.42", entry["message"])
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	for _, lvl := range []string{"debug", "info", "warn", "error", ""} {
		assert.NoError(t, SetLevel(lvl))
	}
	assert.Error(t, SetLevel("verbose"))

	assert.NoError(t, SetLevel("warn"))
	var buf bytes.Buffer
	l := newZerolog(&buf, "simulator")
	l.Infof("hidden")
	l.Warnf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
