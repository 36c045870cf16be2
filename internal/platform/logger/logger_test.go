package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("console"))
}

func TestZapLogger_FieldsAndWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"component": "session"})

	l.Warn("save failed", map[string]any{"err": errors.New("disk full"), "": "ignored", "entries": 3})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "save failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "session", ctx["component"])
	assert.Equal(t, "disk full", ctx["err"])
	assert.EqualValues(t, 3, ctx["entries"])
	_, hasEmpty := ctx[""]
	assert.False(t, hasEmpty)
}

func TestNew_DoesNotPanic(t *testing.T) {
	l := New(Options{Level: Error, Format: FormatJSON, App: "medication-reminder"})
	l.Debug("filtered", nil)
	l.With(nil).Info("filtered", nil)
}
