package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "invalid", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.Debug("hidden detail", Field{Key: FieldGroupKey, Value: "netflix"})
	logger.Info("groups detected", Field{Key: FieldCount, Value: 3})
	logger.Warn("rule window out of range", Field{Key: FieldRuleID, Value: "r-1"})

	output := buf.String()
	assert.NotContains(t, output, "hidden detail")
	assert.Contains(t, output, "groups detected")
	assert.Contains(t, output, "count=3")
	assert.Contains(t, output, "rule_id=r-1")
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)
	testErr := errors.New("test error")

	logger.
		WithField(FieldFile, "rules.yaml").
		WithFields(Field{Key: FieldOperation, Value: "save"}).
		WithError(testErr).
		Error("operation failed")

	output := buf.String()
	assert.Contains(t, output, "operation failed")
	assert.Contains(t, output, "rules.yaml")
	assert.Contains(t, output, "save")
	assert.Contains(t, output, "test error")
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
	})
	assert.Len(t, logrusFields, 2)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Len(t, convertFields(nil), 0)
}

func TestDiscardAndOrDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		NewDiscardLogger().Info("dropped")
		OrDiscard(nil).Warn("dropped")
	})

	mock := NewMockLogger()
	assert.Same(t, mock, OrDiscard(mock))
}

func TestSetAllLogLevels(t *testing.T) {
	original := logrus.GetLevel()
	defer SetAllLogLevels(original)

	SetAllLogLevels(logrus.DebugLevel)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	adapter, ok := GetLogger().(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, adapter.logger.Level)
}

func TestMockLogger_SharedEntries(t *testing.T) {
	mock := NewMockLogger()
	derived := mock.WithField(FieldDirection, "DEBIT")
	derived.Debug("group rejected", Field{Key: FieldReason, Value: "stale"})
	mock.Info("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.True(t, mock.HasEntry("DEBUG", "group rejected"))

	reason, ok := entries[0].FieldValue(FieldReason)
	require.True(t, ok)
	assert.Equal(t, "stale", reason)
	direction, ok := entries[0].FieldValue(FieldDirection)
	require.True(t, ok)
	assert.Equal(t, "DEBIT", direction)
	assert.Len(t, mock.GetEntriesByLevel("INFO"), 1)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
