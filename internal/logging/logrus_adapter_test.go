package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		json        bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, json: true},
		{name: "warn text", level: "warn", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, ok := NewLogrusAdapter(tt.level, tt.format).(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)
			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	existing := logrus.New()
	adapter, ok := NewLogrusAdapterFromLogger(existing).(*LogrusAdapter)
	require.True(t, ok)
	assert.Same(t, existing, adapter.logger)

	adapter, ok = NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	logger.WithField(FieldMessageType, "103").
		WithFields(Field{Key: FieldTag, Value: "32A"}).
		WithError(errors.New("invalid amount")).
		Error("Field rejected", Field{Key: FieldReason, Value: "precision"})

	out := buf.String()
	assert.Contains(t, out, `"message_type":"103"`)
	assert.Contains(t, out, `"tag":"32A"`)
	assert.Contains(t, out, `"reason":"precision"`)
	assert.Contains(t, out, "invalid amount")
	assert.Contains(t, out, "Field rejected")
}

func TestLogrusAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("warn", "text", &buf)

	logger.Info("parsed message")
	assert.Empty(t, buf.String())

	logger.Warn("unknown tag preserved")
	assert.Contains(t, buf.String(), "unknown tag preserved")
}

func TestSetAllLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("error", "text", &buf)

	require.True(t, SetAllLogLevels("debug"))
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	assert.False(t, SetAllLogLevels("chatty"))
	require.True(t, SetAllLogLevels("info"))
}

func TestGetLoggerIsShared(t *testing.T) {
	assert.Same(t, GetLogger(), GetLogger())
}

func TestConvertFields(t *testing.T) {
	converted := convertFields([]Field{{Key: FieldCount, Value: 3}, {Key: FieldFile, Value: "a.mt"}})
	assert.Equal(t, logrus.Fields{"count": 3, "file_path": "a.mt"}, converted)
	assert.Empty(t, convertFields(nil))
}

func TestMockLoggerSharesEntriesWithChildren(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField("component", "Parser")
	child.WithError(errors.New("boom")).Warn("Parse failed", Field{Key: FieldTag, Value: "50"})
	mock.Info("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.EqualError(t, entries[0].Error, "boom")
	assert.Equal(t, []Field{{Key: "component", Value: "Parser"}, {Key: FieldTag, Value: "50"}}, entries[0].Fields)

	value, ok := mock.FieldValue("Parse failed", FieldTag)
	require.True(t, ok)
	assert.Equal(t, "50", value)
	assert.True(t, mock.HasEntry("INFO", "done"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestImplementsLogger(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
