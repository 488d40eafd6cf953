package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *ConsoleLogger)
		level string
		msg   string
	}{
		{"info", func(l *ConsoleLogger) { l.Info("hello world") }, "INFO", "hello world"},
		{"warn", func(l *ConsoleLogger) { l.Warn("warning message") }, "WARN", "warning message"},
		{"error", func(l *ConsoleLogger) { l.Error("error occurred") }, "ERROR", "error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLoggerTo(&buf, false))

			output := buf.String()
			assert.Contains(t, output, tt.level)
			assert.Contains(t, output, tt.msg)
		})
	}
}

func TestConsoleLogger_Debug_Verbose(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, true).Debug("debug info")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "debug info")
}

func TestConsoleLogger_Debug_NotVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestConsoleLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Info("koan_failed",
		StringField("case", "counting_lines"),
		StringField("topic", "with_statements"),
	)

	assert.Contains(t, buf.String(),
		"{case=counting_lines, topic=with_statements}")
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleLoggerTo(&buf, false)

	child := base.WithFields(StringField("topic", "sets"))
	child.Info("koan_passed", StringField("case", "unique"))
	base.Info("plain")

	out := buf.String()
	assert.Contains(t, out, "{case=unique, topic=sets}")
	assert.Contains(t, out, "plain\n")
	assert.NoError(t, child.Close())
}
