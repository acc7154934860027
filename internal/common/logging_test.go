package common

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error", Outputs: []string{"console"}})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Float64("rate", 3.14).Bool("ok", true).Msg("debug")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("symbol", "XYZ").Msg("hello")

	output := buf.String()
	if !strings.Contains(output, "hello") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	// stdout carries the MCP stdio transport.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"console"}})
	logger.Info().Str("tool", "test").Msg("this must not go to stdout")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewSilentLogger()
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
	correlated.Info().Dur("elapsed", 0).Msg("handler complete")
}
