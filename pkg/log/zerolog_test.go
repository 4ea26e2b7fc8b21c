package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	qerrors "github.com/YuminosukeSato/qugo/pkg/errors"
)

func newBufferProvider(t *testing.T) (*ZerologProvider, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewZerologProvider(&buf), &buf
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestZerologLogger_StructuredFields(t *testing.T) {
	provider, buf := newBufferProvider(t)
	logger := provider.GetLoggerWithName("nnstates.trainer")

	logger.Info("Training started",
		OperationKey, "fit",
		EpochsKey, 100,
		VisibleUnitsKey, 6,
	)

	entry := lastLogLine(t, buf)
	if entry["message"] != "Training started" {
		t.Errorf("message = %v, want %q", entry["message"], "Training started")
	}
	if entry[ComponentKey] != "nnstates.trainer" {
		t.Errorf("%s = %v, want %q", ComponentKey, entry[ComponentKey], "nnstates.trainer")
	}
	if entry[OperationKey] != "fit" {
		t.Errorf("%s = %v, want %q", OperationKey, entry[OperationKey], "fit")
	}
	if entry[EpochsKey] != float64(100) {
		t.Errorf("%s = %v, want 100", EpochsKey, entry[EpochsKey])
	}
}

func TestZerologLogger_With(t *testing.T) {
	provider, buf := newBufferProvider(t)
	logger := provider.GetLogger().With(ModelNameKey, "PositiveWavefunction")

	logger.Info("hello")

	entry := lastLogLine(t, buf)
	if entry[ModelNameKey] != "PositiveWavefunction" {
		t.Errorf("%s = %v, want %q", ModelNameKey, entry[ModelNameKey], "PositiveWavefunction")
	}
}

func TestZerologLogger_ErrorAttribute(t *testing.T) {
	provider, buf := newBufferProvider(t)
	logger := provider.GetLogger()

	logger.Error("operation failed", qerrors.New("boom"))

	entry := lastLogLine(t, buf)
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want %q", entry["error"], "boom")
	}
}

func TestZerologLogger_MarshalsWarningObjects(t *testing.T) {
	provider, buf := newBufferProvider(t)
	logger := provider.GetLogger()

	warning := qerrors.NewDeviceFallbackWarning("gpu", "cpu", "no GPU backend is compiled in")
	logger.Warn(warning.Error(), "warning", warning)

	entry := lastLogLine(t, buf)
	obj, ok := entry["warning"].(map[string]any)
	if !ok {
		t.Fatalf("warning field = %T, want structured object", entry["warning"])
	}
	if obj["requested"] != "gpu" || obj["used"] != "cpu" {
		t.Errorf("warning object = %v, want requested=gpu used=cpu", obj)
	}
}

func TestProvider_SetLevel(t *testing.T) {
	provider, buf := newBufferProvider(t)

	provider.SetLevel(LevelWarn)
	logger := provider.GetLogger()

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line emitted below the minimum level: %s", buf.String())
	}

	logger.Warn("emitted")
	if buf.Len() == 0 {
		t.Error("warn line was suppressed at the warn level")
	}

	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("Enabled(info) = true at the warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("Enabled(error) = false at the warn level")
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(2), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
