package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitLoggerWritesToFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		ZapLogger = zap.NewNop()
		Log = ZapLogger.Sugar()
	})

	InitLogger()
	Log.Infow("Index loaded", zap.String("tier", "local"))
	Sync()

	data, err := os.ReadFile(filepath.Join(".", LogFile))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	text := string(data)
	for _, want := range []string{"INFO", "Logger initialized", "Index loaded", `"tier": "local"`} {
		if !strings.Contains(text, want) {
			t.Errorf("log output missing %q:\n%s", want, text)
		}
	}
}

func TestEncoderConfigOmitsCaller(t *testing.T) {
	cfg := encoderConfig()
	if cfg.CallerKey != "" || cfg.TimeKey != "T" || cfg.MessageKey != "M" {
		t.Errorf("unexpected encoder keys %+v", cfg)
	}
}
