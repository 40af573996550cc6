package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zapcore.Level
	}{
		{"debug lowercase", "debug", zapcore.DebugLevel},
		{"debug uppercase", "DEBUG", zapcore.DebugLevel},
		{"info lowercase", "info", zapcore.InfoLevel},
		{"warn", "warn", zapcore.WarnLevel},
		{"error padded", " error ", zapcore.ErrorLevel},
		{"invalid string", "invalid", zapcore.InfoLevel},
		{"empty string", "", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLogLevel(tt.level)
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		name            string
		cfg             LogConfig
		wantEncoding    string
		wantDevelopment bool
	}{
		{"defaults", LogConfig{Level: "info"}, LogFormatJSON, false},
		{"console", LogConfig{Level: "info", Format: "Console"}, LogFormatConsole, false},
		{"unknown format", LogConfig{Level: "warn", Format: "xml"}, LogFormatJSON, false},
		{"debug", LogConfig{Level: "debug", Format: "json"}, LogFormatJSON, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zcfg := loggerConfig(tt.cfg)

			if zcfg.Encoding != tt.wantEncoding {
				t.Errorf("Encoding = %q, want %q", zcfg.Encoding, tt.wantEncoding)
			}
			if zcfg.Development != tt.wantDevelopment {
				t.Errorf("Development = %v, want %v", zcfg.Development, tt.wantDevelopment)
			}
			if zcfg.Sampling != nil {
				t.Error("Sampling should be disabled")
			}
			if zcfg.InitialFields["service"] != serviceName {
				t.Errorf("service field = %v, want %q", zcfg.InitialFields["service"], serviceName)
			}
			if zcfg.Level.Level() != parseLogLevel(tt.cfg.Level) {
				t.Errorf("Level = %v, want %v", zcfg.Level.Level(), parseLogLevel(tt.cfg.Level))
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		t.Run("level "+level, func(t *testing.T) {
			logger, err := NewLogger(LogConfig{Level: level})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("NewLogger() returned nil logger")
			}
			if !logger.Core().Enabled(parseLogLevel(level)) {
				t.Errorf("logger should be enabled at %v", parseLogLevel(level))
			}
			logger.Sync()
		})
	}
}
