package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meldgrid/pkg/config"
	"github.com/matzehuels/meldgrid/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	tests := map[string]struct {
		cfg     config.LoggingConfig
		verbose bool
		logFunc func(*log.Logger)
		check   func(t *testing.T, out string)
	}{
		"json format": {
			cfg:     config.LoggingConfig{Level: "info", Format: config.FormatJSON},
			logFunc: func(l *log.Logger) { l.Info("hello", "grid", "ops") },
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"hello"`) {
					t.Errorf("json output = %q", out)
				}
			},
		},
		"logfmt format": {
			cfg:     config.LoggingConfig{Level: "info", Format: config.FormatLogfmt},
			logFunc: func(l *log.Logger) { l.Info("hello") },
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "msg=hello") {
					t.Errorf("logfmt output = %q", out)
				}
			},
		},
		"warn level drops info": {
			cfg:     config.LoggingConfig{Level: "warn"},
			logFunc: func(l *log.Logger) { l.Info("hidden") },
			check: func(t *testing.T, out string) {
				if out != "" {
					t.Errorf("info logged at warn level: %q", out)
				}
			},
		},
		"verbose overrides level": {
			cfg:     config.LoggingConfig{Level: "error"},
			verbose: true,
			logFunc: func(l *log.Logger) { l.Debug("shown") },
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "shown") {
					t.Errorf("debug not logged with verbose: %q", out)
				}
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closer, err := configureLogger(&buf, tt.cfg, tt.verbose)
			if err != nil {
				t.Fatalf("configureLogger: %v", err)
			}
			defer closer.Close()
			tt.logFunc(logger)
			tt.check(t, buf.String())
		})
	}
}

func TestConfigureLoggerBadLevel(t *testing.T) {
	_, _, err := configureLogger(&bytes.Buffer{}, config.LoggingConfig{Level: "loud"}, false)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestConfigureLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "meldgrid.log")
	var buf bytes.Buffer
	logger, closer, err := configureLogger(&buf, config.LoggingConfig{
		Level:      "info",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	}, false)
	if err != nil {
		t.Fatalf("configureLogger: %v", err)
	}
	logger.Info("rotated")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "rotated") || !strings.Contains(buf.String(), "rotated") {
		t.Errorf("message missing: file=%q stderr=%q", data, buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("test completed")

	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the custom logger")
	}
}
