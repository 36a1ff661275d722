package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/epistat/roadinj/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "console",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "unknown level falls back to info",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "loud",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			if log == nil {
				t.Fatal("New() returned nil")
			}
			if got := zerolog.GlobalLevel(); got != tt.wantLevel {
				t.Errorf("global level = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestWithField(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "info", LogFormat: "json"}
	log := New(cfg)

	child := log.WithField("stage", "s1_cohort")
	if child == nil {
		t.Fatal("WithField() returned nil")
	}
	if child == log {
		t.Error("WithField() should return a new logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
