package main

import (
	"testing"

	"github.com/bobby-s-dev/weather-lookup/internal/config"
)

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		envLevel string
		want     string
	}{
		{name: "env used when flag unset", flag: "", envLevel: "debug", want: "debug"},
		{name: "flag overrides env", flag: "error", envLevel: "debug", want: "error"},
		{name: "default from config", flag: "", envLevel: "", want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)

			cfg, err := config.LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}

			if got := resolveLogLevel(tt.flag, cfg); got != tt.want {
				t.Errorf("resolveLogLevel(%q) = %q, expected %q", tt.flag, got, tt.want)
			}
		})
	}
}
