package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load returned error for missing file: %v", err)
	}
	if cfg.Listen.Addr() != "0.0.0.0:8080" {
		t.Fatalf("expected default listen address, got %q", cfg.Listen.Addr())
	}
	if cfg.Game.TickRate != 60 {
		t.Fatalf("expected default tick rate 60, got %d", cfg.Game.TickRate)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
listen:
  host: 127.0.0.1
  port: 9000
game:
  tick_rate: 30
motion:
  smoothing_rate: 0.3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Listen.Addr() != "127.0.0.1:9000" {
		t.Fatalf("expected overridden listen address, got %q", cfg.Listen.Addr())
	}
	if cfg.Game.TickRate != 30 {
		t.Fatalf("expected tick rate 30, got %d", cfg.Game.TickRate)
	}
	if cfg.Game.ArenaWidth != 800 {
		t.Fatalf("expected default arena width to survive, got %.1f", cfg.Game.ArenaWidth)
	}
	if cfg.Motion.SmoothingRate != 0.3 {
		t.Fatalf("expected smoothing rate 0.3, got %.2f", cfg.Motion.SmoothingRate)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := writeConfigFile(t, "listen: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error for malformed file")
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		check    func(t *testing.T, cfg Config)
	}{
		{
			name:     "negative port",
			contents: "listen:\n  port: -1\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Listen.Port != 8080 {
					t.Fatalf("expected port clamp to 8080, got %d", cfg.Listen.Port)
				}
			},
		},
		{
			name:     "zero tick rate",
			contents: "game:\n  tick_rate: 0\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Game.TickRate != 60 {
					t.Fatalf("expected tick rate clamp to 60, got %d", cfg.Game.TickRate)
				}
			},
		},
		{
			name:     "smoothing rate above one",
			contents: "motion:\n  smoothing_rate: 3.5\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Motion.SmoothingRate != 1 {
					t.Fatalf("expected smoothing rate clamp to 1, got %.2f", cfg.Motion.SmoothingRate)
				}
			},
		},
		{
			name:     "negative smoothing rate",
			contents: "motion:\n  smoothing_rate: -0.2\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Motion.SmoothingRate != 0 {
					t.Fatalf("expected smoothing rate clamp to 0, got %.2f", cfg.Motion.SmoothingRate)
				}
			},
		},
		{
			name:     "empty sink list",
			contents: "logging:\n  sinks: []\n",
			check: func(t *testing.T, cfg Config) {
				if len(cfg.Logging.Sinks) != 1 || cfg.Logging.Sinks[0] != "console" {
					t.Fatalf("expected console sink fallback, got %v", cfg.Logging.Sinks)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfigFile(t, tt.contents))
			if err != nil {
				t.Fatalf("load returned error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
