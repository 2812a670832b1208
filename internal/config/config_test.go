package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Camera.Device != 0 || cfg.Camera.Mirror {
		t.Errorf("camera defaults = %+v", cfg.Camera)
	}
	if cfg.Gesture.Handedness != "Right" {
		t.Errorf("handedness = %q, want Right", cfg.Gesture.Handedness)
	}
	if cfg.Drive.Link != LinkTCP || cfg.Drive.TCPAddr != "127.0.0.1:19997" {
		t.Errorf("drive defaults = %+v", cfg.Drive)
	}
	if cfg.Drive.Speed != 2.0 || cfg.Drive.Turn != 1.0 {
		t.Errorf("velocity defaults = %v, %v; want 2, 1", cfg.Drive.Speed, cfg.Drive.Turn)
	}
	if cfg.Pipeline.IdleFPS != 5 || cfg.Pipeline.ActiveFPS != 15 {
		t.Errorf("pipeline defaults = %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.IdleAfter.Std() != 10*time.Second {
		t.Errorf("idle_after = %s, want 10s", cfg.Pipeline.IdleAfter.Std())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	path := writeConfig(t, `
camera:
  device: 2
  mirror: true
drive:
  link: serial
  serial_port: /dev/ttyUSB0
  speed: 1.5
pipeline:
  idle_after: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Camera.Device != 2 || !cfg.Camera.Mirror {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Drive.Link != LinkSerial || cfg.Drive.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("drive = %+v", cfg.Drive)
	}
	if cfg.Drive.Speed != 1.5 {
		t.Errorf("speed = %v, want 1.5", cfg.Drive.Speed)
	}
	if cfg.Pipeline.IdleAfter.Std() != 30*time.Second {
		t.Errorf("idle_after = %s, want 30s", cfg.Pipeline.IdleAfter.Std())
	}

	// Untouched keys keep their defaults.
	if cfg.Drive.Turn != 1.0 {
		t.Errorf("turn = %v, want default 1.0", cfg.Drive.Turn)
	}
	if cfg.Server.Addr != "127.0.0.1:8930" {
		t.Errorf("server addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Detector.MaxHands != 2 {
		t.Errorf("max_hands = %d, want default 2", cfg.Detector.MaxHands)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load(missing) expected error, got nil")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "camera: [not, a, mapping")
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) expected error, got nil")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  idle_after: quickly
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() with bad duration expected error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown link", func(c *Config) { c.Drive.Link = "carrier-pigeon" }, "drive.link"},
		{"serial without port", func(c *Config) { c.Drive.Link = LinkSerial; c.Drive.SerialPort = "" }, "serial_port"},
		{"bad handedness", func(c *Config) { c.Gesture.Handedness = "Both" }, "handedness"},
		{"zero fps", func(c *Config) { c.Pipeline.IdleFPS = 0 }, "fps"},
		{"active below idle", func(c *Config) { c.Pipeline.ActiveFPS = 2 }, "active_fps"},
		{"negative speed", func(c *Config) { c.Drive.Speed = -1 }, "velocities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	// none link with no transport details is fine; it runs the pipeline
	// without a platform attached.
	cfg := Default()
	cfg.Drive.Link = LinkNone
	cfg.Drive.TCPAddr = ""
	cfg.Drive.SerialPort = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on none link: %v", err)
	}
}
