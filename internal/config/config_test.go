package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // keep the search path away from a real user config

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detector.StartThresholdSec != 120 {
		t.Errorf("start threshold = %v, want 120", cfg.Detector.StartThresholdSec)
	}
	if cfg.Detector.MissingLimit != 10 {
		t.Errorf("missing limit = %d, want 10", cfg.Detector.MissingLimit)
	}
	if cfg.Detector.ROI.X != 0.68 {
		t.Errorf("roi x = %v, want 0.68", cfg.Detector.ROI.X)
	}
	if cfg.FFmpeg.Preset != "veryfast" || cfg.FFmpeg.CRF != 20 {
		t.Errorf("ffmpeg defaults = %q/%d, want veryfast/20", cfg.FFmpeg.Preset, cfg.FFmpeg.CRF)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("ocr language = %q, want eng", cfg.OCR.Language)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail when an explicitly given config path does not exist")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vodsplit.yaml")
	data := []byte(`
detector:
  start_threshold_sec: 150
  missing_limit: 5
  roi: {x: 0.5, y: 0.1, w: 0.4, h: 0.2}
ffmpeg:
  crf: 18
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detector.StartThresholdSec != 150 {
		t.Errorf("start threshold = %v, want 150", cfg.Detector.StartThresholdSec)
	}
	if cfg.Detector.MissingLimit != 5 {
		t.Errorf("missing limit = %d, want 5", cfg.Detector.MissingLimit)
	}
	if cfg.Detector.ROI.Width != 0.4 {
		t.Errorf("roi width = %v, want 0.4", cfg.Detector.ROI.Width)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Detector.TailSec != 20 {
		t.Errorf("tail = %v, want default 20", cfg.Detector.TailSec)
	}
	if cfg.FFmpeg.CRF != 18 {
		t.Errorf("crf = %d, want 18", cfg.FFmpeg.CRF)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vodsplit.yaml")
	if err := os.WriteFile(path, []byte("detector:\n  min_gap_sec: 60\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VODSPLIT_MIN_GAP_SEC", "45")
	t.Setenv("FFMPEG_BIN", "/opt/ffmpeg/bin/ffmpeg")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detector.MinGapSec != 45 {
		t.Errorf("min gap = %v, want env override 45", cfg.Detector.MinGapSec)
	}
	if cfg.FFmpeg.BinaryPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("binary path = %q, want env override", cfg.FFmpeg.BinaryPath)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample interval", func(c *Config) { c.Detector.SampleIntervalSec = 0 }},
		{"zero missing limit", func(c *Config) { c.Detector.MissingLimit = 0 }},
		{"negative tail", func(c *Config) { c.Detector.TailSec = -1 }},
		{"degenerate roi", func(c *Config) { c.Detector.ROI.Width = 0 }},
		{"roi past frame edge", func(c *Config) { c.Detector.ROI.X = 0.9 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := defaultConfig()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted a bad config")
			}
		})
	}
}
