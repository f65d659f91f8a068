package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/kerignard/vodsplit/internal/segments"
	"github.com/kerignard/vodsplit/internal/video"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	Detector DetectorConfig `yaml:"detector"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	OCR      OCRConfig      `yaml:"ocr"`
}

// DetectorConfig tunes the segment detector. The defaults are tuned
// empirically for one specific clock overlay; expose them rather than
// hard-code, since a different overlay likely needs re-tuning.
type DetectorConfig struct {
	SampleIntervalSec float64   `yaml:"sample_interval_sec" env:"VODSPLIT_SAMPLE_INTERVAL_SEC"`
	StartThresholdSec float64   `yaml:"start_threshold_sec" env:"VODSPLIT_START_THRESHOLD_SEC"`
	MinGapSec         float64   `yaml:"min_gap_sec" env:"VODSPLIT_MIN_GAP_SEC"`
	MissingLimit      int       `yaml:"missing_limit" env:"VODSPLIT_MISSING_LIMIT"`
	TailSec           float64   `yaml:"tail_sec" env:"VODSPLIT_TAIL_SEC"`
	MinSegmentSec     float64   `yaml:"min_segment_sec" env:"VODSPLIT_MIN_SEGMENT_SEC"`
	ROI               video.ROI `yaml:"roi"`
}

// MachineConfig converts the tunables to a state machine config.
func (d DetectorConfig) MachineConfig() segments.Config {
	return segments.Config{
		StartThresholdSec: d.StartThresholdSec,
		MinGapSec:         d.MinGapSec,
		MissingLimit:      d.MissingLimit,
		TailSec:           d.TailSec,
		MinSegmentSec:     d.MinSegmentSec,
	}
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path" env:"FFMPEG_BIN"`
	Preset       string `yaml:"preset" env:"VODSPLIT_PRESET"`
	CRF          int    `yaml:"crf" env:"VODSPLIT_CRF"`
	AudioBitrate string `yaml:"audio_bitrate" env:"VODSPLIT_AUDIO_BITRATE"`
}

type OCRConfig struct {
	Language       string `yaml:"language" env:"VODSPLIT_OCR_LANGUAGE"`
	TessdataPrefix string `yaml:"tessdata_prefix" env:"TESSDATA_PREFIX"`
}

// Load reads configuration from file (or the default search path), applies
// environment overrides, and validates the result. A missing file on the
// search path falls back to defaults; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the detector cannot run with. The ROI is
// checked once here so the per-frame crop never degenerates.
func (c *Config) Validate() error {
	d := c.Detector
	if d.SampleIntervalSec <= 0 {
		return fmt.Errorf("detector.sample_interval_sec must be positive, got %v", d.SampleIntervalSec)
	}
	if d.MissingLimit <= 0 {
		return fmt.Errorf("detector.missing_limit must be positive, got %d", d.MissingLimit)
	}
	if d.StartThresholdSec <= 0 {
		return fmt.Errorf("detector.start_threshold_sec must be positive, got %v", d.StartThresholdSec)
	}
	if d.MinGapSec < 0 || d.TailSec < 0 || d.MinSegmentSec < 0 {
		return fmt.Errorf("detector gap/tail/min_segment must not be negative")
	}
	if err := d.ROI.Validate(); err != nil {
		return fmt.Errorf("detector.roi: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	det := segments.DefaultConfig()
	return &Config{
		Detector: DetectorConfig{
			SampleIntervalSec: 3.0,
			StartThresholdSec: det.StartThresholdSec,
			MinGapSec:         det.MinGapSec,
			MissingLimit:      det.MissingLimit,
			TailSec:           det.TailSec,
			MinSegmentSec:     det.MinSegmentSec,
			ROI:               video.ROI{X: 0.68, Y: 0.00, Width: 0.32, Height: 0.22},
		},
		FFmpeg: FFmpegConfig{
			BinaryPath:   "",
			Preset:       "veryfast",
			CRF:          20,
			AudioBitrate: "160k",
		},
		OCR: OCRConfig{
			Language: "eng",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./vodsplit.yaml",
		"./vodsplit.yml",
		filepath.Join(os.Getenv("HOME"), ".vodsplit", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
