package kizami

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the segmentation tunables. These are process-wide constants
// in spirit: set them once and share the Segmenter. The zero value becomes
// usable through ApplyDefaults.
type Config struct {
	// ThresholdLarge is the text size above which pattern-based section
	// scanning is skipped in favor of block division.
	ThresholdLarge int `yaml:"threshold_large"`
	// MaxChunks bounds the total chunks emitted in one run.
	MaxChunks int `yaml:"max_chunks"`
	// MaxTextLength bounds the input; longer text is truncated with a warning.
	MaxTextLength int `yaml:"max_text_length"`
	// MaxChunkSize is the hard ceiling on a single chunk's target span.
	MaxChunkSize int `yaml:"max_chunk_size"`
	// MinLeafLength is the minimum content length for a leaf (level 3) chunk.
	MinLeafLength int `yaml:"min_leaf_length"`
	// MaxLeafChunks caps leaf chunks per paragraph.
	MaxLeafChunks int `yaml:"max_leaf_chunks"`
	// MaxSections caps detected sections per document.
	MaxSections int `yaml:"max_sections"`
	// MaxParagraphs caps extracted paragraphs per section.
	MaxParagraphs int `yaml:"max_paragraphs"`
	// DefaultTargetLength replaces an invalid caller-supplied target length.
	DefaultTargetLength int `yaml:"default_target_length"`
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.ThresholdLarge == 0 {
		cfg.ThresholdLarge = 5_000_000
	}
	if cfg.MaxChunks == 0 {
		cfg.MaxChunks = 5000
	}
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = 20_000_000
	}
	if cfg.MaxChunkSize == 0 {
		cfg.MaxChunkSize = 8000
	}
	if cfg.MinLeafLength == 0 {
		cfg.MinLeafLength = 200
	}
	if cfg.MaxLeafChunks == 0 {
		cfg.MaxLeafChunks = 100
	}
	if cfg.MaxSections == 0 {
		cfg.MaxSections = 100
	}
	if cfg.MaxParagraphs == 0 {
		cfg.MaxParagraphs = 100
	}
	if cfg.DefaultTargetLength == 0 {
		cfg.DefaultTargetLength = 1000
	}
}

// LoadConfig reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}
