package vrr

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects the tunables of the pipeline. The zero value is not
// meaningful; start from [DefaultConfig] or [LoadConfig].
type Config struct {
	// PreloadRadius is how many neighbors on each side of the cursor
	// are decoded ahead of time.
	PreloadRadius int `yaml:"preload_radius"`

	// Workers is the decode pool size. 0 sizes the pool to available
	// hardware parallelism (minimum 2).
	Workers int `yaml:"workers"`

	// DebounceShortMS and DebounceLongMS are the debounce delays in
	// milliseconds (see [DefaultDebounceShort] and
	// [DefaultDebounceLong]).
	DebounceShortMS int `yaml:"debounce_short_ms"`
	DebounceLongMS  int `yaml:"debounce_long_ms"`

	// ThumbnailSize is the square thumbnail edge in pixels.
	ThumbnailSize int `yaml:"thumbnail_size"`

	// FullHDWidth and FullHDHeight bound the FullHD decode tier.
	FullHDWidth  int `yaml:"fullhd_width"`
	FullHDHeight int `yaml:"fullhd_height"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		PreloadRadius:   4,
		Workers:         0,
		DebounceShortMS: int(DefaultDebounceShort / time.Millisecond),
		DebounceLongMS:  int(DefaultDebounceLong / time.Millisecond),
		ThumbnailSize:   DefaultThumbnailSize,
		FullHDWidth:     DefaultFullHDWidth,
		FullHDHeight:    DefaultFullHDHeight,
	}
}

// LoadConfig reads a YAML config file over the defaults, so a partial
// file only overrides the keys it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("vrr: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("vrr: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DebounceShort returns the short debounce delay as a duration.
func (c Config) DebounceShort() time.Duration {
	return time.Duration(c.DebounceShortMS) * time.Millisecond
}

// DebounceLong returns the long debounce delay as a duration.
func (c Config) DebounceLong() time.Duration {
	return time.Duration(c.DebounceLongMS) * time.Millisecond
}

// NewSchedulerFromConfig creates a scheduler honoring the config's
// pool size and debounce delays.
func NewSchedulerFromConfig(decode DecodeFunc, cfg Config) *Scheduler {
	return NewScheduler(decode,
		WithWorkers(cfg.Workers),
		WithDebounce(cfg.DebounceShort(), cfg.DebounceLong()))
}
