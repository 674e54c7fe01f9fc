// Package config manages application configuration.
package config

import (
	"fmt"
	"strconv"
)

// Config represents the application configuration.
type Config struct {
	Decoder string       `yaml:"decoder"`
	JPEG    JPEGConfig   `yaml:"jpeg"`
	PNG     PNGConfig    `yaml:"png"`
	Resize  ResizeConfig `yaml:"resize"`
}

// JPEGConfig contains JPEG output options.
type JPEGConfig struct {
	Quality int `yaml:"quality"`
}

// PNGConfig contains PNG output options.
type PNGConfig struct {
	Compression string `yaml:"compression"` // default, none, speed, best
}

// ResizeConfig bounds the output size. Zero disables a bound.
type ResizeConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// DefaultConfig returns the default configuration. It reproduces the codec
// libraries' defaults and never resizes.
func DefaultConfig() *Config {
	return &Config{
		Decoder: "x",
		JPEG: JPEGConfig{
			Quality: 75,
		},
		PNG: PNGConfig{
			Compression: "default",
		},
	}
}

// Environment variables that override the configuration file.
const (
	EnvDecoder = "WEBPCONV_DECODER"
	EnvQuality = "WEBPCONV_QUALITY"
	EnvVerbose = "WEBPCONV_VERBOSE"
)

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() error {
	c.Decoder = GetEnvOrDefault(EnvDecoder, c.Decoder)
	if v := GetEnvOrDefault(EnvQuality, ""); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvQuality, v)
		}
		c.JPEG.Quality = q
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.JPEG.Quality < 0 || c.JPEG.Quality > 100 {
		return fmt.Errorf("jpeg.quality must be in 0-100, got %d", c.JPEG.Quality)
	}
	switch c.PNG.Compression {
	case "", "default", "none", "speed", "best":
	default:
		return fmt.Errorf("png.compression must be one of default, none, speed, best, got %q", c.PNG.Compression)
	}
	if c.Resize.MaxWidth < 0 || c.Resize.MaxHeight < 0 {
		return fmt.Errorf("resize bounds must not be negative")
	}
	return nil
}
