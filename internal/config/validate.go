package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBlink(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBlink() error {
	if c.Blink.MinWait <= 0 {
		return fmt.Errorf("blink.min_wait must be positive, got %v", c.Blink.MinWait)
	}
	if c.Blink.MaxWait < c.Blink.MinWait {
		return fmt.Errorf("blink.max_wait (%v) must be at least blink.min_wait (%v)", c.Blink.MaxWait, c.Blink.MinWait)
	}
	if c.Blink.FrameRate <= 0 {
		return fmt.Errorf("blink.frame_rate must be positive, got %d", c.Blink.FrameRate)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Codec == "" {
		return errors.New("video.codec must not be empty")
	}
	if c.Video.PixelFormat == "" {
		return errors.New("video.pixel_format must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
