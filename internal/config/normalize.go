package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DBPath, err = expandPath(c.Paths.DBPath); err != nil {
		return fmt.Errorf("paths.db_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.PresetFile) != "" {
		if c.Paths.PresetFile, err = expandPath(c.Paths.PresetFile); err != nil {
			return fmt.Errorf("paths.preset_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeBackend() {
	c.Backend.Host = strings.TrimSpace(c.Backend.Host)
	if c.Backend.Host == "" {
		c.Backend.Host = defaultBackendHost
	}
	if c.Backend.Port == 0 {
		c.Backend.Port = defaultBackendPort
	}
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = defaultBackendTimeout
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.TailBinary = strings.TrimSpace(c.Pipeline.TailBinary)
	if c.Pipeline.TailBinary == "" {
		c.Pipeline.TailBinary = defaultTailBinary
	}
	c.Pipeline.FFmpegBinary = strings.TrimSpace(c.Pipeline.FFmpegBinary)
	if c.Pipeline.FFmpegBinary == "" {
		c.Pipeline.FFmpegBinary = defaultFFmpegBinary
	}
	c.Pipeline.SilenceBinary = strings.TrimSpace(c.Pipeline.SilenceBinary)
	if c.Pipeline.SilenceBinary == "" {
		c.Pipeline.SilenceBinary = defaultSilenceBinary
	}
	if c.Pipeline.Channels == 0 {
		c.Pipeline.Channels = defaultChannels
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
