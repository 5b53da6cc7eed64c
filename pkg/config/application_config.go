package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration is the process-level configuration.
type ApplicationConfiguration struct {
	LogLevel   string       `yaml:"LogLevel"`
	LogPath    string       `yaml:"LogPath"`
	Prometheus BasicService `yaml:"Prometheus"`
}

// Validate checks the log level.
func (a ApplicationConfiguration) Validate() error {
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("LogLevel: %w", err)
		}
	}
	return nil
}
