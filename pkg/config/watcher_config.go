package config

import (
	"errors"
	"time"
)

// Watcher is the block watcher configuration.
type Watcher struct {
	Chain        string        `yaml:"Chain"`
	Address      string        `yaml:"Address"`
	PollInterval time.Duration `yaml:"PollInterval"`
	// DBPath is the BoltDB file to keep progress in, progress is not
	// persisted if empty.
	DBPath      string `yaml:"DBPath"`
	StartHeight uint64 `yaml:"StartHeight"`
}

// Validate checks watcher settings.
func (w Watcher) Validate() error {
	if w.PollInterval < 0 {
		return errors.New("negative PollInterval")
	}
	return nil
}
