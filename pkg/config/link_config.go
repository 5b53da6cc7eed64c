package config

import (
	"errors"
	"fmt"
	"time"
)

// Link is the wallet link configuration.
type Link struct {
	Host    string `yaml:"Host"`
	DappID  string `yaml:"DappID"`
	Version int    `yaml:"Version"`
	// Platform and Signature are names, like "Phantasma" and "Ed25519".
	Platform       string        `yaml:"Platform"`
	Signature      string        `yaml:"Signature"`
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
}

// Validate checks link settings.
func (l Link) Validate() error {
	if l.Version < 0 || l.Version > 2 {
		return fmt.Errorf("unsupported Version %d", l.Version)
	}
	if l.RequestTimeout < 0 {
		return errors.New("negative RequestTimeout")
	}
	return nil
}
