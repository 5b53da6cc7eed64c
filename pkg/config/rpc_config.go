package config

import (
	"errors"
	"net/url"
	"time"
)

// RPC is the node RPC client configuration.
type RPC struct {
	Endpoint       string        `yaml:"Endpoint"`
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
	DialTimeout    time.Duration `yaml:"DialTimeout"`
	// MaxRetries is the number of repeated attempts after a timeout or a
	// transport failure, negative disables retries.
	MaxRetries int `yaml:"MaxRetries"`
	// BroadcastRetries is MaxRetries for transaction broadcasts.
	BroadcastRetries       int   `yaml:"BroadcastRetries"`
	MaxConcurrentTokenData int64 `yaml:"MaxConcurrentTokenData"`
}

// Validate checks RPC settings.
func (r RPC) Validate() error {
	if r.Endpoint != "" {
		u, err := url.Parse(r.Endpoint)
		if err != nil {
			return err
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("Endpoint must be an http(s) URL")
		}
	}
	if r.RequestTimeout < 0 || r.DialTimeout < 0 {
		return errors.New("negative timeout")
	}
	if r.MaxConcurrentTokenData < 0 {
		return errors.New("negative MaxConcurrentTokenData")
	}
	return nil
}
