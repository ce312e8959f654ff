// Package config loads b2sum defaults from a config file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	AlgorithmBLAKE2b = "blake2b"
	AlgorithmBLAKE2s = "blake2s"

	EncodingHex    = "hex"
	EncodingBase64 = "base64"

	// EnvPrefix is prepended to upper-cased keys, so "jobs" reads B2SUM_JOBS.
	EnvPrefix = "B2SUM"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the defaults a command-line flag can override.
type Config struct {
	Algorithm string `mapstructure:"algorithm"`
	Size      int    `mapstructure:"size"` // 0 selects the algorithm's maximum
	Jobs      int    `mapstructure:"jobs"`
	Encoding  string `mapstructure:"encoding"`
	Person    string `mapstructure:"person"` // hex
}

// New returns a viper instance with the defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("algorithm", AlgorithmBLAKE2b)
	v.SetDefault("size", 0)
	v.SetDefault("jobs", 8)
	v.SetDefault("encoding", EncodingHex)
	v.SetDefault("person", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v, then unmarshals and
// validates the result. An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values that can be checked without building a hash.
func (c *Config) Validate() error {
	c.Algorithm = strings.ToLower(c.Algorithm)
	switch c.Algorithm {
	case AlgorithmBLAKE2b, AlgorithmBLAKE2s:
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, c.Algorithm)
	}

	c.Encoding = strings.ToLower(c.Encoding)
	switch c.Encoding {
	case EncodingHex, EncodingBase64:
	default:
		return fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, c.Encoding)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be positive, got %d", ErrInvalidConfig, c.Jobs)
	}
	if c.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidConfig, c.Size)
	}
	return nil
}
