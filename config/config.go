// Package config holds the cache's tunable knobs and their yaml form.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml strings like
// "90s" or "1h30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// TierConfig sizes one tier.
type TierConfig struct {
	CapacityBytes int64    `yaml:"capacity_bytes"`
	DefaultTTL    Duration `yaml:"default_ttl"`
}

// Config is the full cache configuration.
type Config struct {
	Hot     TierConfig `yaml:"hot"`
	Session TierConfig `yaml:"session"`
	Durable TierConfig `yaml:"durable"`

	// CompressThresholdBytes is the serialized size past which payloads
	// are compressed before storage. Zero means "use the default"; set a
	// negative value to disable compression.
	CompressThresholdBytes int64 `yaml:"compress_threshold_bytes"`

	// PromoteThreshold is the read count that moves an entry to hot.
	PromoteThreshold int64 `yaml:"promote_threshold"`

	// SweepInterval is how often the background expiry sweep runs.
	SweepInterval Duration `yaml:"sweep_interval"`

	// KeyPrefix namespaces every key written to the durable store. The
	// prefix is owned exclusively by this cache.
	KeyPrefix string `yaml:"key_prefix"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Hot:     TierConfig{CapacityBytes: 1 << 20, DefaultTTL: Duration(5 * time.Minute)},
		Session: TierConfig{CapacityBytes: 4 << 20, DefaultTTL: Duration(30 * time.Minute)},
		Durable: TierConfig{CapacityBytes: 16 << 20, DefaultTTL: Duration(24 * time.Hour)},

		CompressThresholdBytes: 10 << 10,
		PromoteThreshold:       5,
		SweepInterval:          Duration(60 * time.Second),
		KeyPrefix:              "tiercache:",
	}
}

// Load reads a yaml file over the defaults. Fields absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize backfills zero fields from the defaults so a partially
// specified config never produces a tier with no budget or TTL.
func (c *Config) Normalize() {
	def := Default()
	fillTier(&c.Hot, def.Hot)
	fillTier(&c.Session, def.Session)
	fillTier(&c.Durable, def.Durable)
	if c.CompressThresholdBytes == 0 {
		c.CompressThresholdBytes = def.CompressThresholdBytes
	}
	if c.PromoteThreshold <= 0 {
		c.PromoteThreshold = def.PromoteThreshold
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = def.SweepInterval
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = def.KeyPrefix
	}
}

func fillTier(t *TierConfig, def TierConfig) {
	if t.CapacityBytes <= 0 {
		t.CapacityBytes = def.CapacityBytes
	}
	if t.DefaultTTL <= 0 {
		t.DefaultTTL = def.DefaultTTL
	}
}
