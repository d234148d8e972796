// Package config holds the broker configuration consumed by the bridge: the
// cluster identity, the placement service addresses, the admin HTTP listener
// and the optional Kafka audit trail. It is read from a YAML file and
// overridden by MANED_BRIDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "MANED_BRIDGE_"

const (
	DefaultClusterName = "mqtt-broker"
	DefaultHTTPPort    = 8080
	DefaultDialTimeout = 5 * time.Second
	DefaultAuditTopic  = "maned-bridge-audit"
)

// PlacementConfig locates the placement/coordination service.
type PlacementConfig struct {
	Server      []string      `yaml:"server" json:"server" env:"SERVER" envSeparator:","`
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" json:"dial_timeout,omitempty" env:"DIAL_TIMEOUT"`
}

// HTTPConfig holds the admin listener settings.
type HTTPConfig struct {
	Port int `yaml:"port,omitempty" json:"port,omitempty" env:"PORT"`
}

// AuditConfig enables the Kafka audit trail when Brokers is not empty.
type AuditConfig struct {
	Brokers  []string `yaml:"brokers,omitempty" json:"brokers,omitempty" env:"BROKERS" envSeparator:","`
	Topic    string   `yaml:"topic,omitempty" json:"topic,omitempty" env:"TOPIC"`
	ClientID string   `yaml:"client_id,omitempty" json:"client_id,omitempty" env:"CLIENT_ID"`
}

// Enabled reports whether audit records should be produced.
func (a AuditConfig) Enabled() bool {
	return len(a.Brokers) > 0
}

// BrokerConfig is the full configuration snapshot.
type BrokerConfig struct {
	ClusterName string          `yaml:"cluster_name" json:"cluster_name" env:"CLUSTER_NAME"`
	LogLevel    string          `yaml:"log_level,omitempty" json:"log_level,omitempty" env:"LOG_LEVEL"`
	Placement   PlacementConfig `yaml:"placement" json:"placement" envPrefix:"PLACEMENT_"`
	HTTP        HTTPConfig      `yaml:"http,omitempty" json:"http,omitempty" envPrefix:"HTTP_"`
	Audit       AuditConfig     `yaml:"audit,omitempty" json:"audit,omitempty" envPrefix:"AUDIT_"`
}

var (
	// ErrMissingClusterName is returned by Validate when no cluster identity is set.
	ErrMissingClusterName = errors.New("cluster_name is required")

	// ErrMissingPlacementServer is returned by Validate when no placement address is set.
	ErrMissingPlacementServer = errors.New("placement.server requires at least one address")
)

// ReadConfig loads the YAML file at path, applies environment overrides and
// fills defaults.
func ReadConfig(path string) (BrokerConfig, error) {
	var cfg BrokerConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// FromEnv builds a configuration from MANED_BRIDGE_* variables and defaults
// alone, for when no file can be read.
func FromEnv() (BrokerConfig, error) {
	var cfg BrokerConfig
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// WriteConfig persists cfg as YAML.
func WriteConfig(path string, cfg BrokerConfig) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv overrides cfg with any MANED_BRIDGE_* variables that are set.
// Unset variables leave the file values untouched.
func ApplyEnv(cfg *BrokerConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero values.
func (c *BrokerConfig) ApplyDefaults() {
	if c.ClusterName == "" {
		c.ClusterName = DefaultClusterName
	}
	if c.Placement.DialTimeout <= 0 {
		c.Placement.DialTimeout = DefaultDialTimeout
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = DefaultAuditTopic
	}
}

// Validate checks the fields every directory call depends on.
func (c BrokerConfig) Validate() error {
	if c.ClusterName == "" {
		return ErrMissingClusterName
	}
	if len(c.Placement.Server) == 0 {
		return ErrMissingPlacementServer
	}
	return nil
}

// Clone returns a deep copy so snapshots handed to callers never alias the
// repository state.
func (c BrokerConfig) Clone() BrokerConfig {
	out := c
	out.Placement.Server = slices.Clone(c.Placement.Server)
	out.Audit.Brokers = slices.Clone(c.Audit.Brokers)
	return out
}
