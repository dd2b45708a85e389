// Package config loads and persists the daemon configuration as a JSON
// file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Storage backends.
const (
	BackendLevelDB = "leveldb"
	BackendRedis   = "redis"
)

// Config holds all daemon configuration.
type Config struct {
	DataDir   string `json:"data_dir"`
	Backend   string `json:"backend"`    // "leveldb" or "redis"
	RedisAddr string `json:"redis_addr"` // used when backend is "redis"
	RPCPort   int    `json:"rpc_port"`
	AuthToken string `json:"auth_token"` // empty → RPC auth disabled

	Admin       string `json:"admin"`        // seeds the durable admin on first start
	FeePercent  uint64 `json:"fee_percent"`  // pot percentage skimmed on settlement
	MinStake    uint64 `json:"min_stake"`    // fixed-point, 3 decimals
	JoinTimeout int64  `json:"join_timeout"` // seconds; seeds the durable value on first start

	// Alloc funds accounts on first start only. Identity → balance.
	Alloc map[string]uint64 `json:"alloc"`
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     "./data",
		Backend:     BackendLevelDB,
		RedisAddr:   "localhost:6379",
		RPCPort:     8645,
		FeePercent:  5,
		MinStake:    100, // 0.100 units
		JoinTimeout: 24 * 3600,
		Alloc:       map[string]uint64{},
	}
}

// Load reads a JSON config file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Backend != BackendLevelDB && cfg.Backend != BackendRedis {
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
