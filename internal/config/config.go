// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	RPCEndpoint        string   `mapstructure:"rpc_endpoint"`
	StartSlot          uint64   `mapstructure:"start_slot"`
	TotalSupply        uint64   `mapstructure:"total_supply"`
	RewardRate         uint64   `mapstructure:"reward_rate"`
	TokenRewardRate    uint64   `mapstructure:"token_reward_rate"`
	StakingLockupSlots uint64   `mapstructure:"staking_lockup_slots"`
	SlotInterval       int      `mapstructure:"slot_interval_ms"`
	EventBufferSize    int      `mapstructure:"event_buffer_size"`
	AllowList          []string `mapstructure:"allow_list"`
	WalletsFile        string   `mapstructure:"wallets_file"`
	LogFile            string   `mapstructure:"log_file"`
	DebugLogging       bool     `mapstructure:"debug_logging"`
}

const (
	DefaultTotalSupply     = 1_000_000_000_000_000 // 100M tokens at 1e7 microtokens
	DefaultRewardRate      = 2_500_000
	DefaultSlotInterval    = 400 // ms, one Solana slot
	DefaultEventBufferSize = 256
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"total_supply":      DefaultTotalSupply,
		"reward_rate":       DefaultRewardRate,
		"slot_interval_ms":  DefaultSlotInterval,
		"event_buffer_size": DefaultEventBufferSize,
		"log_file":          "farmd.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.TotalSupply == 0 {
		return errors.New("total_supply must be positive")
	}
	if cfg.SlotInterval <= 0 {
		return errors.New("invalid slot_interval_ms")
	}
	if cfg.EventBufferSize <= 0 {
		return errors.New("invalid event_buffer_size")
	}
	if cfg.RPCEndpoint != "" {
		parsed, err := url.Parse(cfg.RPCEndpoint)
		if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
			return errors.New("invalid RPC endpoint URL")
		}
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("HASHFARM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if endpoint := v.GetString("RPC_ENDPOINT"); endpoint != "" {
		cfg.RPCEndpoint = endpoint
	}
	if wallets := v.GetString("WALLETS_FILE"); wallets != "" {
		cfg.WalletsFile = wallets
	}
	return nil
}
