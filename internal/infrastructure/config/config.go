package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/videocc/videocc/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Guard     sharedConfig.GuardConfig     `mapstructure:"guard"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads an optional .env file, then configs/config.yaml, then VIDEOCC_*
// environment variables. A missing config file is not an error; defaults apply.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("VIDEOCC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "videocc.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "videocc_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "videocc")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.purchase_limit", 20)
	v.SetDefault("ratelimit.window_seconds", 60)

	// Guard defaults
	v.SetDefault("guard.restricted_gender", "male")
	v.SetDefault("guard.privileged_gender", "female")

	v.SetDefault("guard.quota.max_calls_per_day", 3)
	v.SetDefault("guard.quota.max_call_seconds_per_day", 60)
	v.SetDefault("guard.quota.max_messages_per_day", 4)
	v.SetDefault("guard.quota.max_contacts_per_day", 2)

	v.SetDefault("guard.fraud.store", "memory")
	v.SetDefault("guard.fraud.max_purchases_per_hour", 3)
	v.SetDefault("guard.fraud.max_users_per_wallet", 2)
	v.SetDefault("guard.fraud.max_purchases_per_ip_per_day", 5)
	v.SetDefault("guard.fraud.max_daily_spend_usd", 100)
	v.SetDefault("guard.fraud.min_amount_usd", 1)
	v.SetDefault("guard.fraud.max_amount_usd", 500)
	v.SetDefault("guard.fraud.wallet_chain", "trc")
	v.SetDefault("guard.fraud.retention_days", 30)
	v.SetDefault("guard.fraud.suspicious_wallet_users", 2)
	v.SetDefault("guard.fraud.high_volume_ip_purchases", 10)

	v.SetDefault("guard.reserve.store", "memory")
	v.SetDefault("guard.reserve.initial_balance", 1_000_000_000)
	v.SetDefault("guard.reserve.redis_key", "videocc:reserve:balance")

	v.SetDefault("guard.billing.cost_per_minute", "1.00")

	v.SetDefault("guard.jobs.prune_history_cron", "0 * * * *")
	v.SetDefault("guard.jobs.expire_vip_cron", "*/10 * * * *")
}
