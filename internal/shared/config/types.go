package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	Issuer           string `mapstructure:"issuer"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig throttles abusive clients on the purchase routes before
// any fraud bookkeeping happens.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	PurchaseLimit int  `mapstructure:"purchase_limit"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

func (r *RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// QuotaConfig holds daily caps for members that are not exempt.
type QuotaConfig struct {
	MaxCallsPerDay       int `mapstructure:"max_calls_per_day"`
	MaxCallSecondsPerDay int `mapstructure:"max_call_seconds_per_day"`
	MaxMessagesPerDay    int `mapstructure:"max_messages_per_day"`
	MaxContactsPerDay    int `mapstructure:"max_contacts_per_day"`
}

type FraudConfig struct {
	// Store selects the purchase history backend: "memory" or "redis".
	Store                   string  `mapstructure:"store"`
	MaxPurchasesPerHour     int     `mapstructure:"max_purchases_per_hour"`
	MaxUsersPerWallet       int     `mapstructure:"max_users_per_wallet"`
	MaxPurchasesPerIPPerDay int     `mapstructure:"max_purchases_per_ip_per_day"`
	MaxDailySpendUSD        float64 `mapstructure:"max_daily_spend_usd"`
	MinAmountUSD            float64 `mapstructure:"min_amount_usd"`
	MaxAmountUSD            float64 `mapstructure:"max_amount_usd"`
	WalletChain             string  `mapstructure:"wallet_chain"`
	RetentionDays           int     `mapstructure:"retention_days"`
	SuspiciousWalletUsers   int     `mapstructure:"suspicious_wallet_users"`
	HighVolumeIPPurchases   int     `mapstructure:"high_volume_ip_purchases"`
}

func (f *FraudConfig) Retention() time.Duration {
	return time.Duration(f.RetentionDays) * 24 * time.Hour
}

type ReserveConfig struct {
	// Store selects the ledger backend: "memory" or "redis".
	Store          string `mapstructure:"store"`
	InitialBalance int64  `mapstructure:"initial_balance"`
	RedisKey       string `mapstructure:"redis_key"`
}

type BillingConfig struct {
	CostPerMinute string `mapstructure:"cost_per_minute"`
}

type JobsConfig struct {
	PruneHistoryCron string `mapstructure:"prune_history_cron"`
	ExpireVIPCron    string `mapstructure:"expire_vip_cron"`
}

// GuardConfig groups the product policy knobs of the messaging, call and
// purchase guards.
type GuardConfig struct {
	RestrictedGender string        `mapstructure:"restricted_gender"`
	PrivilegedGender string        `mapstructure:"privileged_gender"`
	Quota            QuotaConfig   `mapstructure:"quota"`
	Fraud            FraudConfig   `mapstructure:"fraud"`
	Reserve          ReserveConfig `mapstructure:"reserve"`
	Billing          BillingConfig `mapstructure:"billing"`
	Jobs             JobsConfig    `mapstructure:"jobs"`
}
