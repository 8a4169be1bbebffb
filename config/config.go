// file: config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config 全站配置，由 TOML 文件加载，启动时校验一次
type Config struct {
	Server struct {
		Addr string `toml:"addr" validate:"required"`
		Mode string `toml:"mode" validate:"omitempty,oneof=debug release test"`
	} `toml:"server"`

	Database struct {
		DSN          string `toml:"dsn" validate:"required"`
		MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
		MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	} `toml:"database"`

	Redis struct {
		Addr     string `toml:"addr" validate:"required"`
		Password string `toml:"password"`
		DB       int    `toml:"db" validate:"gte=0"`
	} `toml:"redis"`

	Auth struct {
		JWTSecret string `toml:"jwt_secret" validate:"required,min=16"`
		TokenTTL  string `toml:"token_ttl"`
	} `toml:"auth"`

	Upload struct {
		Dir string `toml:"dir"`
	} `toml:"upload"`

	Instance struct {
		Enabled     bool   `toml:"enabled"`
		Lifetime    string `toml:"lifetime"`
		MaxRenewals uint   `toml:"max_renewals"`
	} `toml:"instance"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	// 默认值
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./uploads"
	}
	if cfg.Instance.Lifetime == "" {
		cfg.Instance.Lifetime = "1h"
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}
	return &cfg, nil
}

// TokenTTL 解析 token 有效期，缺省 7 天
func (c *Config) TokenTTL() time.Duration {
	if d, err := time.ParseDuration(c.Auth.TokenTTL); err == nil && d > 0 {
		return d
	}
	return 7 * 24 * time.Hour
}

// InstanceLifetime 解析实例生命周期，缺省 1 小时
func (c *Config) InstanceLifetime() time.Duration {
	if d, err := time.ParseDuration(c.Instance.Lifetime); err == nil && d > 0 {
		return d
	}
	return time.Hour
}
