package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	OpenAI OpenAIConfig `koanf:"openai"`
	Auth   AuthConfig   `koanf:"auth"`
	Quota  QuotaConfig  `koanf:"quota"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type AuthConfig struct {
	// AppSecret is the literal the X-PEZO-APP header must carry. This is a
	// weak trust boundary, not cryptographic authentication.
	AppSecret string `koanf:"app_secret"`
}

type QuotaConfig struct {
	// RedisAddr is the counter store address. Empty disables rate limiting.
	RedisAddr  string `koanf:"redis_addr"`
	DailyLimit int    `koanf:"daily_limit"`
}

// Load reads an optional YAML config file, then overlays PEZO_-prefixed
// environment variables. Double underscores delimit nesting, so
// PEZO_OPENAI__API_KEY maps to openai.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("PEZO_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PEZO_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("openai.model") {
		k.Set("openai.model", "gpt-4o-mini")
	}
	if !k.Exists("openai.base_url") {
		k.Set("openai.base_url", "https://api.openai.com/v1")
	}
	if !k.Exists("auth.app_secret") {
		k.Set("auth.app_secret", "pezo_v1")
	}
	if !k.Exists("quota.daily_limit") {
		k.Set("quota.daily_limit", 3)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
