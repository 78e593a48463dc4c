// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Admin    AdminConfig    `mapstructure:"admin"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// DatabaseConfig 存储数据库连接配置。
// URL 的 scheme 决定驱动：sqlite://、mysql://、postgres://。
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig 存储大语言模型（OpenRouter，OpenAI 兼容接口）相关的配置。
// APIKey 为空时助手进入离线模式。
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Referrer   string              `mapstructure:"referrer"`
	AppTitle   string              `mapstructure:"app_title"`
	JSONMode   bool                `mapstructure:"json_mode"`
	Timeout    time.Duration       `mapstructure:"timeout"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// AdminConfig 存储管理后台登录配置，PasswordHash 为 bcrypt 哈希。
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AdminAuthEnabled 只有同时配置了密码哈希与签名密钥时才启用管理员鉴权。
func (c *Config) AdminAuthEnabled() bool {
	return c.Admin.PasswordHash != "" && c.JWT.Secret != ""
}

// 默认值
var defaults = map[string]interface{}{
	"server.port":                   "8080",
	"server.mode":                   "release",
	"log.level":                     "info",
	"log.format":                    "console",
	"log.output_path":               "",
	"database.url":                  "sqlite://data/app.db",
	"llm.api_key":                   "",
	"llm.base_url":                  "https://openrouter.ai/api/v1",
	"llm.model":                     "mistralai/mistral-7b-instruct",
	"llm.referrer":                  "https://localhost",
	"llm.app_title":                 "fynd-feedback-app",
	"llm.json_mode":                 true,
	"llm.timeout":                   30 * time.Second,
	"llm.generation.temperature":    0.4,
	"llm.generation.max_tokens":     180,
	"admin.username":                "admin",
	"admin.password_hash":           "",
	"jwt.secret":                    "",
	"jwt.access_token_expire_hours": 12,
	"cors.allow_origins":            []string{"*"},
}

// 环境变量覆盖，多个变量按先后顺序取第一个非空值
var envBindings = map[string][]string{
	"server.port":         {"SERVER_PORT", "PORT"},
	"server.mode":         {"GIN_MODE"},
	"log.level":           {"LOG_LEVEL"},
	"log.format":          {"LOG_FORMAT"},
	"log.output_path":     {"LOG_OUTPUT_PATH"},
	"database.url":        {"DATABASE_URL"},
	"llm.api_key":         {"OPENROUTER_API_KEY"},
	"llm.base_url":        {"OPENROUTER_BASE_URL"},
	"llm.model":           {"OPENROUTER_MODEL"},
	"llm.referrer":        {"OPENROUTER_REFERRER"},
	"llm.app_title":       {"OPENROUTER_APP"},
	"llm.json_mode":       {"USE_JSON_FORMAT"},
	"llm.timeout":         {"LLM_TIMEOUT"},
	"admin.username":      {"ADMIN_USERNAME"},
	"admin.password_hash": {"ADMIN_PASSWORD_HASH"},
	"jwt.secret":          {"JWT_SECRET"},
	"cors.allow_origins":  {"CORS_ALLOW_ORIGINS"},
}

// Load 按 默认值 < 配置文件 < 环境变量 的优先级构建配置。
// configPath 指向的文件不存在时只使用默认值和环境变量。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("绑定环境变量失败 %s: %w", key, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("检查配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return &cfg, nil
}
