// Package config 读取 gemroll 的 YAML 配置文件。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config gemroll 的顶层配置。配置文件是可选的，每一项都可以被
// 命令行参数覆盖。
type Config struct {
	Roll  RollConfig  `yaml:"roll"`
	Fetch FetchConfig `yaml:"fetch"`
	Log   LogConfig   `yaml:"log"`
}

// RollConfig 输出内容配置。
type RollConfig struct {
	// Items 每个订阅源保留的条目数。
	Items int `yaml:"items"`

	// Header 输出文件的页眉，支持 \n 转义。
	Header string `yaml:"header"`

	// Footer 输出文件的页脚。
	Footer string `yaml:"footer"`
}

// FetchConfig 抓取配置。
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxRedirects   int `yaml:"max_redirects"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Load 读取 YAML 配置文件并返回 Config，文件不存在时返回默认配置。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			setDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${GEMROLL_LOG_FILE}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 填充未指定的配置项。
func setDefaults(cfg *Config) {
	if cfg.Roll.Items <= 0 {
		cfg.Roll.Items = 5
	}
	if cfg.Fetch.TimeoutSeconds <= 0 {
		cfg.Fetch.TimeoutSeconds = 10
	}
	if cfg.Fetch.MaxRedirects <= 0 {
		cfg.Fetch.MaxRedirects = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
}
