package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheConfig 单个缓存命名空间的容量与有效期
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// TTL 返回缓存有效期
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Config 应用配置
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Server struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	EastMoney struct {
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MaxRetry       int           `yaml:"max_retry"`
	} `yaml:"eastmoney"`

	Cache struct {
		Realtime CacheConfig `yaml:"realtime"`
		Detail   CacheConfig `yaml:"detail"`
		List     CacheConfig `yaml:"list"`
		History  CacheConfig `yaml:"history"`
	} `yaml:"cache"`

	Intraday struct {
		MarketOpen    string `yaml:"market_open"`    // 交易时段开始 HH:MM
		MarketClose   string `yaml:"market_close"`   // 交易时段结束 HH:MM
		ClearBoundary string `yaml:"clear_boundary"` // 每日清零边界 HH:MM
		KeepDays      int    `yaml:"keep_days"`      // 历史文件保留天数
		SweepCron     string `yaml:"sweep_cron"`     // 清理任务 cron 表达式
	} `yaml:"intraday"`
}

// LoadConfig 从文件加载配置，文件不存在时使用默认值
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	overrideFromEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	if env := os.Getenv("FUNDWATCH_PORT"); env != "" {
		config.Server.Port = env
	}
	if env := os.Getenv("FUNDWATCH_DATA_DIR"); env != "" {
		config.App.DataDir = env
	}
	if env := os.Getenv("FUNDWATCH_REQUEST_TIMEOUT_SEC"); env != "" {
		var sec int
		fmt.Sscanf(env, "%d", &sec)
		if sec > 0 {
			config.EastMoney.RequestTimeout = time.Duration(sec) * time.Second
		}
	}
	if env := os.Getenv("FUNDWATCH_MAX_RETRY"); env != "" {
		var n int
		fmt.Sscanf(env, "%d", &n)
		if n > 0 {
			config.EastMoney.MaxRetry = n
		}
	}
}

// applyDefaults 填充未配置项的默认值
func applyDefaults(config *Config) {
	if config.App.Name == "" {
		config.App.Name = "fundwatch"
	}
	if config.App.DataDir == "" {
		config.App.DataDir = "data"
	}
	if config.Server.Port == "" {
		config.Server.Port = "8000"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 15 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 15 * time.Second
	}
	if config.EastMoney.RequestTimeout == 0 {
		config.EastMoney.RequestTimeout = 10 * time.Second
	}
	if config.EastMoney.MaxRetry == 0 {
		config.EastMoney.MaxRetry = 3
	}

	// 缓存默认值：实时 10s、目录 30s、详情 60s、历史净值 1h
	if config.Cache.Realtime.MaxEntries == 0 {
		config.Cache.Realtime.MaxEntries = 500
	}
	if config.Cache.Realtime.TTLSeconds == 0 {
		config.Cache.Realtime.TTLSeconds = 10
	}
	if config.Cache.Detail.MaxEntries == 0 {
		config.Cache.Detail.MaxEntries = 200
	}
	if config.Cache.Detail.TTLSeconds == 0 {
		config.Cache.Detail.TTLSeconds = 60
	}
	if config.Cache.List.MaxEntries == 0 {
		config.Cache.List.MaxEntries = 1
	}
	if config.Cache.List.TTLSeconds == 0 {
		config.Cache.List.TTLSeconds = 30
	}
	if config.Cache.History.MaxEntries == 0 {
		config.Cache.History.MaxEntries = 100
	}
	if config.Cache.History.TTLSeconds == 0 {
		config.Cache.History.TTLSeconds = 3600
	}

	if config.Intraday.MarketOpen == "" {
		config.Intraday.MarketOpen = "09:30"
	}
	if config.Intraday.MarketClose == "" {
		config.Intraday.MarketClose = "15:00"
	}
	if config.Intraday.ClearBoundary == "" {
		config.Intraday.ClearBoundary = "09:00"
	}
	if config.Intraday.KeepDays == 0 {
		config.Intraday.KeepDays = 7
	}
	if config.Intraday.SweepCron == "" {
		config.Intraday.SweepCron = "0 15 9 * * *"
	}
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port 不能为空")
	}
	if c.EastMoney.RequestTimeout <= 0 {
		return fmt.Errorf("eastmoney.request_timeout 必须为正")
	}
	if c.Intraday.KeepDays < 1 {
		return fmt.Errorf("intraday.keep_days 必须大于0")
	}
	for _, v := range []string{c.Intraday.MarketOpen, c.Intraday.MarketClose, c.Intraday.ClearBoundary} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("无效的时间配置 %q: %w", v, err)
		}
	}
	return nil
}
