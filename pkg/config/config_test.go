package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "不存在.yaml"))
	require.NoError(t, err)

	require.Equal(t, "fundwatch", cfg.App.Name)
	require.Equal(t, "data", cfg.App.DataDir)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.EastMoney.RequestTimeout)
	require.Equal(t, 3, cfg.EastMoney.MaxRetry)

	require.Equal(t, 500, cfg.Cache.Realtime.MaxEntries)
	require.Equal(t, 10*time.Second, cfg.Cache.Realtime.TTL())
	require.Equal(t, 200, cfg.Cache.Detail.MaxEntries)
	require.Equal(t, time.Minute, cfg.Cache.Detail.TTL())
	require.Equal(t, 1, cfg.Cache.List.MaxEntries)
	require.Equal(t, 30*time.Second, cfg.Cache.List.TTL())
	require.Equal(t, 100, cfg.Cache.History.MaxEntries)
	require.Equal(t, time.Hour, cfg.Cache.History.TTL())

	require.Equal(t, "09:30", cfg.Intraday.MarketOpen)
	require.Equal(t, "15:00", cfg.Intraday.MarketClose)
	require.Equal(t, "09:00", cfg.Intraday.ClearBoundary)
	require.Equal(t, 7, cfg.Intraday.KeepDays)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
eastmoney:
  max_retry: 5
cache:
  realtime:
    max_entries: 50
    ttl_seconds: 5
intraday:
  keep_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 5, cfg.EastMoney.MaxRetry)
	require.Equal(t, 50, cfg.Cache.Realtime.MaxEntries)
	require.Equal(t, 5*time.Second, cfg.Cache.Realtime.TTL())
	require.Equal(t, 30, cfg.Intraday.KeepDays)

	// 未配置的项仍取默认值
	require.Equal(t, 200, cfg.Cache.Detail.MaxEntries)
	require.Equal(t, "09:30", cfg.Intraday.MarketOpen)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FUNDWATCH_PORT", "7777")
	t.Setenv("FUNDWATCH_DATA_DIR", "/tmp/fw-data")
	t.Setenv("FUNDWATCH_REQUEST_TIMEOUT_SEC", "20")
	t.Setenv("FUNDWATCH_MAX_RETRY", "6")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	require.Equal(t, "7777", cfg.Server.Port)
	require.Equal(t, "/tmp/fw-data", cfg.App.DataDir)
	require.Equal(t, 20*time.Second, cfg.EastMoney.RequestTimeout)
	require.Equal(t, 6, cfg.EastMoney.MaxRetry)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Intraday.MarketOpen = "9点半"
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Intraday.KeepDays = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.EastMoney.RequestTimeout = 0
	require.Error(t, bad.Validate())
}
