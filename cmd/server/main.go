package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"fundwatch/pkg/api"
	"fundwatch/pkg/config"
	"fundwatch/pkg/eastmoney"
	"fundwatch/pkg/intraday"
	"fundwatch/pkg/service"
	"fundwatch/pkg/userdata"
)

func main() {
	log.Println("启动基金监控服务...")

	cfgPath := os.Getenv("FUNDWATCH_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}

	// 数据网关与业务服务
	client := eastmoney.NewClient(cfg)
	fundService := service.NewFundService(client)

	// 本地存储
	intradayStore, err := intraday.NewStore(
		filepath.Join(cfg.App.DataDir, "intraday"),
		cfg.Intraday.MarketOpen,
		cfg.Intraday.MarketClose,
		cfg.Intraday.ClearBoundary,
	)
	if err != nil {
		log.Fatalf("初始化日内数据存储失败: %v", err)
	}
	userdataStore, err := userdata.NewStore(cfg.App.DataDir)
	if err != nil {
		log.Fatalf("初始化用户数据存储失败: %v", err)
	}

	// 每日清理过期的日内数据文件
	sweeper := cron.New(cron.WithSeconds())
	_, err = sweeper.AddFunc(cfg.Intraday.SweepCron, func() {
		deleted := intradayStore.Sweep(cfg.Intraday.KeepDays)
		log.Printf("日内数据清理完成，删除 %d 个过期文件", deleted)
	})
	if err != nil {
		log.Fatalf("注册清理任务失败: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// 创建并启动API服务器
	handlers := api.NewHandlers(fundService, intradayStore, userdataStore)
	server := api.NewServer(cfg.Server.Port, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	server.SetupRoutes(handlers)
	server.Start()
}
