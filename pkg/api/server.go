package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string, readTimeout, writeTimeout time.Duration) *Server {
	router := gin.Default()

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		// 基金数据
		api.GET("/funds/search", handlers.SearchFunds)
		api.GET("/funds/:code/realtime", handlers.GetFundRealtime)
		api.POST("/funds/realtime/batch", handlers.GetFundsRealtimeBatch)
		api.GET("/funds/:code/detail", handlers.GetFundDetail)
		api.GET("/funds/:code/holdings", handlers.GetFundHoldings)
		api.GET("/funds/:code/nav-history", handlers.GetNavHistory)
		api.POST("/funds/calculate-holdings", handlers.CalculateHoldings)
		api.POST("/funds/calculate-daily-profit", handlers.CalculateDailyProfit)

		// 日内走势
		api.POST("/intraday/save", handlers.SaveIntraday)
		api.GET("/intraday/:code", handlers.GetIntraday)
		api.POST("/intraday/batch", handlers.GetIntradayBatch)
		api.POST("/intraday/clear", handlers.ClearIntraday)

		// 用户数据
		api.GET("/watchlist", handlers.GetWatchlist)
		api.POST("/watchlist", handlers.AddWatchFund)
		api.PUT("/watchlist/:id", handlers.UpdateWatchFund)
		api.DELETE("/watchlist/:id", handlers.RemoveWatchFund)
		api.GET("/groups", handlers.GetGroups)
		api.POST("/groups", handlers.CreateGroup)
		api.PUT("/groups/:id", handlers.RenameGroup)
		api.DELETE("/groups/:id", handlers.DeleteGroup)
		api.GET("/settings", handlers.GetSettings)
		api.PUT("/settings", handlers.SaveSettings)
	}
}

// Start 启动服务器并阻塞到收到退出信号
func (s *Server) Start() {
	go func() {
		log.Printf("API服务器启动在 %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v\n", err)
	}

	log.Println("服务器已关闭")
}
