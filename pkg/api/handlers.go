package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"fundwatch/pkg/intraday"
	"fundwatch/pkg/model"
	"fundwatch/pkg/service"
	"fundwatch/pkg/userdata"
)

// 批量估值单次最多支持的基金数
const maxBatchCodes = 100

// Handlers API处理程序
type Handlers struct {
	funds    *service.FundService
	intraday *intraday.Store
	userdata *userdata.Store
}

// NewHandlers 创建新的API处理程序
func NewHandlers(funds *service.FundService, intradayStore *intraday.Store, userdataStore *userdata.Store) *Handlers {
	return &Handlers{
		funds:    funds,
		intraday: intradayStore,
		userdata: userdataStore,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// SearchFunds 搜索基金处理程序
func (h *Handlers) SearchFunds(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "keyword参数不能为空",
		})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit必须在1到100之间",
			})
			return
		}
		limit = n
	}

	results := h.funds.SearchFunds(c.Request.Context(), keyword, limit)
	c.JSON(http.StatusOK, gin.H{
		"funds": results,
		"count": len(results),
	})
}

// GetFundRealtime 获取基金实时估值处理程序
func (h *Handlers) GetFundRealtime(c *gin.Context) {
	code := c.Param("code")
	result := h.funds.GetFundRealtime(c.Request.Context(), code)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "基金 " + code + " 不存在",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFundsRealtimeBatch 批量获取实时估值处理程序，用于自选列表刷新
func (h *Handlers) GetFundsRealtimeBatch(c *gin.Context) {
	var req model.BatchRealtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	if len(req.Codes) > maxBatchCodes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "最多支持100只基金",
		})
		return
	}

	funds := h.funds.GetFundsRealtimeBatch(c.Request.Context(), req.Codes)
	if funds == nil {
		funds = []*model.FundRealtime{}
	}
	c.JSON(http.StatusOK, model.BatchRealtimeResponse{
		Funds:      funds,
		UpdateTime: time.Now().Format("2006-01-02 15:04:05"),
	})
}

// GetFundDetail 获取基金详情处理程序
func (h *Handlers) GetFundDetail(c *gin.Context) {
	code := c.Param("code")
	result := h.funds.GetFundDetail(c.Request.Context(), code)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "基金 " + code + " 不存在",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFundHoldings 获取基金持仓处理程序
func (h *Handlers) GetFundHoldings(c *gin.Context) {
	code := c.Param("code")
	c.JSON(http.StatusOK, h.funds.GetFundHoldings(c.Request.Context(), code))
}

// GetNavHistory 获取历史净值处理程序
func (h *Handlers) GetNavHistory(c *gin.Context) {
	code := c.Param("code")

	page := 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page必须为正整数"})
			return
		}
		page = n
	}
	perPage := 20
	if v := c.Query("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "per_page必须在1到100之间"})
			return
		}
		perPage = n
	}

	history := h.funds.GetNavHistory(c.Request.Context(), code, page, perPage,
		c.Query("start_date"), c.Query("end_date"))
	c.JSON(http.StatusOK, history)
}

// CalculateHoldings 计算用户持仓处理程序
func (h *Handlers) CalculateHoldings(c *gin.Context) {
	amount, err1 := strconv.ParseFloat(c.Query("amount"), 64)
	profit, err2 := strconv.ParseFloat(c.Query("profit"), 64)
	currentNav, err3 := strconv.ParseFloat(c.Query("current_nav"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "amount/profit/current_nav 必须为数值",
		})
		return
	}
	c.JSON(http.StatusOK, service.CalculateUserHoldings(amount, profit, currentNav))
}

// CalculateDailyProfit 计算当日收益处理程序
func (h *Handlers) CalculateDailyProfit(c *gin.Context) {
	shares, err1 := strconv.ParseFloat(c.Query("shares"), 64)
	yesterdayNav, err2 := strconv.ParseFloat(c.Query("yesterday_nav"), 64)
	todayEstimateNav, err3 := strconv.ParseFloat(c.Query("today_estimate_nav"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "shares/yesterday_nav/today_estimate_nav 必须为数值",
		})
		return
	}
	c.JSON(http.StatusOK, service.CalculateDailyProfit(shares, yesterdayNav, todayEstimateNav))
}

// SaveIntradayRequest 保存日内数据请求
type SaveIntradayRequest struct {
	Changes map[string]*float64 `json:"changes" binding:"required"`
}

// SaveIntraday 保存日内涨跌幅处理程序，每次轮询刷新时调用
// 交易时段外的写入不报错，返回 success=false。
func (h *Handlers) SaveIntraday(c *gin.Context) {
	var req SaveIntradayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	err := h.intraday.SaveBatch(req.Changes)
	if err != nil && !errors.Is(err, intraday.ErrMarketClosed) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存日内数据失败: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": err == nil,
	})
}

// GetIntraday 获取单只基金日内走势处理程序
func (h *Handlers) GetIntraday(c *gin.Context) {
	c.JSON(http.StatusOK, h.intraday.Get(c.Param("code")))
}

// GetIntradayBatchRequest 批量获取日内数据请求
type GetIntradayBatchRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// GetIntradayBatch 批量获取日内走势处理程序
func (h *Handlers) GetIntradayBatch(c *gin.Context) {
	var req GetIntradayBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": h.intraday.GetBatch(req.Codes),
	})
}

// ClearIntraday 手动清零今日日内数据处理程序
func (h *Handlers) ClearIntraday(c *gin.Context) {
	err := h.intraday.Clear()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "清零日内数据失败: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetWatchlist 获取自选基金列表处理程序
func (h *Handlers) GetWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, h.userdata.Watchlist())
}

// AddWatchFundRequest 添加自选基金请求
type AddWatchFundRequest struct {
	Code    string   `json:"code" binding:"required"`
	Name    string   `json:"name"`
	GroupID string   `json:"groupId"`
	Amount  *float64 `json:"amount"`
	Profit  *float64 `json:"profit"`
}

// AddWatchFund 添加自选基金处理程序
func (h *Handlers) AddWatchFund(c *gin.Context) {
	var req AddWatchFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	fund, err := h.userdata.AddFund(model.WatchFund{
		Code:    req.Code,
		Name:    req.Name,
		GroupID: req.GroupID,
		Amount:  req.Amount,
		Profit:  req.Profit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存自选基金失败: " + err.Error(),
		})
		return
	}
	if fund == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "基金 " + req.Code + " 已在自选中",
		})
		return
	}
	c.JSON(http.StatusOK, fund)
}

// UpdateWatchFund 更新自选基金处理程序
func (h *Handlers) UpdateWatchFund(c *gin.Context) {
	var updates userdata.WatchFundUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	fund, err := h.userdata.UpdateFund(c.Param("id"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "更新自选基金失败: " + err.Error(),
		})
		return
	}
	if fund == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "自选基金不存在"})
		return
	}
	c.JSON(http.StatusOK, fund)
}

// RemoveWatchFund 删除自选基金处理程序
func (h *Handlers) RemoveWatchFund(c *gin.Context) {
	removed, err := h.userdata.RemoveFund(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "删除自选基金失败: " + err.Error(),
		})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "自选基金不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetGroups 获取分组列表处理程序
func (h *Handlers) GetGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.userdata.Groups())
}

// GroupRequest 分组创建/重命名请求
type GroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroup 创建分组处理程序
func (h *Handlers) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	group, err := h.userdata.CreateGroup(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "创建分组失败: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, group)
}

// RenameGroup 重命名分组处理程序
func (h *Handlers) RenameGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	group, err := h.userdata.RenameGroup(c.Param("id"), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "重命名分组失败: " + err.Error(),
		})
		return
	}
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "分组不存在"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup 删除分组处理程序，组内基金移回默认分组
func (h *Handlers) DeleteGroup(c *gin.Context) {
	id := c.Param("id")
	if id == userdata.DefaultGroupID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "默认分组不可删除"})
		return
	}
	deleted, err := h.userdata.DeleteGroup(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "删除分组失败: " + err.Error(),
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "分组不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSettings 获取设置处理程序
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.userdata.Settings())
}

// SaveSettings 保存设置处理程序
func (h *Handlers) SaveSettings(c *gin.Context) {
	var settings model.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	if err := h.userdata.SaveSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存设置失败: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, h.userdata.Settings())
}
