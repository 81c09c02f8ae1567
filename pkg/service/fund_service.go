// Package service 组合数据网关与板块分类，负责吞掉上游故障：
// 对外只返回空值/空集合，不向上抛网络或解析错误。
package service

import (
	"context"
	"log"
	"math"

	"fundwatch/pkg/eastmoney"
	"fundwatch/pkg/model"
	"fundwatch/pkg/sector"
)

// FundService 基金数据服务
type FundService struct {
	client *eastmoney.Client
}

// NewFundService 创建基金数据服务
func NewFundService(client *eastmoney.Client) *FundService {
	return &FundService{client: client}
}

// GetFundRealtime 获取单只基金实时估值（含板块），失败返回 nil
func (s *FundService) GetFundRealtime(ctx context.Context, code string) *model.FundRealtime {
	estimate, err := s.client.GetFundEstimate(ctx, code)
	if err != nil {
		log.Printf("获取基金 %s 实时估值失败: %v", code, err)
		return nil
	}
	estimate.Sector = s.GetFundSector(ctx, code)
	return estimate
}

// GetFundsRealtimeBatch 批量获取实时估值，失败的基金直接剔除
func (s *FundService) GetFundsRealtimeBatch(ctx context.Context, codes []string) []*model.FundRealtime {
	funds := s.client.GetFundEstimatesBatch(ctx, codes)
	for _, fund := range funds {
		fund.Sector = s.GetFundSector(ctx, fund.Code)
	}
	return funds
}

// SearchFunds 搜索基金，失败时返回空列表
func (s *FundService) SearchFunds(ctx context.Context, keyword string, limit int) []model.CatalogEntry {
	results, err := s.client.SearchFunds(ctx, keyword, limit)
	if err != nil {
		log.Printf("搜索基金失败 keyword=%q: %v", keyword, err)
		return []model.CatalogEntry{}
	}
	if results == nil {
		results = []model.CatalogEntry{}
	}
	return results
}

// GetFundDetail 获取基金详情，失败返回 nil
func (s *FundService) GetFundDetail(ctx context.Context, code string) *model.FundDetail {
	detail, err := s.client.GetFundDetail(ctx, code)
	if err != nil {
		log.Printf("获取基金 %s 详情失败: %v", code, err)
		return nil
	}
	return detail
}

// GetFundHoldings 获取前十大持仓并合并股票实时涨跌幅
// 行情获取失败时仍返回持仓，只是涨跌幅为空。
func (s *FundService) GetFundHoldings(ctx context.Context, code string) []model.FundHolding {
	holdings, err := s.client.GetFundHoldings(ctx, code)
	if err != nil {
		log.Printf("获取基金 %s 持仓失败: %v", code, err)
		return []model.FundHolding{}
	}
	if len(holdings) == 0 {
		return []model.FundHolding{}
	}

	stockCodes := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.StockCode != "" {
			stockCodes = append(stockCodes, h.StockCode)
		}
	}

	quotes, err := s.client.GetStockQuotes(ctx, stockCodes)
	if err != nil {
		log.Printf("获取持仓股票行情失败: %v", err)
		return holdings
	}
	for i := range holdings {
		if change, ok := quotes[holdings[i].StockCode]; ok {
			c := change
			holdings[i].Change = &c
		}
	}
	return holdings
}

// GetNavHistory 获取历史净值，失败返回空页（total=0）
func (s *FundService) GetNavHistory(ctx context.Context, code string, page, perPage int, startDate, endDate string) *model.NavHistory {
	history, err := s.client.GetNavHistory(ctx, code, page, perPage, startDate, endDate)
	if err != nil {
		log.Printf("获取基金 %s 历史净值失败: %v", code, err)
		return &model.NavHistory{Total: 0, Page: page, PerPage: perPage, Records: []model.NavRecord{}}
	}
	return history
}

// GetFundSector 根据基金名称推断所属板块，详情获取失败返回兜底板块
func (s *FundService) GetFundSector(ctx context.Context, code string) string {
	detail, err := s.client.GetFundDetail(ctx, code)
	if err != nil || detail == nil {
		return sector.DefaultSector
	}
	return sector.Classify(detail.Name)
}

// HoldingCalc 用户持仓计算结果
type HoldingCalc struct {
	Shares    float64 `json:"shares"`     // 持有份额
	Cost      float64 `json:"cost"`       // 持仓成本
	CostPrice float64 `json:"cost_price"` // 成本价
}

// CalculateUserHoldings 根据持有金额与累计收益推算份额、成本与成本价
func CalculateUserHoldings(amount, profit, currentNav float64) HoldingCalc {
	cost := amount - profit
	var shares float64
	if currentNav > 0 {
		shares = amount / currentNav
	}
	var costPrice float64
	if shares > 0 {
		costPrice = cost / shares
	}
	return HoldingCalc{
		Shares:    round(shares, 2),
		Cost:      round(cost, 2),
		CostPrice: round(costPrice, 4),
	}
}

// DailyProfitCalc 当日收益估算结果
type DailyProfitCalc struct {
	DailyProfit     float64 `json:"daily_profit"`
	DailyProfitRate float64 `json:"daily_profit_rate"`
}

// CalculateDailyProfit 根据份额与净值变化估算当日收益
func CalculateDailyProfit(shares, yesterdayNav, todayEstimateNav float64) DailyProfitCalc {
	if yesterdayNav <= 0 {
		return DailyProfitCalc{}
	}
	dailyChange := todayEstimateNav - yesterdayNav
	return DailyProfitCalc{
		DailyProfit:     round(shares*dailyChange, 2),
		DailyProfitRate: round(dailyChange/yesterdayNav*100, 2),
	}
}

func round(v float64, digits int) float64 {
	pow := math.Pow10(digits)
	return math.Round(v*pow) / pow
}
