// Package eastmoney 封装东方财富网的基金与股票行情接口，
// 负责抓取、容错解析与分级缓存。
package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"fundwatch/pkg/cache"
	"fundwatch/pkg/config"
	"fundwatch/pkg/model"
)

// 接口地址
const (
	fundEstimateURL   = "https://fundgz.1234567.com.cn/js/%s.js"
	fundListURL       = "https://fund.eastmoney.com/js/fundcode_search.js"
	fundDetailURL     = "https://fund.eastmoney.com/%s.html"
	fundNavHistoryURL = "https://api.fund.eastmoney.com/f10/lsjz"
	fundHoldingsURL   = "https://fundf10.eastmoney.com/FundArchivesDatas.aspx"
	stockQuoteURL     = "https://push2.eastmoney.com/api/qt/ulist.np/get"
)

// 请求头（模拟浏览器，接口对 UA/Referer 有校验）
const (
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultReferer = "https://fund.eastmoney.com/"
)

const (
	maxHoldings = 10 // 持仓只取前十大
	retryDelay  = 500 * time.Millisecond
)

// HTTPDoer HTTP执行接口，便于测试注入
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 东方财富 API 客户端
// 内置四个独立缓存：估值、详情、目录、历史净值，各自的容量与TTL由配置决定。
type Client struct {
	Doer HTTPDoer

	maxRetry int

	realtimeCache *cache.Cache[*model.FundRealtime]
	detailCache   *cache.Cache[*model.FundDetail]
	listCache     *cache.Cache[[]model.CatalogEntry]
	historyCache  *cache.Cache[*model.NavHistory]
}

// NewClient 创建客户端
func NewClient(cfg *config.Config) *Client {
	return &Client{
		Doer:          &http.Client{Timeout: cfg.EastMoney.RequestTimeout},
		maxRetry:      cfg.EastMoney.MaxRetry,
		realtimeCache: cache.New[*model.FundRealtime](cfg.Cache.Realtime.MaxEntries, cfg.Cache.Realtime.TTL()),
		detailCache:   cache.New[*model.FundDetail](cfg.Cache.Detail.MaxEntries, cfg.Cache.Detail.TTL()),
		listCache:     cache.New[[]model.CatalogEntry](cfg.Cache.List.MaxEntries, cfg.Cache.List.TTL()),
		historyCache:  cache.New[*model.NavHistory](cfg.Cache.History.MaxEntries, cfg.Cache.History.TTL()),
	}
}

// get 执行GET请求，带固定次数的重试
func (c *Client) get(ctx context.Context, rawURL, referer string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetry; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Referer", referer)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := c.Doer.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("执行HTTP请求失败: %w", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("接口返回非200状态码: %d", resp.StatusCode)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("读取响应体失败: %w", err)
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

// GetFundEstimate 获取基金实时估值，结果按配置的TTL缓存
func (c *Client) GetFundEstimate(ctx context.Context, code string) (*model.FundRealtime, error) {
	return c.realtimeCache.GetOrCompute("estimate_"+code, func() (*model.FundRealtime, error) {
		body, err := c.get(ctx, fmt.Sprintf(fundEstimateURL, code), defaultReferer)
		if err != nil {
			return nil, fmt.Errorf("获取基金 %s 估值失败: %w", code, err)
		}
		return parseEstimate(body, code)
	})
}

// GetFundEstimatesBatch 并发批量获取估值，单只失败不影响其余结果
func (c *Client) GetFundEstimatesBatch(ctx context.Context, codes []string) []*model.FundRealtime {
	var (
		wg      sync.WaitGroup
		mutex   sync.Mutex
		results []*model.FundRealtime
	)
	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			estimate, err := c.GetFundEstimate(ctx, code)
			if err != nil {
				return
			}
			mutex.Lock()
			results = append(results, estimate)
			mutex.Unlock()
		}(code)
	}
	wg.Wait()
	return results
}

// GetFundList 获取全量基金目录，整体作为单个缓存值
func (c *Client) GetFundList(ctx context.Context) ([]model.CatalogEntry, error) {
	return c.listCache.GetOrCompute("fund_list", func() ([]model.CatalogEntry, error) {
		body, err := c.get(ctx, fundListURL, defaultReferer)
		if err != nil {
			return nil, fmt.Errorf("获取基金目录失败: %w", err)
		}
		return parseFundList(body)
	})
}

// SearchFunds 在目录中按代码/名称/简拼做大小写不敏感的子串搜索，凑够 limit 条即停
func (c *Client) SearchFunds(ctx context.Context, keyword string, limit int) ([]model.CatalogEntry, error) {
	all, err := c.GetFundList(ctx)
	if err != nil {
		return nil, err
	}

	kw := strings.ToLower(keyword)
	matched := make([]model.CatalogEntry, 0, limit)
	for _, fund := range all {
		if strings.Contains(strings.ToLower(fund.Code), kw) ||
			strings.Contains(strings.ToLower(fund.Name), kw) ||
			strings.Contains(strings.ToLower(fund.Abbr), kw) {
			matched = append(matched, fund)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// GetFundDetail 抓取基金详情页，各字段独立提取，只在页面获取失败时返回错误
func (c *Client) GetFundDetail(ctx context.Context, code string) (*model.FundDetail, error) {
	return c.detailCache.GetOrCompute("detail_"+code, func() (*model.FundDetail, error) {
		body, err := c.get(ctx, fmt.Sprintf(fundDetailURL, code), defaultReferer)
		if err != nil {
			return nil, fmt.Errorf("获取基金 %s 详情失败: %w", code, err)
		}
		return parseDetailHTML(code, string(body)), nil
	})
}

// GetFundHoldings 获取基金前十大持仓
func (c *Client) GetFundHoldings(ctx context.Context, code string) ([]model.FundHolding, error) {
	params := url.Values{}
	params.Set("type", "jjcc")
	params.Set("code", code)
	params.Set("topline", fmt.Sprintf("%d", maxHoldings))

	body, err := c.get(ctx, fundHoldingsURL+"?"+params.Encode(), defaultReferer)
	if err != nil {
		return nil, fmt.Errorf("获取基金 %s 持仓失败: %w", code, err)
	}
	return parseHoldingsHTML(string(body)), nil
}

// GetNavHistory 分页获取历史净值，缓存key包含完整参数组合
func (c *Client) GetNavHistory(ctx context.Context, code string, page, perPage int, startDate, endDate string) (*model.NavHistory, error) {
	cacheKey := fmt.Sprintf("history_%s_%d_%d_%s_%s", code, page, perPage, startDate, endDate)
	return c.historyCache.GetOrCompute(cacheKey, func() (*model.NavHistory, error) {
		params := url.Values{}
		params.Set("fundCode", code)
		params.Set("pageIndex", fmt.Sprintf("%d", page))
		params.Set("pageSize", fmt.Sprintf("%d", perPage))
		params.Set("startDate", startDate)
		params.Set("endDate", endDate)

		// 该接口校验 Referer 必须指向对应基金的净值页
		referer := fmt.Sprintf("https://fundf10.eastmoney.com/jjjz_%s.html", code)
		body, err := c.get(ctx, fundNavHistoryURL+"?"+params.Encode(), referer)
		if err != nil {
			return nil, fmt.Errorf("获取基金 %s 历史净值失败: %w", code, err)
		}
		return parseNavHistory(body, page, perPage)
	})
}

// GetStockQuotes 批量获取股票实时涨跌幅，返回 {代码: 涨跌幅%}
// 响应中缺失的代码不会出现在结果里。
func (c *Client) GetStockQuotes(ctx context.Context, stockCodes []string) (map[string]float64, error) {
	if len(stockCodes) == 0 {
		return map[string]float64{}, nil
	}

	secids := make([]string, 0, len(stockCodes))
	for _, code := range stockCodes {
		secids = append(secids, SecID(code))
	}

	params := url.Values{}
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fields", "f2,f3,f12,f14") // f2:现价 f3:涨跌幅 f12:代码 f14:名称
	params.Set("secids", strings.Join(secids, ","))

	body, err := c.get(ctx, stockQuoteURL+"?"+params.Encode(), defaultReferer)
	if err != nil {
		return nil, fmt.Errorf("获取股票行情失败: %w", err)
	}
	return parseStockQuotes(body), nil
}
