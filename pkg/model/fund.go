package model

// FundRealtime 基金实时估值数据
type FundRealtime struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Nav            *float64 `json:"nav"`             // 上一交易日净值 (dwjz)
	NavDate        string   `json:"nav_date"`        // 净值日期
	EstimateNav    *float64 `json:"estimate_nav"`    // 估算净值 (gsz)
	EstimateChange *float64 `json:"estimate_change"` // 估算涨跌幅 % (gszzl)
	EstimateTime   string   `json:"estimate_time"`   // 估算时间
	Sector         string   `json:"sector,omitempty"` // 所属板块（按名称关键词推断）
}

// FundDetail 基金详细信息，各字段独立抓取，抓不到的保持为空
type FundDetail struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Type          string   `json:"type,omitempty"`
	RiskLevel     string   `json:"risk_level,omitempty"`     // 风险等级
	Company       string   `json:"company,omitempty"`        // 管理公司
	Manager       string   `json:"manager,omitempty"`        // 基金经理
	EstablishDate string   `json:"establish_date,omitempty"` // 成立日期
	Scale         *float64 `json:"scale,omitempty"`          // 规模（亿元）
	Nav           *float64 `json:"nav,omitempty"`            // 单位净值
	AccNav        *float64 `json:"acc_nav,omitempty"`        // 累计净值

	// 阶段涨幅 %
	Change1W             *float64 `json:"change_1w,omitempty"`
	Change1M             *float64 `json:"change_1m,omitempty"`
	Change3M             *float64 `json:"change_3m,omitempty"`
	Change6M             *float64 `json:"change_6m,omitempty"`
	ChangeYTD            *float64 `json:"change_ytd,omitempty"`
	Change1Y             *float64 `json:"change_1y,omitempty"`
	Change2Y             *float64 `json:"change_2y,omitempty"`
	Change3Y             *float64 `json:"change_3y,omitempty"`
	ChangeSinceEstablish *float64 `json:"change_since_establish,omitempty"`

	// 排名
	RankInCategory string `json:"rank_in_category,omitempty"` // 同类排名
	Quartile       string `json:"quartile,omitempty"`         // 四分位排名
}

// FundHolding 基金持仓（前十大重仓股）
type FundHolding struct {
	StockCode string   `json:"stock_code"`
	StockName string   `json:"stock_name"`
	Ratio     float64  `json:"ratio"`              // 占净值比例 %
	Change    *float64 `json:"change"`             // 实时涨跌幅 %，行情缺失时为 null
	Industry  string   `json:"industry,omitempty"` // 所属行业
}

// NavRecord 单日净值记录
type NavRecord struct {
	Date   string   `json:"date"`
	Nav    *float64 `json:"nav"`     // 单位净值
	AccNav *float64 `json:"acc_nav"` // 累计净值
	Change *float64 `json:"change"`  // 日涨跌幅 %
}

// NavHistory 历史净值分页结果
type NavHistory struct {
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Records []NavRecord `json:"records"`
}

// CatalogEntry 全量基金目录条目（代码、简拼、名称、类型）
type CatalogEntry struct {
	Code string `json:"code"`
	Abbr string `json:"abbr"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// IntradayPoint 日内涨跌幅采样点
type IntradayPoint struct {
	Time   string  `json:"time"` // HH:MM:SS
	Change float64 `json:"change"`
}

// BatchRealtimeRequest 批量获取实时估值请求
type BatchRealtimeRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// BatchRealtimeResponse 批量获取实时估值响应
type BatchRealtimeResponse struct {
	Funds      []*FundRealtime `json:"funds"`
	UpdateTime string          `json:"update_time"`
}
