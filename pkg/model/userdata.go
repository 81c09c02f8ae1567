package model

// WatchFund 自选基金条目
type WatchFund struct {
	ID      string   `json:"id"`
	Code    string   `json:"code"`
	Name    string   `json:"name,omitempty"`
	GroupID string   `json:"groupId"`
	Amount  *float64 `json:"amount,omitempty"` // 持有金额
	Profit  *float64 `json:"profit,omitempty"` // 累计收益
	AddedAt string   `json:"addedAt"`
}

// FundGroup 自选分组
type FundGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Settings 用户设置
type Settings struct {
	HideAmount      bool   `json:"hideAmount"`
	RefreshInterval int    `json:"refreshInterval"` // 前端刷新间隔（毫秒）
	AppName         string `json:"appName"`
}
