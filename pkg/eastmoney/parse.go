package eastmoney

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"fundwatch/pkg/model"
)

// 各响应体的提取正则，页面结构变化时只需调整这里
var (
	jsonpPattern    = regexp.MustCompile(`jsonpgz\((.*)\);?`)
	fundListPattern = regexp.MustCompile(`(?s)var r = (\[.*?\]);`)

	detailNamePattern    = regexp.MustCompile(`<div class="fundDetail-tit">\s*<div.*?>(.*?)</div>`)
	detailTypePattern    = regexp.MustCompile(`类型：\s*<a[^>]*>(.*?)</a>`)
	detailScalePattern   = regexp.MustCompile(`规模.*?(\d+\.?\d*)\s*亿元`)
	detailManagerPattern = regexp.MustCompile(`基金经理.*?<a[^>]*>(.*?)</a>`)
	detailCompanyPattern = regexp.MustCompile(`管 理 人.*?<a[^>]*>(.*?)</a>`)

	holdingsTbodyPattern = regexp.MustCompile(`(?s)<tbody>(.*?)</tbody>`)
	holdingsRowPattern   = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	holdingsNamePattern  = regexp.MustCompile(`<td class='tol'><a[^>]*>([^<]+)</a></td>`)
	holdingsCodePattern  = regexp.MustCompile(`<td><a[^>]*>(\d+)</a></td>`)
	holdingsRatioPattern = regexp.MustCompile(`<td class='tor'>([^<]*%?)</td>`)
)

// detailChangePattern 阶段涨幅的提取规则及目标字段
type detailChangePattern struct {
	re     *regexp.Regexp
	assign func(d *model.FundDetail, v float64)
}

var detailChangePatterns = []detailChangePattern{
	{regexp.MustCompile(`近1月：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.Change1M = &v }},
	{regexp.MustCompile(`近3月：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.Change3M = &v }},
	{regexp.MustCompile(`近6月：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.Change6M = &v }},
	{regexp.MustCompile(`近1年：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.Change1Y = &v }},
	{regexp.MustCompile(`近3年：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.Change3Y = &v }},
	{regexp.MustCompile(`成立来：</span><span[^>]*>([-\d.]+)%`), func(d *model.FundDetail, v float64) { d.ChangeSinceEstablish = &v }},
}

// SecID 转为行情接口 secid：代码以 6/5/9 开头加 "1."（沪市），其余加 "0."（深市）
func SecID(code string) string {
	if code != "" {
		switch code[0] {
		case '6', '5', '9':
			return "1." + code
		}
	}
	return "0." + code
}

// floatPtr 将字符串解析为 *float64，空串或解析失败返回 nil
func floatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseEstimate 解析估值接口的 JSONP 响应：jsonpgz({...});
func parseEstimate(body []byte, code string) (*model.FundRealtime, error) {
	m := jsonpPattern.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("估值响应缺少 jsonpgz 包装")
	}
	data := gjson.ParseBytes(m[1])
	if !data.IsObject() {
		return nil, fmt.Errorf("估值响应不是合法 JSON")
	}

	result := &model.FundRealtime{
		Code:           data.Get("fundcode").String(),
		Name:           data.Get("name").String(),
		Nav:            floatPtr(data.Get("dwjz").String()),
		NavDate:        data.Get("jzrq").String(),
		EstimateNav:    floatPtr(data.Get("gsz").String()),
		EstimateChange: floatPtr(data.Get("gszzl").String()),
		EstimateTime:   data.Get("gztime").String(),
	}
	if result.Code == "" {
		result.Code = code
	}
	return result, nil
}

// parseFundList 解析基金目录的 JS 数组字面量：var r = [["code","abbr","name","type",...],...];
func parseFundList(body []byte) ([]model.CatalogEntry, error) {
	m := fundListPattern.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("目录响应缺少 var r 数组")
	}

	arr := gjson.ParseBytes(m[1])
	if !arr.IsArray() {
		return nil, fmt.Errorf("目录数据不是数组")
	}

	var result []model.CatalogEntry
	for _, item := range arr.Array() {
		fields := item.Array()
		if len(fields) < 3 {
			continue
		}
		entry := model.CatalogEntry{
			Code: fields[0].String(),
			Abbr: fields[1].String(),
			Name: fields[2].String(),
		}
		if len(fields) > 3 {
			entry.Type = fields[3].String()
		}
		result = append(result, entry)
	}
	return result, nil
}

// parseDetailHTML 从详情页独立提取各字段，单个字段抓取失败不影响其余字段
func parseDetailHTML(code string, html string) *model.FundDetail {
	detail := &model.FundDetail{Code: code}

	if m := detailNamePattern.FindStringSubmatch(html); m != nil {
		detail.Name = strings.TrimSpace(m[1])
	}
	if m := detailTypePattern.FindStringSubmatch(html); m != nil {
		detail.Type = strings.TrimSpace(m[1])
	}
	if m := detailScalePattern.FindStringSubmatch(html); m != nil {
		detail.Scale = floatPtr(m[1])
	}
	if m := detailManagerPattern.FindStringSubmatch(html); m != nil {
		detail.Manager = strings.TrimSpace(m[1])
	}
	if m := detailCompanyPattern.FindStringSubmatch(html); m != nil {
		detail.Company = strings.TrimSpace(m[1])
	}
	for _, p := range detailChangePatterns {
		if m := p.re.FindStringSubmatch(html); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				p.assign(detail, v)
			}
		}
	}
	return detail
}

// parseHoldingsHTML 解析持仓表格，缺少名称的行跳过，比例解析失败时记为0
func parseHoldingsHTML(html string) []model.FundHolding {
	tbody := holdingsTbodyPattern.FindStringSubmatch(html)
	if tbody == nil {
		return nil
	}

	var holdings []model.FundHolding
	for _, row := range holdingsRowPattern.FindAllStringSubmatch(tbody[1], -1) {
		nameMatch := holdingsNamePattern.FindStringSubmatch(row[1])
		if nameMatch == nil {
			continue
		}
		name := strings.TrimSpace(nameMatch[1])
		if name == "" {
			continue
		}

		h := model.FundHolding{StockName: name}
		if m := holdingsCodePattern.FindStringSubmatch(row[1]); m != nil {
			h.StockCode = m[1]
		}
		for _, cell := range holdingsRatioPattern.FindAllStringSubmatch(row[1], -1) {
			if !strings.Contains(cell[1], "%") {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(cell[1]), "%"), 64); err == nil {
				h.Ratio = v
				break
			}
		}
		holdings = append(holdings, h)

		if len(holdings) >= maxHoldings {
			break
		}
	}
	return holdings
}

// parseNavHistory 解析历史净值接口响应
func parseNavHistory(body []byte, page, perPage int) (*model.NavHistory, error) {
	data := gjson.ParseBytes(body)
	if data.Get("ErrCode").Int() != 0 {
		return nil, fmt.Errorf("历史净值接口返回错误: %s", data.Get("ErrMsg").String())
	}

	result := &model.NavHistory{
		Total:   int(data.Get("TotalCount").Int()),
		Page:    page,
		PerPage: perPage,
		Records: []model.NavRecord{},
	}
	for _, item := range data.Get("Data.LSJZList").Array() {
		result.Records = append(result.Records, model.NavRecord{
			Date:   item.Get("FSRQ").String(),
			Nav:    floatPtr(item.Get("DWJZ").String()),
			AccNav: floatPtr(item.Get("LJJZ").String()),
			Change: floatPtr(item.Get("JZZZL").String()),
		})
	}
	return result, nil
}

// parseStockQuotes 解析批量行情响应，只保留携带数值涨跌幅的条目
func parseStockQuotes(body []byte) map[string]float64 {
	result := make(map[string]float64)
	for _, item := range gjson.GetBytes(body, "data.diff").Array() {
		code := item.Get("f12").String()
		change := item.Get("f3")
		if code == "" || change.Type != gjson.Number {
			continue
		}
		result[code] = change.Float()
	}
	return result
}
