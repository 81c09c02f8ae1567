package eastmoney

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecID(t *testing.T) {
	// 沪市：6/5/9 开头加 1.，其余加 0.
	require.Equal(t, "1.600519", SecID("600519"))
	require.Equal(t, "0.000858", SecID("000858"))
	require.Equal(t, "1.510300", SecID("510300"))
	require.Equal(t, "1.900901", SecID("900901"))
	require.Equal(t, "0.300750", SecID("300750"))
}

func TestParseEstimate(t *testing.T) {
	body := []byte(`jsonpgz({"fundcode":"005827","name":"易方达蓝筹精选混合","jzrq":"2024-01-12","dwjz":"2.2510","gsz":"2.2712","gszzl":"0.90","gztime":"2024-01-15 14:30"});`)

	result, err := parseEstimate(body, "005827")
	require.NoError(t, err)
	require.Equal(t, "005827", result.Code)
	require.Equal(t, "易方达蓝筹精选混合", result.Name)
	require.Equal(t, "2024-01-12", result.NavDate)
	require.NotNil(t, result.Nav)
	require.InDelta(t, 2.2510, *result.Nav, 1e-9)
	require.NotNil(t, result.EstimateNav)
	require.InDelta(t, 2.2712, *result.EstimateNav, 1e-9)
	require.NotNil(t, result.EstimateChange)
	require.InDelta(t, 0.90, *result.EstimateChange, 1e-9)
	require.Equal(t, "2024-01-15 14:30", result.EstimateTime)
}

func TestParseEstimate_EmptyNumericFields(t *testing.T) {
	body := []byte(`jsonpgz({"fundcode":"005827","name":"某基金","jzrq":"","dwjz":"","gsz":"","gszzl":"","gztime":""});`)

	result, err := parseEstimate(body, "005827")
	require.NoError(t, err)
	require.Nil(t, result.Nav)
	require.Nil(t, result.EstimateNav)
	require.Nil(t, result.EstimateChange)
}

func TestParseEstimate_MissingWrapper(t *testing.T) {
	_, err := parseEstimate([]byte(`<html>404</html>`), "005827")
	require.Error(t, err)
}

func TestParseFundList(t *testing.T) {
	body := []byte(`var r = [["000001","HXCZHH","华夏成长混合","混合型-灵活","HUAXIACHENGZHANGHUNHE"],["005827","YFDLCJXHH","易方达蓝筹精选混合","混合型-偏股","YIFANGDALANCHOUJINGXUANHUNHE"],["510300","HS300ETF","华泰柏瑞沪深300ETF"]];`)

	entries, err := parseFundList(body)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "000001", entries[0].Code)
	require.Equal(t, "HXCZHH", entries[0].Abbr)
	require.Equal(t, "华夏成长混合", entries[0].Name)
	require.Equal(t, "混合型-灵活", entries[0].Type)
	// 不足四列时类型留空
	require.Equal(t, "", entries[2].Type)
}

func TestParseFundList_Malformed(t *testing.T) {
	_, err := parseFundList([]byte(`<html>error</html>`))
	require.Error(t, err)
}

const detailHTML = `<html><body>
<div class="fundDetail-tit"><div style="float:left">易方达蓝筹精选混合</div><span>005827</span></div>
<td>类型：<a href="http://fund.eastmoney.com/HH_jzzzl.html">混合型-偏股</a></td>
<td>规模：431.48亿元（2023-12-31）</td>
<td>基金经理：<a href="http://fund.eastmoney.com/manager/30189307.html">张坤</a></td>
<td>管 理 人：<a href="http://fund.eastmoney.com/company/80000229.html">易方达基金</a></td>
<div>近1月：</span><span class="ui-font-middle ui-color-red ui-num">-2.73%</span></div>
<div>近3月：</span><span class="ui-font-middle ui-color-green ui-num">-8.41%</span></div>
<div>近1年：</span><span class="ui-font-middle ui-color-green ui-num">-19.12%</span></div>
<div>成立来：</span><span class="ui-font-middle ui-color-red ui-num">127.30%</span></div>
</body></html>`

func TestParseDetailHTML(t *testing.T) {
	detail := parseDetailHTML("005827", detailHTML)

	require.Equal(t, "005827", detail.Code)
	require.Equal(t, "易方达蓝筹精选混合", detail.Name)
	require.Equal(t, "混合型-偏股", detail.Type)
	require.Equal(t, "张坤", detail.Manager)
	require.Equal(t, "易方达基金", detail.Company)
	require.NotNil(t, detail.Scale)
	require.InDelta(t, 431.48, *detail.Scale, 1e-9)
	require.NotNil(t, detail.Change1M)
	require.InDelta(t, -2.73, *detail.Change1M, 1e-9)
	require.NotNil(t, detail.Change3M)
	require.InDelta(t, -8.41, *detail.Change3M, 1e-9)
	require.NotNil(t, detail.Change1Y)
	require.InDelta(t, -19.12, *detail.Change1Y, 1e-9)
	require.NotNil(t, detail.ChangeSinceEstablish)
	require.InDelta(t, 127.30, *detail.ChangeSinceEstablish, 1e-9)
	// 页面没有的字段保持为空，不影响其他字段
	require.Nil(t, detail.Change6M)
	require.Nil(t, detail.Change3Y)
}

func TestParseDetailHTML_PartialPage(t *testing.T) {
	// 只有名称的残缺页面：其余字段为空但不报错
	detail := parseDetailHTML("005827", `<div class="fundDetail-tit"><div>某基金</div></div>`)
	require.Equal(t, "某基金", detail.Name)
	require.Equal(t, "", detail.Type)
	require.Nil(t, detail.Scale)
	require.Nil(t, detail.Change1M)
}

const holdingsHTML = `var apidata={ content:"<table><tbody>
<tr><td>1</td><td><a href='#'>600519</a></td><td class='tol'><a href='#'>贵州茅台</a></td><td class='tor'>9.85%</td><td class='tor'>1,234.56</td></tr>
<tr><td>2</td><td><a href='#'>000858</a></td><td class='tol'><a href='#'>五粮液</a></td><td class='tor'>--</td><td class='tor'>8.12%</td></tr>
<tr><td>3</td><td><a href='#'>300750</a></td><td class='tor'>5.00%</td></tr>
<tr><td>4</td><td><a href='#'>601318</a></td><td class='tol'><a href='#'>中国平安</a></td><td class='tor'>abc%</td></tr>
</tbody></table>"};`

func TestParseHoldingsHTML(t *testing.T) {
	holdings := parseHoldingsHTML(holdingsHTML)
	// 第三行缺少名称列，应被跳过
	require.Len(t, holdings, 3)

	require.Equal(t, "贵州茅台", holdings[0].StockName)
	require.Equal(t, "600519", holdings[0].StockCode)
	require.InDelta(t, 9.85, holdings[0].Ratio, 1e-9)

	// 不含%的单元格被跳过，取后面真正的比例列
	require.Equal(t, "五粮液", holdings[1].StockName)
	require.InDelta(t, 8.12, holdings[1].Ratio, 1e-9)

	// 没有可解析的比例时记为0
	require.Equal(t, "中国平安", holdings[2].StockName)
	require.Equal(t, float64(0), holdings[2].Ratio)
}

func TestParseHoldingsHTML_NoTable(t *testing.T) {
	require.Empty(t, parseHoldingsHTML(`<html>暂无数据</html>`))
}

func TestParseNavHistory(t *testing.T) {
	body := []byte(`{"Data":{"LSJZList":[{"FSRQ":"2024-01-12","DWJZ":"2.2510","LJJZ":"3.8910","JZZZL":"0.90"},{"FSRQ":"2024-01-11","DWJZ":"2.2309","LJJZ":"3.8709","JZZZL":""}]},"ErrCode":0,"TotalCount":1893}`)

	history, err := parseNavHistory(body, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1893, history.Total)
	require.Equal(t, 1, history.Page)
	require.Equal(t, 20, history.PerPage)
	require.Len(t, history.Records, 2)
	require.Equal(t, "2024-01-12", history.Records[0].Date)
	require.NotNil(t, history.Records[0].Nav)
	require.InDelta(t, 2.2510, *history.Records[0].Nav, 1e-9)
	require.Nil(t, history.Records[1].Change)
}

func TestParseNavHistory_UpstreamError(t *testing.T) {
	_, err := parseNavHistory([]byte(`{"ErrCode":-1,"ErrMsg":"参数错误"}`), 1, 20)
	require.Error(t, err)
}

func TestParseStockQuotes(t *testing.T) {
	body := []byte(`{"data":{"diff":[{"f2":1688.0,"f3":1.23,"f12":"600519","f14":"贵州茅台"},{"f2":"-","f3":"-","f12":"000858","f14":"五粮液"},{"f2":120.5,"f3":-0.87,"f12":"601318","f14":"中国平安"}]}}`)

	quotes := parseStockQuotes(body)
	// 停牌返回 "-"，应当被剔除
	require.Len(t, quotes, 2)
	require.InDelta(t, 1.23, quotes["600519"], 1e-9)
	require.InDelta(t, -0.87, quotes["601318"], 1e-9)
	_, ok := quotes["000858"]
	require.False(t, ok)
}

func TestParseStockQuotes_EmptyResponse(t *testing.T) {
	require.Empty(t, parseStockQuotes([]byte(`{"data":null}`)))
}
