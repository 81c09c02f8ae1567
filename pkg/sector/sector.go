package sector

import "strings"

// DefaultSector 未匹配到任何关键词时的兜底板块
const DefaultSector = "综合"

// rule 板块关键词规则
type rule struct {
	Sector   string
	Keywords []string
}

// rules 板块关键词表
// 按优先级排序，细分板块在前、泛化板块在后（如"光伏"先于"新能源"，
// "半导体"先于"科技"），匹配时按顺序扫描、命中即返回，顺序不可打乱。
var rules = []rule{
	// 新能源细分
	{"光伏", []string{"光伏", "太阳能"}},
	{"锂电", []string{"锂电", "锂电池", "动力电池", "电池"}},
	{"储能", []string{"储能"}},
	{"新能源车", []string{"新能源车", "新能源汽车", "智能汽车", "智能驾驶", "电动车"}},
	{"新能源", []string{"新能源", "清洁能源", "绿色能源", "碳中和"}},
	// 科技细分
	{"半导体", []string{"半导体", "芯片", "集成电路"}},
	{"人工智能", []string{"人工智能", "AI", "机器人", "智能制造"}},
	{"云计算", []string{"云计算", "大数据", "数据中心"}},
	{"软件", []string{"软件", "计算机", "信息技术"}},
	{"通信", []string{"通信", "5G", "物联网"}},
	{"互联网", []string{"互联网", "数字经济", "电子商务"}},
	{"电子", []string{"电子", "消费电子"}},
	{"科技", []string{"科技", "科创", "创新"}},
	// 医药细分
	{"创新药", []string{"创新药", "生物医药", "生物制药"}},
	{"医疗器械", []string{"医疗器械", "医疗设备"}},
	{"中药", []string{"中药", "中医"}},
	{"医疗服务", []string{"医疗服务", "医疗健康"}},
	{"医药", []string{"医药", "医疗", "生物", "健康", "养老"}},
	// 消费细分
	{"白酒", []string{"白酒", "酒"}},
	{"食品饮料", []string{"食品", "饮料", "乳业", "调味品"}},
	{"家电", []string{"家电", "家居"}},
	{"汽车", []string{"汽车", "整车"}},
	{"零售", []string{"零售", "商贸", "电商"}},
	{"旅游", []string{"旅游", "酒店", "餐饮", "免税"}},
	{"品牌消费", []string{"品牌", "奢侈品", "纺织服装"}},
	{"消费", []string{"消费", "内需"}},
	// 金融细分
	{"银行", []string{"银行"}},
	{"证券", []string{"证券", "券商", "非银"}},
	{"保险", []string{"保险"}},
	{"地产", []string{"地产", "房地产", "基建"}},
	{"金融", []string{"金融"}},
	// 制造细分
	{"高端制造", []string{"高端制造", "先进制造", "装备制造"}},
	{"机械", []string{"机械", "工程机械"}},
	{"化工", []string{"化工", "材料", "新材料", "稀土"}},
	{"钢铁", []string{"钢铁", "有色", "煤炭"}},
	{"制造", []string{"制造", "工业"}},
	// 军工细分
	{"航空航天", []string{"航空", "航天", "商业航天", "卫星"}},
	{"军工装备", []string{"军工装备", "国防装备"}},
	{"船舶", []string{"船舶", "海洋", "海工"}},
	{"军工", []string{"军工", "国防"}},
	// 农业细分
	{"养殖", []string{"养殖", "畜牧", "猪", "鸡"}},
	{"种植", []string{"种植", "种业", "粮食"}},
	{"农业", []string{"农业", "农产品"}},
	// 资源能源
	{"煤炭", []string{"煤炭"}},
	{"石油", []string{"石油", "油气", "天然气"}},
	{"电力", []string{"电力", "公用事业", "水电", "火电", "核电"}},
	{"资源", []string{"资源", "能源"}},
	// 其他主题
	{"港股", []string{"港股", "恒生", "H股"}},
	{"美股", []string{"美股", "纳斯达克", "标普"}},
	{"QDII", []string{"QDII", "海外", "全球"}},
	{"红利", []string{"红利", "高股息", "分红"}},
	{"价值", []string{"价值", "蓝筹", "龙头"}},
	{"成长", []string{"成长"}},
	{"量化", []string{"量化"}},
	{"指数", []string{"指数", "ETF", "LOF"}},
	{"债券", []string{"债券", "纯债", "信用债", "利率债", "可转债"}},
	{"货币", []string{"货币", "现金"}},
}

// Classify 根据基金名称推断所属板块，未命中返回 DefaultSector
func Classify(name string) string {
	if name == "" {
		return DefaultSector
	}
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(name, kw) {
				return r.Sector
			}
		}
	}
	return DefaultSector
}
