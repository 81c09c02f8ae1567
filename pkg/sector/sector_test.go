package sector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_SpecificBeforeGeneric(t *testing.T) {
	// "半导体" 规则在 "科技" 之前，名称同时含两类关键词时取更具体的
	require.Equal(t, "半导体", Classify("某半导体芯片ETF"))
	require.Equal(t, "半导体", Classify("科创芯片龙头混合"))

	// "光伏" 在 "新能源" 之前
	require.Equal(t, "光伏", Classify("光伏新能源产业股票"))
}

func TestClassify_KeywordTable(t *testing.T) {
	cases := map[string]string{
		"易方达蓝筹精选混合":  "价值",
		"招商中证白酒指数":   "白酒",
		"华夏恒生互联网科技业": "互联网", // 互联网规则先于科技和港股命中
		"工银前沿医疗股票":   "医药",
		"天弘余额宝货币":    "货币",
		"南方中证全指证券公司": "证券",
	}
	for name, want := range cases {
		require.Equal(t, want, Classify(name), "name=%s", name)
	}
}

func TestClassify_DefaultWhenNoMatch(t *testing.T) {
	require.Equal(t, DefaultSector, Classify("嘉实优选回报混合"))
	require.Equal(t, DefaultSector, Classify(""))
}
