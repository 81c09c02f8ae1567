package intraday

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "09:30", "15:00", "09:00")
	require.NoError(t, err)
	return store
}

// at 固定存储的墙钟
func at(store *Store, hour, min, sec int) {
	store.now = func() time.Time {
		return time.Date(2024, 1, 15, hour, min, sec, 0, time.Local)
	}
}

func TestSave_TradingWindowBoundaries(t *testing.T) {
	store := newTestStore(t)

	// 开盘前一秒拒绝
	at(store, 9, 29, 59)
	require.ErrorIs(t, store.Save("005827", 0.5, ""), ErrMarketClosed)

	// 边界秒包含
	at(store, 9, 30, 0)
	require.NoError(t, store.Save("005827", 0.5, ""))
	at(store, 15, 0, 0)
	require.NoError(t, store.Save("005827", 0.8, ""))

	// 收盘后一秒拒绝
	at(store, 15, 0, 1)
	require.ErrorIs(t, store.Save("005827", 0.9, ""), ErrMarketClosed)

	points := store.Get("005827")
	require.Len(t, points, 2)
	require.Equal(t, "09:30:00", points[0].Time)
	require.InDelta(t, 0.5, points[0].Change, 1e-9)
	require.Equal(t, "15:00:00", points[1].Time)
}

func TestSave_ExplicitTimestamp(t *testing.T) {
	store := newTestStore(t)
	at(store, 10, 0, 0)

	require.NoError(t, store.Save("005827", 1.2, "09:45:30"))

	points := store.Get("005827")
	require.Len(t, points, 1)
	require.Equal(t, "09:45:30", points[0].Time)
}

func TestGet_NoDataReturnsEmptySlice(t *testing.T) {
	store := newTestStore(t)
	at(store, 10, 0, 0)

	points := store.Get("005827")
	require.NotNil(t, points)
	require.Empty(t, points)
}

func TestRead_StaleYesterdayInvisibleButDiskUntouched(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "09:30", "15:00", "09:00")
	require.NoError(t, err)

	// 昨天写入的数据
	store.now = func() time.Time { return time.Date(2024, 1, 14, 14, 0, 0, 0, time.Local) }
	require.NoError(t, store.Save("005827", 1.0, ""))
	yesterdayFile := filepath.Join(dir, "2024-01-14.json")
	before, err := os.ReadFile(yesterdayFile)
	require.NoError(t, err)

	// 第二天读取：返回空，且昨天的文件原样保留
	at(store, 10, 0, 0)
	require.Empty(t, store.Get("005827"))
	after, err := os.ReadFile(yesterdayFile)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRead_ClearBoundaryRollover(t *testing.T) {
	dir := t.TempDir()
	// 时段覆盖早间，便于在清零边界前写入
	store, err := NewStore(dir, "08:00", "15:00", "09:00")
	require.NoError(t, err)

	// 当天 08:50 写入
	at(store, 8, 50, 0)
	require.NoError(t, store.Save("005827", 0.3, ""))

	// 边界前读取仍可见
	at(store, 8, 55, 0)
	require.Len(t, store.Get("005827"), 1)

	// 过了 09:00 边界后，边界前的数据视为过期
	at(store, 9, 5, 0)
	require.Empty(t, store.Get("005827"))

	// 边界后的写入从空数据开始，不携带旧点
	require.NoError(t, store.Save("005827", 0.7, ""))
	points := store.Get("005827")
	require.Len(t, points, 1)
	require.InDelta(t, 0.7, points[0].Change, 1e-9)
}

func TestRead_CorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "09:30", "15:00", "09:00")
	require.NoError(t, err)
	at(store, 10, 0, 0)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-15.json"), []byte("{broken"), 0o644))
	require.Empty(t, store.Get("005827"))
}

func TestSaveBatch(t *testing.T) {
	store := newTestStore(t)
	at(store, 10, 30, 15)

	up := 1.5
	down := -0.8
	require.NoError(t, store.SaveBatch(map[string]*float64{
		"005827": &up,
		"110011": &down,
		"161725": nil,
	}))

	result := store.GetBatch([]string{"005827", "110011", "161725"})
	require.Len(t, result, 3)

	// 同一批共享一个时间戳
	require.Equal(t, "10:30:15", result["005827"][0].Time)
	require.Equal(t, "10:30:15", result["110011"][0].Time)
	require.InDelta(t, 1.5, result["005827"][0].Change, 1e-9)
	require.InDelta(t, -0.8, result["110011"][0].Change, 1e-9)

	// nil 涨跌幅的基金被跳过，但查询时返回空切片而非 nil
	require.NotNil(t, result["161725"])
	require.Empty(t, result["161725"])

	at(store, 16, 0, 0)
	require.ErrorIs(t, store.SaveBatch(map[string]*float64{"005827": &up}), ErrMarketClosed)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "09:30", "15:00", "09:00")
	require.NoError(t, err)
	at(store, 10, 0, 0)

	require.NoError(t, store.Save("005827", 1.0, ""))
	require.Len(t, store.Get("005827"), 1)

	// 清零不受交易时段限制
	at(store, 20, 0, 0)
	require.NoError(t, store.Clear())
	require.Empty(t, store.Get("005827"))

	// 清零后的文件不带 last_update，不会被误判为过期
	raw, err := os.ReadFile(filepath.Join(dir, "2024-01-15.json"))
	require.NoError(t, err)
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &data))
	_, hasLastUpdate := data["last_update"]
	require.False(t, hasLastUpdate)
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "09:30", "15:00", "09:00")
	require.NoError(t, err)
	at(store, 10, 0, 0)

	for _, name := range []string{"2024-01-05.json", "2024-01-12.json", "2024-01-15.json", "notes.json", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	// keepDays=7：只有 10 天前的文件超限
	deleted := store.Sweep(7)
	require.Equal(t, 1, deleted)

	require.NoFileExists(t, filepath.Join(dir, "2024-01-05.json"))
	require.FileExists(t, filepath.Join(dir, "2024-01-12.json"))
	require.FileExists(t, filepath.Join(dir, "2024-01-15.json"))
	// 文件名不是日期的文件不动
	require.FileExists(t, filepath.Join(dir, "notes.json"))
	require.FileExists(t, filepath.Join(dir, "readme.txt"))
}
