// Package intraday 记录自选基金的日内涨跌幅走势。
// 每个交易日一个JSON文件，按文件名中的日期寻址；没有后台定时任务，
// 是否跨日/过期在每次读写时根据墙钟惰性判断。
package intraday

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fundwatch/pkg/model"
)

// ErrMarketClosed 交易时段外的写入被拒绝
var ErrMarketClosed = errors.New("当前不在交易时段")

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05"
	clockLayout     = "15:04:05"
)

// snapshot 单日数据文件结构
type snapshot struct {
	Date       string                           `json:"date"`
	LastUpdate string                           `json:"last_update,omitempty"`
	Funds      map[string][]model.IntradayPoint `json:"funds"`
}

// Store 日内数据存储
// 文件写入经由单把互斥锁串行化；读-改-写不是原子的：并发写同一天的文件时
// 后写者的完整内容落盘，先写者未持久化的内存追加会被覆盖。
type Store struct {
	dir string

	openSec  int // 交易时段开始（当日秒数）
	closeSec int // 交易时段结束（当日秒数）
	clearSec int // 每日清零边界（当日秒数）

	mutex sync.Mutex
	now   func() time.Time
}

// NewStore 创建日内数据存储，时间参数格式为 HH:MM
func NewStore(dir, marketOpen, marketClose, clearBoundary string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建日内数据目录失败: %w", err)
	}

	store := &Store{dir: dir, now: time.Now}
	for _, item := range []struct {
		value  string
		target *int
	}{
		{marketOpen, &store.openSec},
		{marketClose, &store.closeSec},
		{clearBoundary, &store.clearSec},
	} {
		t, err := time.Parse("15:04", item.value)
		if err != nil {
			return nil, fmt.Errorf("无效的时间配置 %q: %w", item.value, err)
		}
		*item.target = t.Hour()*3600 + t.Minute()*60
	}
	return store, nil
}

// todayFile 今日数据文件路径
func (s *Store) todayFile() string {
	return filepath.Join(s.dir, s.now().Format(dateLayout)+".json")
}

// secondOfDay 当日秒数
func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// inTradingWindow 是否在交易时段内（边界包含）
func (s *Store) inTradingWindow(t time.Time) bool {
	sec := secondOfDay(t)
	return sec >= s.openSec && sec <= s.closeSec
}

// isStale 判断已持久化的数据是否应视为过期：
// 上次更新在昨天或更早，或今天已过清零边界而上次更新在边界之前。
func (s *Store) isStale(data *snapshot) bool {
	if data.LastUpdate == "" {
		return false
	}
	lastUpdate, err := time.ParseInLocation(timestampLayout, data.LastUpdate, time.Local)
	if err != nil {
		return false
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if lastUpdate.Before(today) {
		return true
	}
	return secondOfDay(now) >= s.clearSec && lastUpdate.Before(today.Add(time.Duration(s.clearSec)*time.Second))
}

// emptySnapshot 今日的空数据
func (s *Store) emptySnapshot() *snapshot {
	return &snapshot{
		Date:  s.now().Format(dateLayout),
		Funds: map[string][]model.IntradayPoint{},
	}
}

// read 读取今日数据；文件缺失、损坏或内容过期时返回空数据，
// 磁盘上的旧内容保留到下一次成功写入或手动清零才被覆盖。
func (s *Store) read() *snapshot {
	raw, err := os.ReadFile(s.todayFile())
	if err != nil {
		return s.emptySnapshot()
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("日内数据文件损坏，按空数据处理: %v", err)
		return s.emptySnapshot()
	}
	if s.isStale(&data) {
		return s.emptySnapshot()
	}
	if data.Funds == nil {
		data.Funds = map[string][]model.IntradayPoint{}
	}
	return &data
}

// write 持久化今日数据，文件写入由互斥锁串行化
func (s *Store) write(data *snapshot) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化日内数据失败: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := os.WriteFile(s.todayFile(), raw, 0o644); err != nil {
		return fmt.Errorf("写入日内数据文件失败: %w", err)
	}
	return nil
}

// Save 记录单只基金的涨跌幅采样点
// timestamp 为 HH:MM:SS，留空时取当前时间；交易时段外返回 ErrMarketClosed。
func (s *Store) Save(code string, change float64, timestamp string) error {
	now := s.now()
	if !s.inTradingWindow(now) {
		return ErrMarketClosed
	}
	if timestamp == "" {
		timestamp = now.Format(clockLayout)
	}

	data := s.read()
	data.LastUpdate = now.Format(timestampLayout)
	data.Funds[code] = append(data.Funds[code], model.IntradayPoint{Time: timestamp, Change: change})
	return s.write(data)
}

// SaveBatch 批量记录多只基金的涨跌幅，同一批共享一个时间戳
// 涨跌幅为 nil 的基金跳过；交易时段外返回 ErrMarketClosed。
func (s *Store) SaveBatch(changes map[string]*float64) error {
	now := s.now()
	if !s.inTradingWindow(now) {
		return ErrMarketClosed
	}

	timestamp := now.Format(clockLayout)
	data := s.read()
	data.LastUpdate = now.Format(timestampLayout)
	for code, change := range changes {
		if change == nil {
			continue
		}
		data.Funds[code] = append(data.Funds[code], model.IntradayPoint{Time: timestamp, Change: *change})
	}
	return s.write(data)
}

// Get 获取单只基金今日的采样序列，没有数据时返回空切片
func (s *Store) Get(code string) []model.IntradayPoint {
	points := s.read().Funds[code]
	if points == nil {
		points = []model.IntradayPoint{}
	}
	return points
}

// GetBatch 批量获取多只基金今日的采样序列
func (s *Store) GetBatch(codes []string) map[string][]model.IntradayPoint {
	data := s.read()
	result := make(map[string][]model.IntradayPoint, len(codes))
	for _, code := range codes {
		points := data.Funds[code]
		if points == nil {
			points = []model.IntradayPoint{}
		}
		result[code] = points
	}
	return result
}

// Clear 无条件清零今日数据，不受交易时段限制
func (s *Store) Clear() error {
	return s.write(s.emptySnapshot())
}

// Sweep 删除按文件名日期计算早于 keepDays 的数据文件，返回删除数量
// 文件名解析不出日期的文件跳过不删。
func (s *Store) Sweep(keepDays int) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("读取日内数据目录失败: %v", err)
		return 0
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		fileDate, err := time.ParseInLocation(dateLayout, strings.TrimSuffix(name, ".json"), now.Location())
		if err != nil {
			continue
		}
		if int(today.Sub(fileDate).Hours()/24) > keepDays {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
				log.Printf("删除过期日内文件 %s 失败: %v", name, err)
				continue
			}
			deleted++
		}
	}
	return deleted
}
