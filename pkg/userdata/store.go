// Package userdata 管理用户的自选基金、分组与设置，
// 持久化为本地JSON文件，全部操作经由一把互斥锁串行化。
package userdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"fundwatch/pkg/model"
)

// DefaultGroupID 默认分组，不可删除
const DefaultGroupID = "default"

const (
	watchlistFile = "watchlist.json"
	groupsFile    = "groups.json"
	settingsFile  = "settings.json"
)

// WatchFundUpdate 自选基金的部分更新，nil 字段不改动
type WatchFundUpdate struct {
	Name    *string  `json:"name"`
	GroupID *string  `json:"groupId"`
	Amount  *float64 `json:"amount"`
	Profit  *float64 `json:"profit"`
}

// Store 用户数据存储
type Store struct {
	dir   string
	mutex sync.Mutex
}

// NewStore 创建用户数据存储
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建用户数据目录失败: %w", err)
	}
	return &Store{dir: dir}, nil
}

// readJSON 读取JSON文件到 target，文件缺失或损坏时不改动 target
func (s *Store) readJSON(name string, target any) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, target)
}

// writeJSON 持久化JSON文件
func (s *Store) writeJSON(name string, data any) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", name, err)
	}
	return nil
}

// Watchlist 获取自选基金列表
func (s *Store) Watchlist() []model.WatchFund {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.watchlist()
}

func (s *Store) watchlist() []model.WatchFund {
	list := []model.WatchFund{}
	s.readJSON(watchlistFile, &list)
	return list
}

// AddFund 添加自选基金，代码已存在时返回 nil
func (s *Store) AddFund(fund model.WatchFund) (*model.WatchFund, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	list := s.watchlist()
	for _, item := range list {
		if item.Code == fund.Code {
			return nil, nil
		}
	}

	fund.ID = "fund_" + uuid.NewString()
	fund.AddedAt = time.Now().Format(time.RFC3339)
	if fund.GroupID == "" {
		fund.GroupID = DefaultGroupID
	}

	list = append(list, fund)
	if err := s.writeJSON(watchlistFile, list); err != nil {
		return nil, err
	}
	return &fund, nil
}

// RemoveFund 删除自选基金，返回是否删除了条目
func (s *Store) RemoveFund(id string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	list := s.watchlist()
	filtered := make([]model.WatchFund, 0, len(list))
	for _, item := range list {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(list) {
		return false, nil
	}
	return true, s.writeJSON(watchlistFile, filtered)
}

// UpdateFund 更新自选基金，不存在时返回 nil
func (s *Store) UpdateFund(id string, updates WatchFundUpdate) (*model.WatchFund, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	list := s.watchlist()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if updates.Name != nil {
			list[i].Name = *updates.Name
		}
		if updates.GroupID != nil {
			list[i].GroupID = *updates.GroupID
		}
		if updates.Amount != nil {
			list[i].Amount = updates.Amount
		}
		if updates.Profit != nil {
			list[i].Profit = updates.Profit
		}
		if err := s.writeJSON(watchlistFile, list); err != nil {
			return nil, err
		}
		return &list[i], nil
	}
	return nil, nil
}

// Groups 获取分组列表，默认分组缺失时自动补齐
func (s *Store) Groups() []model.FundGroup {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.groups()
}

func (s *Store) groups() []model.FundGroup {
	groups := []model.FundGroup{}
	s.readJSON(groupsFile, &groups)
	if len(groups) == 0 {
		groups = []model.FundGroup{{ID: DefaultGroupID, Name: "所有基金", Order: 0}}
		_ = s.writeJSON(groupsFile, groups)
	}
	return groups
}

// CreateGroup 创建分组
func (s *Store) CreateGroup(name string) (model.FundGroup, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	groups := s.groups()
	maxOrder := 0
	for _, g := range groups {
		if g.Order > maxOrder {
			maxOrder = g.Order
		}
	}

	group := model.FundGroup{
		ID:    "group_" + uuid.NewString(),
		Name:  name,
		Order: maxOrder + 1,
	}
	groups = append(groups, group)
	return group, s.writeJSON(groupsFile, groups)
}

// RenameGroup 重命名分组，不存在时返回 nil
func (s *Store) RenameGroup(id, name string) (*model.FundGroup, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	groups := s.groups()
	for i := range groups {
		if groups[i].ID == id {
			groups[i].Name = name
			if err := s.writeJSON(groupsFile, groups); err != nil {
				return nil, err
			}
			return &groups[i], nil
		}
	}
	return nil, nil
}

// DeleteGroup 删除分组并把组内基金移回默认分组；默认分组不可删
func (s *Store) DeleteGroup(id string) (bool, error) {
	if id == DefaultGroupID {
		return false, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	list := s.watchlist()
	moved := false
	for i := range list {
		if list[i].GroupID == id {
			list[i].GroupID = DefaultGroupID
			moved = true
		}
	}
	if moved {
		if err := s.writeJSON(watchlistFile, list); err != nil {
			return false, err
		}
	}

	groups := s.groups()
	filtered := make([]model.FundGroup, 0, len(groups))
	for _, g := range groups {
		if g.ID != id {
			filtered = append(filtered, g)
		}
	}
	if len(filtered) == len(groups) {
		return false, nil
	}
	return true, s.writeJSON(groupsFile, filtered)
}

// Settings 获取用户设置，缺省值在此补齐
func (s *Store) Settings() model.Settings {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	settings := model.Settings{
		HideAmount:      false,
		RefreshInterval: 5000,
		AppName:         "FM99",
	}
	s.readJSON(settingsFile, &settings)
	if settings.RefreshInterval <= 0 {
		settings.RefreshInterval = 5000
	}
	return settings
}

// SaveSettings 保存用户设置
func (s *Store) SaveSettings(settings model.Settings) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.writeJSON(settingsFile, settings)
}
