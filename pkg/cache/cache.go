package cache

import (
	"sync"
	"time"
)

// entry 缓存条目，记录写入时间用于过期判断与淘汰
type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache 带容量上限和TTL的内存缓存
// 过期在读取时惰性判断，条目在写入超限时按最早写入淘汰。
// 相同key的并发miss会各自回源，这里不做请求合并。
type Cache[V any] struct {
	ttl        time.Duration
	maxEntries int

	mutex sync.Mutex
	items map[string]entry[V]
	now   func() time.Time
}

// New 创建缓存，maxEntries 为条目上限，ttl 为有效期
func New[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]entry[V]),
		now:        time.Now,
	}
}

// Get 读取未过期的缓存值
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.items[key]
	if !ok || c.now().Sub(e.insertedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set 写入缓存，超限时淘汰最早写入的条目
func (c *Cache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.set(key, value)
}

func (c *Cache[V]) set(key string, value V) {
	c.items[key] = entry[V]{value: value, insertedAt: c.now()}

	for c.maxEntries > 0 && len(c.items) > c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for k, e := range c.items {
			if first || e.insertedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.insertedAt
				first = false
			}
		}
		delete(c.items, oldestKey)
	}
}

// GetOrCompute 命中时返回缓存值，未命中时回源并缓存成功结果
// 回源出错时不缓存，错误原样返回给调用方处理。
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mutex.Lock()
	c.set(key, v)
	c.mutex.Unlock()
	return v, nil
}

// Len 返回当前条目数（含已过期未淘汰的条目）
func (c *Cache[V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
