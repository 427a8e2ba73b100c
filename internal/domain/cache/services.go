package cache

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidPolicy 无效的淘汰策略错误
	ErrInvalidPolicy = errors.New("无效的淘汰策略")
	// ErrClockExhausted 逻辑时钟耗尽错误
	ErrClockExhausted = errors.New("逻辑时钟已耗尽")
)

// Policy 淘汰策略类型
type Policy string

const (
	// PolicyClock 二次机会（CLOCK）淘汰策略
	PolicyClock Policy = "clock"
	// PolicyFIFO 先进先出淘汰策略
	PolicyFIFO Policy = "fifo"
	// PolicyLRU 最近最少使用淘汰策略
	PolicyLRU Policy = "lru"
)

// ParsePolicy 解析淘汰策略名称，大小写不敏感
// name: 策略名称 ("clock", "fifo", "lru")
// 返回: Policy和错误信息
func ParsePolicy(name string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
	return p, nil
}

// IsValid 检查策略是否为已知类型
func (p Policy) IsValid() bool {
	switch p {
	case PolicyClock, PolicyFIFO, PolicyLRU:
		return true
	}
	return false
}

// String 返回策略名称
func (p Policy) String() string {
	return string(p)
}

// EmptyTimestamp 槽位为空时的时间戳哨兵值
const EmptyTimestamp uint64 = 0

// LogicalClock 单调递增的逻辑时钟
// 从1开始，每次Tick先加一再返回，因此返回值永远不等于EmptyTimestamp
type LogicalClock struct {
	now uint64
}

// NewLogicalClock 创建逻辑时钟
func NewLogicalClock() *LogicalClock {
	return &LogicalClock{now: 1}
}

// NewLogicalClockAt 从指定时间恢复逻辑时钟
// now小于1时按1处理，保证不会回到EmptyTimestamp
func NewLogicalClockAt(now uint64) *LogicalClock {
	if now < 1 {
		now = 1
	}
	return &LogicalClock{now: now}
}

// Now 返回当前时间
func (c *LogicalClock) Now() uint64 {
	return c.now
}

// Tick 推进时钟并返回新时间
// 到达上限时返回ErrClockExhausted，不会回绕到哨兵值
func (c *LogicalClock) Tick() (uint64, error) {
	if c.now == math.MaxUint64 {
		return 0, ErrClockExhausted
	}
	c.now++
	return c.now, nil
}
