package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 原子 INCR，首次命中设置过期；返回 {count, ttl_ms}
var fixedWindowScript = redis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // 放行时为 0
}

// FixedWindow 基于 redis 的固定窗口限流
type FixedWindow struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewFixedWindow(rdb *redis.Client, prefix string, limit int, window time.Duration) *FixedWindow {
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow rdb 为空或 limit<=0 时直接放行
func (l *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return Decision{Allowed: true, Limit: l.limitOrZero(), Remaining: l.limitOrZero()}, nil
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("throttle eval: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("throttle eval: unexpected result %v", res)
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond

	d := Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(0, l.limit-count),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
		if d.RetryAfter <= 0 {
			d.RetryAfter = l.window
		}
	}
	return d, nil
}

// Reset 登录成功后清空计数
func (l *FixedWindow) Reset(ctx context.Context, key string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, l.prefix+key).Err()
}

func (l *FixedWindow) limitOrZero() int {
	if l == nil {
		return 0
	}
	return l.limit
}
