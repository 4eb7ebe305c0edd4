package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decide si se admite una evaluacion mas para la clave dada
// dentro de la ventana configurada.
type RateLimiter interface {
	Allow(key string) bool
}

const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisRateLimiter limita por clave usando INCR+EXPIRE atomicos.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	return newRedisRateLimiter(client, window, max)
}

func newRedisRateLimiter(client redisEvaler, window time.Duration, max int) *redisRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "assess:rl:",
	}
}

func (l *redisRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		// Ante un fallo de Redis preferimos no bloquear evaluaciones.
		return true
	}
	return count <= l.max
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	counts  map[string]int
	resetAt map[string]time.Time
}

// NewMemoryRateLimiter es el fallback cuando no hay Redis configurado.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryRateLimiter{
		window:  window,
		max:     max,
		counts:  make(map[string]int),
		resetAt: make(map[string]time.Time),
	}
}

func (l *memoryRateLimiter) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if reset, ok := l.resetAt[key]; !ok || now.After(reset) {
		l.counts[key] = 0
		l.resetAt[key] = now.Add(l.window)
	}
	l.counts[key]++
	return l.counts[key] <= l.max
}
