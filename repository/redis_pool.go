package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

// ConnGetter is the part of *redis.Pool the stores use.
type ConnGetter interface {
	Get() redis.Conn
}

type RedisPoolOption struct {
	f func(*redis.Pool)
}

func RedisPoolDial(f func() (redis.Conn, error)) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.Dial = f
	}}
}

func RedisPoolIdleTimeout(timeout time.Duration) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.IdleTimeout = timeout
	}}
}

func RedisPoolMaxIdle(i int) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.MaxIdle = i
	}}
}

func RedisPoolTestOnBorrow(f func(c redis.Conn, t time.Time) error) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.TestOnBorrow = f
	}}
}

// NewRedisPool returns a small pool for address. The board and the editor
// each hold one or two connections at most, and an idle connection is
// pinged before reuse because the board may sit in quiet mode for hours.
func NewRedisPool(address string, options ...RedisPoolOption) *redis.Pool {
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address)
		},
		MaxIdle:     2,
		IdleTimeout: 4 * time.Minute,
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	for _, option := range options {
		option.f(pool)
	}

	return pool
}
