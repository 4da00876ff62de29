package repository

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortytw2/leaktest"
	"github.com/gomodule/redigo/redis"
)

func TestNewRedisPool(t *testing.T) {
	defer leaktest.Check(t)()

	t.Run("should dial the given address with sensible defaults", func(t *testing.T) {
		s, err := miniredis.Run()
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()

		pool := NewRedisPool(s.Addr())
		defer pool.Close()

		if pool.MaxIdle != 2 {
			t.Errorf("got `%d`, want `%d` for pool MaxIdle", pool.MaxIdle, 2)
		}

		if pool.IdleTimeout != 4*time.Minute {
			t.Errorf("got `%v`, want `%v` for pool IdleTimeout", pool.IdleTimeout, 4*time.Minute)
		}

		conn := pool.Get()
		defer conn.Close()

		resp, err := redis.String(conn.Do("PING"))
		if err != nil {
			t.Fatal(err)
		}

		if resp != "PONG" {
			t.Errorf("got `%s`, want `%s` from Redis server", resp, "PONG")
		}

		if err := pool.TestOnBorrow(conn, time.Now().Add(-2*time.Minute)); err != nil {
			t.Errorf("idle connection failed the borrow check: %s", err)
		}
	})

	t.Run("should set options as provided", func(t *testing.T) {
		s, err := miniredis.Run()
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()

		dialled := false
		options := []RedisPoolOption{
			RedisPoolDial(func() (redis.Conn, error) {
				dialled = true
				return redis.Dial("tcp", s.Addr())
			}),
			RedisPoolIdleTimeout(42 * time.Second),
			RedisPoolMaxIdle(24),
			RedisPoolTestOnBorrow(func(c redis.Conn, tm time.Time) error {
				_, err := c.Do("PING")
				return err
			}),
		}

		pool := NewRedisPool("unused:0", options...)
		defer pool.Close()

		if pool.IdleTimeout != 42*time.Second {
			t.Errorf("got `%v`, want `%v` for pool IdleTimeout", pool.IdleTimeout, 42*time.Second)
		}

		if pool.MaxIdle != 24 {
			t.Errorf("got `%d`, want `%d` for pool MaxIdle", pool.MaxIdle, 24)
		}

		conn := pool.Get()
		defer conn.Close()

		values, err := redis.StringMap(conn.Do("HGETALL", DefaultConfigKey))
		if err != nil {
			t.Fatal(err)
		}

		if len(values) != 0 {
			t.Errorf("got %v, want an empty configuration hash", values)
		}

		if !dialled {
			t.Error("custom dial function was not used")
		}

		if err := pool.TestOnBorrow(conn, time.Now()); err != nil {
			t.Error(err)
		}
	})

	t.Run("should ping a connection left idle through quiet hours", func(t *testing.T) {
		s, err := miniredis.Run()
		if err != nil {
			t.Fatal(err)
		}

		pool := NewRedisPool(s.Addr())
		defer pool.Close()

		conn := pool.Get()
		defer conn.Close()

		if _, err := conn.Do("PING"); err != nil {
			t.Fatal(err)
		}

		s.Close()

		if err := pool.TestOnBorrow(conn, time.Now()); err != nil {
			t.Errorf("recently used connection should not be pinged: %s", err)
		}

		if err := pool.TestOnBorrow(conn, time.Now().Add(-6*time.Hour)); err == nil {
			t.Error("expected the borrow check to fail against a stopped server")
		}
	})
}
