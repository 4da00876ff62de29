package repository

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortytw2/leaktest"
	"github.com/gomodule/redigo/redis"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/pkg/errors"
	"github.com/rafaeljusto/redigomock/v3"
)

type mockPool struct {
	conn redis.Conn
}

func (m mockPool) Get() redis.Conn {
	return m.conn
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}

	pool := NewRedisPool(s.Addr())

	rs := &RedisStore{
		Logger: dlog.NewLogger(dlog.LoggerSetOutput(io.Discard)),
		Pool:   pool,
		Key:    DefaultConfigKey,
	}

	return rs, s, func() {
		pool.Close()
		s.Close()
	}
}

func TestRedisStore_Load(t *testing.T) {
	defer leaktest.Check(t)()

	t.Run("loads a complete hash", func(t *testing.T) {
		rs, s, done := newRedisStore(t)
		defer done()

		s.HSet(DefaultConfigKey,
			"stop_point_ref", "8503000",
			"stop_title", "Zürich HB",
			"number_of_results", "10",
			"desired_destinations", "Bern, Basel",
			"threshold", "-1",
			"api_key", "abc123",
			"editor_port", "8080",
		)

		snapshot, err := rs.Load()
		if err != nil {
			t.Fatal(err)
		}

		if snapshot.StopPointRef != "8503000" || snapshot.NumberOfResults != 10 || snapshot.Threshold != -1 || snapshot.EditorPort != 8080 {
			t.Errorf("unexpected snapshot %#v", snapshot)
		}

		if len(snapshot.DesiredDestinations) != 2 || snapshot.DesiredDestinations[1] != "Basel" {
			t.Errorf("unexpected destinations %#v", snapshot.DesiredDestinations)
		}
	})

	t.Run("fails loudly for an empty store", func(t *testing.T) {
		rs, _, done := newRedisStore(t)
		defer done()

		_, err := rs.Load()
		if errors.Cause(err) != ErrNoConfiguration {
			t.Errorf("got %v, want %v", err, ErrNoConfiguration)
		}
	})

	t.Run("fails for a missing required field", func(t *testing.T) {
		rs, s, done := newRedisStore(t)
		defer done()

		s.HSet(DefaultConfigKey, "stop_point_ref", "8503000", "api_key", "abc123")

		if _, err := rs.Load(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("fails for a non-numeric threshold", func(t *testing.T) {
		rs, s, done := newRedisStore(t)
		defer done()

		s.HSet(DefaultConfigKey, "threshold", "soon")

		if _, err := rs.Load(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("reports a Redis failure", func(t *testing.T) {
		conn := redigomock.NewConn()
		conn.Command("HGETALL", DefaultConfigKey).ExpectError(errors.New("connection reset"))

		rs := &RedisStore{
			Logger: dlog.NewLogger(dlog.LoggerSetOutput(io.Discard)),
			Pool:   mockPool{conn},
			Key:    DefaultConfigKey,
		}

		if _, err := rs.Load(); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestRedisStore_Update(t *testing.T) {
	defer leaktest.Check(t)()

	t.Run("writes a fresh hash", func(t *testing.T) {
		rs, s, done := newRedisStore(t)
		defer done()

		if err := rs.Update(func(d *config.Document) {
			d.SetStopPointRef("8591123")
			d.SetStopTitle("Hardbrücke")
			d.SetDesiredDestinations("all")
		}); err != nil {
			t.Fatal(err)
		}

		if got := s.HGet(DefaultConfigKey, "stop_point_ref"); got != "8591123" {
			t.Errorf("got `%s`, want `%s`", got, "8591123")
		}

		if s.HGet(DefaultConfigKey, "threshold") != "" {
			t.Error("threshold should not be written when unset")
		}
	})

	t.Run("keeps untouched fields", func(t *testing.T) {
		rs, s, done := newRedisStore(t)
		defer done()

		s.HSet(DefaultConfigKey,
			"stop_point_ref", "8503000",
			"stop_title", "Zürich HB",
			"number_of_results", "10",
			"desired_destinations", "all",
			"threshold", "2",
			"api_key", "abc123",
		)

		if err := rs.Update(func(d *config.Document) {
			d.SetThreshold(5)
		}); err != nil {
			t.Fatal(err)
		}

		snapshot, err := rs.Load()
		if err != nil {
			t.Fatal(err)
		}

		if snapshot.Threshold != 5 || snapshot.APIKey != "abc123" || snapshot.StopTitle != "Zürich HB" {
			t.Errorf("unexpected snapshot after update %#v", snapshot)
		}
	})

	t.Run("does not lose concurrent edits", func(t *testing.T) {
		rs, _, done := newRedisStore(t)
		defer done()

		const editors = 20

		var wg sync.WaitGroup
		errs := make(chan error, editors)
		for i := 0; i < editors; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- rs.Update(func(d *config.Document) {
					d.DesiredDestinations = append(d.DesiredDestinations, fmt.Sprintf("Stop %d", i))
				})
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Fatal(err)
			}
		}

		doc, err := rs.Document()
		if err != nil {
			t.Fatal(err)
		}

		if len(doc.DesiredDestinations) != editors {
			t.Errorf("got %d destinations, want %d: %v", len(doc.DesiredDestinations), editors, doc.DesiredDestinations)
		}
	})
}
