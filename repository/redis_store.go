package repository

import (
	"strconv"
	"sync"

	"github.com/gomodule/redigo/redis"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/pkg/errors"
)

const DefaultConfigKey = "smartbusboard:config"

const (
	fieldStopPointRef        = "stop_point_ref"
	fieldStopTitle           = "stop_title"
	fieldNumberOfResults     = "number_of_results"
	fieldDesiredDestinations = "desired_destinations"
	fieldThreshold           = "threshold"
	fieldAPIKey              = "api_key"
	fieldEditorPort          = "editor_port"
)

var ErrNoConfiguration = errors.New("no configuration stored")

// RedisStore keeps the configuration in a single Redis hash so the editor
// and the board can run on different hosts.
type RedisStore struct {
	Logger *dlog.Logger
	Pool   ConnGetter
	Key    string

	mu sync.Mutex
}

func (rs *RedisStore) Document() (doc config.Document, err error) {
	rs.Logger.Debugf("read configuration hash `%s`", rs.Key)

	conn := rs.Pool.Get()
	defer func() {
		if cErr := conn.Close(); cErr != nil && err == nil {
			err = errors.Wrap(cErr, "cannot close Redis connection")
		}
	}()

	values, err := redis.StringMap(conn.Do("HGETALL", rs.Key))
	if err != nil {
		return config.Document{}, errors.Wrapf(err, "cannot read configuration hash `%s`", rs.Key)
	}

	if len(values) == 0 {
		return config.Document{}, errors.Wrapf(ErrNoConfiguration, "hash `%s` is empty", rs.Key)
	}

	return documentFromHash(values)
}

func (rs *RedisStore) Load() (config.Snapshot, error) {
	doc, err := rs.Document()
	if err != nil {
		return config.Snapshot{}, err
	}

	s, err := doc.Snapshot()
	if err != nil {
		return config.Snapshot{}, errors.Wrapf(err, "invalid configuration hash `%s`", rs.Key)
	}

	return s, nil
}

// Update rewrites the whole hash in one MULTI/EXEC so a reader never sees a
// half-applied edit. Updates from one process are serialised; the editor is
// the only writer.
func (rs *RedisStore) Update(fn func(*config.Document)) (err error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	doc, err := rs.Document()
	if err != nil && errors.Cause(err) != ErrNoConfiguration {
		return err
	}

	fn(&doc)

	args := redis.Args{}.Add(rs.Key)
	for field, value := range hashFromDocument(doc) {
		args = args.Add(field, value)
	}

	conn := rs.Pool.Get()
	defer func() {
		if cErr := conn.Close(); cErr != nil && err == nil {
			err = errors.Wrap(cErr, "cannot close Redis connection")
		}
	}()

	if err := conn.Send("MULTI"); err != nil {
		return errors.Wrap(err, "cannot start Redis transaction")
	}
	if err := conn.Send("DEL", rs.Key); err != nil {
		return errors.Wrapf(err, "cannot queue DEL `%s`", rs.Key)
	}
	if len(args) > 1 {
		if err := conn.Send("HSET", args...); err != nil {
			return errors.Wrapf(err, "cannot queue HSET `%s`", rs.Key)
		}
	}
	if _, err := conn.Do("EXEC"); err != nil {
		return errors.Wrapf(err, "cannot write configuration hash `%s`", rs.Key)
	}

	rs.Logger.Debugf("wrote configuration hash `%s`", rs.Key)

	return nil
}

func documentFromHash(values map[string]string) (config.Document, error) {
	doc := config.Document{}

	if v, ok := values[fieldStopPointRef]; ok {
		doc.SetStopPointRef(v)
	}
	if v, ok := values[fieldStopTitle]; ok {
		doc.SetStopTitle(v)
	}
	if v, ok := values[fieldDesiredDestinations]; ok {
		doc.SetDesiredDestinations(v)
	}
	if v, ok := values[fieldAPIKey]; ok {
		doc.APIKey = &v
	}

	ints := []struct {
		field string
		set   func(int)
	}{
		{fieldNumberOfResults, doc.SetNumberOfResults},
		{fieldThreshold, doc.SetThreshold},
		{fieldEditorPort, func(i int) { doc.EditorPort = &i }},
	}

	for _, i := range ints {
		v, ok := values[i.field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return config.Document{}, errors.Wrapf(err, "%s value `%s` is not valid", i.field, v)
		}
		i.set(n)
	}

	return doc, nil
}

func hashFromDocument(doc config.Document) map[string]string {
	hash := map[string]string{}

	if doc.StopPointRef != nil {
		hash[fieldStopPointRef] = *doc.StopPointRef
	}
	if doc.StopTitle != nil {
		hash[fieldStopTitle] = *doc.StopTitle
	}
	if doc.DesiredDestinations != nil {
		hash[fieldDesiredDestinations] = config.JoinDestinations(doc.DesiredDestinations)
	}
	if doc.APIKey != nil {
		hash[fieldAPIKey] = *doc.APIKey
	}
	if doc.NumberOfResults != nil {
		hash[fieldNumberOfResults] = strconv.Itoa(*doc.NumberOfResults)
	}
	if doc.Threshold != nil {
		hash[fieldThreshold] = strconv.Itoa(*doc.Threshold)
	}
	if doc.EditorPort != nil {
		hash[fieldEditorPort] = strconv.Itoa(*doc.EditorPort)
	}

	return hash
}
