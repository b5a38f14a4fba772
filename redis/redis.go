package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/config"
	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/metrics"
	"github.com/meinhoongagan/clinic-app/models"
)

const (
	doctorListKey    = "clinic:doctors:list"
	doctorListGenKey = "clinic:doctors:list:gen"
)

var errStaleList = errors.New("doctor list generation changed")

// Connect opens a client and checks it with a ping. It returns nil, nil when REDIS_ADDR is unset.
func Connect(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// DoctorListCache keeps the public doctor list, slot maps included, for a short TTL.
type DoctorListCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logrus.Entry
}

func NewDoctorListCache(client *goredis.Client, ttl time.Duration, log *logger.Logger) *DoctorListCache {
	return &DoctorListCache{
		client: client,
		ttl:    ttl,
		log:    log.WithComponent("doctor_cache"),
	}
}

// Get returns the cached list. On a miss it returns the generation stamp to hand back to Set.
// Any redis failure counts as a miss.
func (c *DoctorListCache) Get(ctx context.Context) ([]models.Doctor, int64, bool) {
	vals, err := c.client.MGet(ctx, doctorListKey, doctorListGenKey).Result()
	if err != nil {
		c.log.WithError(err).Warn("Failed to read doctor list from cache")
		metrics.DoctorListCache.WithLabelValues("miss").Inc()
		return nil, -1, false
	}

	stamp := int64(0)
	if gen, ok := vals[1].(string); ok {
		if stamp, err = strconv.ParseInt(gen, 10, 64); err != nil {
			c.log.WithError(err).Warn("Unreadable doctor list generation")
			metrics.DoctorListCache.WithLabelValues("miss").Inc()
			return nil, -1, false
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		metrics.DoctorListCache.WithLabelValues("miss").Inc()
		return nil, stamp, false
	}

	var doctors []models.Doctor
	if err := json.Unmarshal([]byte(raw), &doctors); err != nil {
		c.log.WithError(err).Warn("Discarding unreadable doctor list cache entry")
		metrics.DoctorListCache.WithLabelValues("miss").Inc()
		return nil, stamp, false
	}
	metrics.DoctorListCache.WithLabelValues("hit").Inc()
	return doctors, stamp, true
}

// Set stores the list unless the cache was invalidated after stamp was read, so a list loaded
// before a slot change never outlives that change.
func (c *DoctorListCache) Set(ctx context.Context, stamp int64, doctors []models.Doctor) {
	if stamp < 0 {
		return
	}
	raw, err := json.Marshal(doctors)
	if err != nil {
		c.log.WithError(err).Warn("Failed to encode doctor list")
		return
	}

	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		gen, err := tx.Get(ctx, doctorListGenKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if gen != stamp {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, doctorListKey, raw, c.ttl)
			return nil
		})
		return err
	}, doctorListGenKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleList), errors.Is(err, goredis.TxFailedErr):
		c.log.Debug("Doctor list changed while loading, not caching it")
	default:
		c.log.WithError(err).Warn("Failed to write doctor list to cache")
	}
}

// Invalidate drops the cached list and bumps its generation so in-flight loads are not stored.
func (c *DoctorListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, doctorListGenKey)
		pipe.Del(ctx, doctorListKey)
		return nil
	})
	return err
}
