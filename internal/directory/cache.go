// Package directory holds the process-wide doctor directory cache: the
// single source of truth for the doctor list across every view.
package directory

import (
	"context"
	"sync"

	"clinic-booking-client/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Lister is the slice of the API client the cache depends on.
type Lister interface {
	ListDoctors(ctx context.Context) ([]entity.Doctor, error)
}

// Snapshot is a point-in-time read of the cache.
type Snapshot struct {
	Doctors []entity.Doctor
	Loading bool
	Err     error
}

// Cache caches the last successfully fetched doctor list. The only
// writer is Refresh; a successful refresh replaces the whole list, a
// failed one records the error and leaves previously cached data alone.
type Cache struct {
	log *logrus.Logger
	api Lister

	group singleflight.Group

	mu      sync.RWMutex
	doctors []entity.Doctor
	loading bool
	err     error
}

func NewCache(api Lister, log *logrus.Logger) *Cache {
	return &Cache{
		log: log,
		api: api,
	}
}

// Refresh fetches the doctor list and replaces the cached one on
// success. Concurrent calls collapse into a single upstream fetch;
// latecomers wait for the in-flight result instead of issuing their own.
func (c *Cache) Refresh(ctx context.Context) ([]entity.Doctor, error) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	v, err, shared := c.group.Do("doctors", func() (interface{}, error) {
		doctors, fetchErr := c.api.ListDoctors(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.loading = false
		if fetchErr != nil {
			// Keep stale data: a failed refresh must not clear a good list.
			c.err = fetchErr
			c.log.Warnf("Doctor directory refresh failed: %v", fetchErr)
			return nil, fetchErr
		}
		c.doctors = doctors
		c.err = nil
		c.log.Infof("Doctor directory refreshed: %d doctors", len(doctors))
		return doctors, nil
	})
	if shared {
		c.log.Debug("Doctor directory refresh joined an in-flight fetch")
	}
	if err != nil {
		return nil, err
	}
	return v.([]entity.Doctor), nil
}

// Snapshot returns the current list, loading flag and error. The slice
// is never mutated in place, so callers may read it freely.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Doctors: c.doctors,
		Loading: c.loading,
		Err:     c.err,
	}
}
