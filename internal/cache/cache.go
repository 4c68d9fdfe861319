package cache

import (
	"errors"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	minSizeMB = 1
	// entries expire even without a write, so rows changed outside the API are picked up eventually
	defaultExpireSeconds = 300
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Generation() uint64
	SetIfGeneration(key string, value []byte, generation uint64) bool
	Clear()
}

var _ Cache = (*ResponseCache)(nil)

// ResponseCache holds serialized responses in a fixed size freecache segment.
// Every Clear starts a new generation; a value loaded before a Clear is never stored after it.
type ResponseCache struct {
	mainCache     *freecache.Cache
	expireSeconds int

	mutex      sync.RWMutex
	generation uint64
}

func NewResponseCache(sizeMB int) *ResponseCache {
	if sizeMB < minSizeMB {
		sizeMB = minSizeMB
	}
	return &ResponseCache{
		mainCache:     freecache.NewCache(sizeMB * 1024 * 1024),
		expireSeconds: defaultExpireSeconds,
	}
}

func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	value, err := rc.mainCache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("response cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	return value, true
}

// Generation is taken before loading a value that is later passed to SetIfGeneration.
func (rc *ResponseCache) Generation() uint64 {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()
	return rc.generation
}

// SetIfGeneration stores value unless the cache was cleared since generation was taken.
func (rc *ResponseCache) SetIfGeneration(key string, value []byte, generation uint64) bool {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()

	if generation != rc.generation {
		log.Tracef("response cache set [%s]: cleared while loading, skipped", key)
		return false
	}
	if err := rc.mainCache.Set([]byte(key), value, rc.expireSeconds); err != nil {
		// freecache rejects values larger than 1/1024 of its size
		log.Warnf("response cache set [%s] (%d bytes): %s", key, len(value), err)
		return false
	}
	return true
}

func (rc *ResponseCache) Clear() {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	rc.generation++
	rc.mainCache.Clear()
}

func (rc *ResponseCache) EntryCount() int64 {
	return rc.mainCache.EntryCount()
}
