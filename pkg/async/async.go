package async

import "sync"

type (
	// ConcurrentMap is a map safe for use by multiple goroutines. The zero value is ready to use.
	ConcurrentMap[K comparable, V any] struct {
		mu sync.RWMutex
		m  map[K]V
	}

	MapEntry[K comparable, V any] struct {
		Key   K
		Value V
	}
)

// initForWrite caller must hold a write lock. Reads must all be compatible with a nil map.
func (cf *ConcurrentMap[K, V]) initForWrite() {
	if cf.m == nil {
		cf.m = make(map[K]V)
	}
}

func (cf *ConcurrentMap[K, V]) Len() int {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	return len(cf.m)
}

func (cf *ConcurrentMap[K, V]) Set(k K, v V) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.initForWrite()
	cf.m[k] = v
}

func (cf *ConcurrentMap[K, V]) Get(k K) (v V, ok bool) {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	if cf.m != nil {
		v, ok = cf.m[k]
	}
	return
}

func (cf *ConcurrentMap[K, V]) Entries() []MapEntry[K, V] {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	if cf.m == nil {
		return nil
	}
	kvs := make([]MapEntry[K, V], 0, len(cf.m))
	for k, v := range cf.m {
		kvs = append(kvs, MapEntry[K, V]{Key: k, Value: v})
	}
	return kvs
}
