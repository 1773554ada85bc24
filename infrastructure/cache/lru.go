package cache

import (
	"container/list"
	"sync"
)

// NamespaceLRU is a fixed-capacity LRU cache whose keys are grouped into
// namespaces that can be dropped together.
type NamespaceLRU[V any] struct {
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex

	hits   uint64
	misses uint64
}

type entry[V any] struct {
	namespace string
	key       string
	value     V
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Len    int    `json:"len"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewNamespaceLRU creates a cache holding at most capacity entries. A
// capacity below one is raised to one.
func NewNamespaceLRU[V any](capacity int) *NamespaceLRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &NamespaceLRU[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}

// Set adds or replaces the value under namespace and key.
func (c *NamespaceLRU[V]) Set(namespace, key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry[V]).value = value
		return
	}

	c.items[ck] = c.queue.PushFront(&entry[V]{
		namespace: namespace,
		key:       key,
		value:     value,
	})

	if c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get returns the value under namespace and key and marks it recently used.
func (c *NamespaceLRU[V]) Get(namespace, key string) (V, bool) {
	// write lock: a hit reorders the queue
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[compositeKey(namespace, key)]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.queue.MoveToFront(element)
	return element.Value.(*entry[V]).value, true
}

// Invalidate removes a single entry.
func (c *NamespaceLRU[V]) Invalidate(namespace, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.Remove(element)
		delete(c.items, ck)
	}
}

// InvalidateNamespace removes every entry of namespace.
func (c *NamespaceLRU[V]) InvalidateNamespace(namespace string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for element := c.queue.Front(); element != nil; {
		next := element.Next()
		e := element.Value.(*entry[V])
		if e.namespace == namespace {
			c.queue.Remove(element)
			delete(c.items, compositeKey(e.namespace, e.key))
		}
		element = next
	}
}

// Stats returns the current size and hit counters.
func (c *NamespaceLRU[V]) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Stats{Len: c.queue.Len(), Hits: c.hits, Misses: c.misses}
}

// evict removes the least recently used entry.
func (c *NamespaceLRU[V]) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}

	c.queue.Remove(element)
	e := element.Value.(*entry[V])
	delete(c.items, compositeKey(e.namespace, e.key))
}
