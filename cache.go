// FILE: lixenwraith/flatconfig/cache.go
package flatconfig

import (
	"maps"
	"slices"
)

// cache holds the merged flat namespace. Callers hold the Service lock.
type cache struct {
	values FlatMap
}

func newCache() *cache {
	return &cache{values: make(FlatMap)}
}

// merge copies every entry of flat into the cache; later writers win.
func (c *cache) merge(flat FlatMap) {
	maps.Copy(c.values, flat)
}

func (c *cache) set(key string, value any) {
	c.values[key] = value
}

func (c *cache) get(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}

func (c *cache) has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// keys returns every key in sorted order.
func (c *cache) keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

func (c *cache) snapshot() FlatMap {
	return maps.Clone(c.values)
}

func (c *cache) clear() {
	clear(c.values)
}

func (c *cache) len() int {
	return len(c.values)
}
