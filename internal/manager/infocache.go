package manager

import (
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"
)

// infoCache memoizes backend diagnostics per fitted model generation. Fitted
// models never change, so an entry stays valid until its model is removed or
// evicted.
type infoCache struct {
	c *lru.Cache[string, map[string]any]
}

func newInfoCache(size int) *infoCache {
	if size <= 0 {
		size = defaultInfoCacheSize
	}
	c, err := lru.New[string, map[string]any](size)
	if err != nil {
		// only returned for size <= 0
		panic(err)
	}
	return &infoCache{c: c}
}

// get returns a copy of the diagnostics for generation id, computing them on a miss.
func (ic *infoCache) get(id string, f Fitted) map[string]any {
	if info, ok := ic.c.Get(id); ok {
		return maps.Clone(info)
	}
	ip, ok := f.(InfoProvider)
	if !ok {
		return nil
	}
	info := ip.Info()
	if info == nil {
		info = map[string]any{}
	}
	ic.c.Add(id, info)
	return maps.Clone(info)
}

func (ic *infoCache) forget(id string) { ic.c.Remove(id) }

func (ic *infoCache) len() int { return ic.c.Len() }
