package backlinks

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wsqstar/ppage/internal/models"
)

// Resolver memoizes Resolve per index version and document id. It is safe
// for concurrent use; entries of superseded versions simply expire.
type Resolver struct {
	cache *cache.Cache
}

// NewResolver creates a Resolver whose entries live for ttl. A non-positive
// ttl keeps entries until the process exits.
func NewResolver(ttl time.Duration) *Resolver {
	if ttl <= 0 {
		return &Resolver{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &Resolver{cache: cache.New(ttl, 2*ttl)}
}

// Resolve returns the cached link set of doc for version, computing it on a miss.
// The second result reports a cache hit.
func (r *Resolver) Resolve(version uint64, doc models.Document, idx Index, lookup map[string]models.Document) (models.Links, bool) {
	key := strconv.FormatUint(version, 10) + ":" + doc.ID
	if x, found := r.cache.Get(key); found {
		return x.(models.Links), true
	}
	links := Resolve(doc, idx, lookup)
	r.cache.Set(key, links, cache.DefaultExpiration)
	return links, false
}

// Flush drops every cached entry.
func (r *Resolver) Flush() {
	r.cache.Flush()
}

// Len reports the number of cached entries, including expired ones not yet purged.
func (r *Resolver) Len() int {
	return r.cache.ItemCount()
}
