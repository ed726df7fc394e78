package resolvecache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/authzkit/authzkit/pkg/hierarchy"
	"github.com/authzkit/authzkit/pkg/rbac"
)

// Cache is a bounded, thread-safe memoization layer over
// hierarchy.ResolveEffectivePermissions. Entries are keyed by role ID,
// role-set content hash and options fingerprint; least recently used
// entries are evicted at capacity.
type Cache struct {
	entries *lru.Cache[string, hierarchy.ResolveResult]
}

// New creates a cache holding up to capacity resolution results. Capacity
// must be positive.
func New(capacity int) (*Cache, error) {
	entries, err := lru.New[string, hierarchy.ResolveResult](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Resolve returns the effective permission set for roleID, computing and
// caching it on a miss. Results are shared between callers and must be
// treated as read-only.
//
// Calls with a CustomResolver are computed directly and never cached; see
// the package documentation.
func (c *Cache) Resolve(roleID string, roles []rbac.Role, opts hierarchy.ResolveOptions) hierarchy.ResolveResult {
	if opts.CustomResolver != nil {
		return hierarchy.ResolveEffectivePermissions(roleID, roles, opts)
	}

	key, ok := cacheKey(roleID, roles, opts)
	if !ok {
		return hierarchy.ResolveEffectivePermissions(roleID, roles, opts)
	}

	if result, hit := c.entries.Get(key); hit {
		return result
	}

	result := hierarchy.ResolveEffectivePermissions(roleID, roles, opts)
	c.entries.Add(key, result)
	return result
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// cacheKey fingerprints one resolution call. Role sets hash via their
// canonical JSON rendering (struct field order is fixed and map keys are
// sorted by encoding/json), so equal sets hash equal regardless of how they
// were produced. Role sets containing unencodable attribute values cannot
// be keyed and report ok=false.
func cacheKey(roleID string, roles []rbac.Role, opts hierarchy.ResolveOptions) (string, bool) {
	encoded, err := json.Marshal(roles)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%x|%s|%d|%t",
		roleID,
		xxhash.Sum64(encoded),
		opts.ConflictResolution,
		opts.MaxDepth,
		opts.IncludeInheritancePath,
	), true
}
