// Package resolvecache memoizes effective-permission resolution.
//
// Resolution is a pure function of (role ID, role set, options), which makes
// it safe to cache: the cache key is the role ID plus a content hash of the
// role set plus a fingerprint of the options, so any change to any role
// yields a different key rather than a stale hit. Nothing is ever
// invalidated by mutation; stale entries simply age out of the LRU.
//
// The cache sits outside the engine. pkg/hierarchy stays stateless; this
// package is the layer deployments put in front of it when resolution is on
// a hot path, for example when stamping effective permissions into token
// claims on every login.
//
//	cache, err := resolvecache.New(1024)
//	if err != nil {
//	    // capacity must be positive
//	}
//	result := cache.Resolve("admin", roles, hierarchy.ResolveOptions{})
//
// Calls using a custom ConflictResolver bypass the cache: a function value
// has no stable identity to key on, and caching around it could silently
// serve results from a different resolver.
package resolvecache
