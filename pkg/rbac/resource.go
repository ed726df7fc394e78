package rbac

import (
	"slices"
	"sync"
)

// Resource is the kind of protected object a permission applies to. Unlike
// Action, the set is open: applications register their own kinds with
// RegisterResource, typically from an init function or during startup.
type Resource string

// Built-in resource kinds common to SaaS backends. Applications extend the
// set via RegisterResource.
const (
	ResourceUser       Resource = "user"
	ResourceRole       Resource = "role"
	ResourcePermission Resource = "permission"
	ResourceTenant     Resource = "tenant"
	ResourceProject    Resource = "project"
	ResourceEstimate   Resource = "estimate"
	ResourceInvoice    Resource = "invoice"
	ResourceClient     Resource = "client"
	ResourceTask       Resource = "task"
	ResourceReport     Resource = "report"
	ResourceSetting    Resource = "setting"
	ResourceAuditLog   Resource = "audit_log"
)

// resourceRegistry holds every registered resource kind. Registration is
// expected at startup; reads dominate afterwards, hence the RWMutex.
var resourceRegistry = struct {
	mu    sync.RWMutex
	kinds map[Resource]struct{}
}{
	kinds: map[Resource]struct{}{
		ResourceUser:       {},
		ResourceRole:       {},
		ResourcePermission: {},
		ResourceTenant:     {},
		ResourceProject:    {},
		ResourceEstimate:   {},
		ResourceInvoice:    {},
		ResourceClient:     {},
		ResourceTask:       {},
		ResourceReport:     {},
		ResourceSetting:    {},
		ResourceAuditLog:   {},
	},
}

// RegisterResource adds a resource kind to the registry. Registering an
// already-known kind is a no-op. Empty kinds are ignored.
func RegisterResource(r Resource) {
	if r == "" {
		return
	}
	resourceRegistry.mu.Lock()
	defer resourceRegistry.mu.Unlock()
	resourceRegistry.kinds[r] = struct{}{}
}

// RegisterResources registers multiple resource kinds at once.
func RegisterResources(rs ...Resource) {
	for _, r := range rs {
		RegisterResource(r)
	}
}

// ResourceRegistered reports whether r is a known resource kind.
func ResourceRegistered(r Resource) bool {
	resourceRegistry.mu.RLock()
	defer resourceRegistry.mu.RUnlock()
	_, ok := resourceRegistry.kinds[r]
	return ok
}

// Resources returns every registered resource kind, sorted for determinism.
func Resources() []Resource {
	resourceRegistry.mu.RLock()
	defer resourceRegistry.mu.RUnlock()
	result := make([]Resource, 0, len(resourceRegistry.kinds))
	for r := range resourceRegistry.kinds {
		result = append(result, r)
	}
	slices.Sort(result)
	return result
}
