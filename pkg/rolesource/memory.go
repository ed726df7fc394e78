package rolesource

import (
	"context"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// memorySource serves a fixed role set from memory. The constructor takes a
// deep copy and normalizes it once, so Load is a read-only operation and
// safe for concurrent use.
type memorySource struct {
	roles []rbac.Role
	err   error
}

// NewMemorySource creates a Source over an in-memory role set. The input is
// deep-copied, validated and assigned generated permission IDs up front; an
// invalid set surfaces on Load.
func NewMemorySource(roles []rbac.Role) Source {
	normalized, err := normalizeRoles(cloneRoles(roles))
	if err != nil {
		return &memorySource{err: err}
	}
	return &memorySource{roles: normalized}
}

// Load returns the validated role set. The returned slice is shared across
// calls and must be treated as read-only.
func (s *memorySource) Load(ctx context.Context) ([]rbac.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles, nil
}
