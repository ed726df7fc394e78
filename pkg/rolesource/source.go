package rolesource

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// Source provides role data to the engine. Implementations must return
// records the caller may hold onto: subsequent Loads must not invalidate
// previously returned slices.
type Source interface {
	Load(ctx context.Context) ([]rbac.Role, error)
}

// normalizeRoles validates a loaded role set and assigns generated IDs to
// permissions that lack them. The input is modified in place and returned;
// callers pass freshly decoded or freshly copied data.
func normalizeRoles(roles []rbac.Role) ([]rbac.Role, error) {
	seen := make(map[string]struct{}, len(roles))

	for i := range roles {
		role := &roles[i]
		if role.ID == "" {
			return nil, errors.Join(ErrMissingRoleID, fmt.Errorf("role at index %d", i))
		}
		if _, dup := seen[role.ID]; dup {
			return nil, errors.Join(ErrDuplicateRoleID, fmt.Errorf("role %q", role.ID))
		}
		seen[role.ID] = struct{}{}

		if !role.Scope.Valid() {
			return nil, errors.Join(ErrUnknownScope, fmt.Errorf("role %q has scope %q", role.ID, role.Scope))
		}

		for j := range role.Permissions {
			perm := &role.Permissions[j]
			if !perm.Action.Valid() {
				return nil, errors.Join(ErrUnknownAction, fmt.Errorf("role %q permission %d has action %q", role.ID, j, perm.Action))
			}
			if !perm.Scope.Valid() {
				return nil, errors.Join(ErrUnknownScope, fmt.Errorf("role %q permission %d has scope %q", role.ID, j, perm.Scope))
			}
			if !rbac.ResourceRegistered(perm.Resource) {
				return nil, errors.Join(ErrUnknownResource, fmt.Errorf("role %q permission %d has resource %q", role.ID, j, perm.Resource))
			}
			if perm.Scope.Rank() > role.Scope.Rank() {
				return nil, errors.Join(ErrScopeExceedsRole,
					fmt.Errorf("role %q (%s) carries %s permission %q", role.ID, role.Scope, perm.Scope, perm.ID))
			}
			if perm.ID == "" {
				perm.ID = uuid.NewString()
			}
		}
	}

	return roles, nil
}

// cloneRoles deep-copies a role set so sources can hand out data without
// sharing mutable state with the caller.
func cloneRoles(roles []rbac.Role) []rbac.Role {
	cloned := make([]rbac.Role, len(roles))
	for i, role := range roles {
		cloned[i] = role
		cloned[i].Permissions = slices.Clone(role.Permissions)
		for j, perm := range cloned[i].Permissions {
			cloned[i].Permissions[j].Conditions = maps.Clone(perm.Conditions)
		}
		cloned[i].ParentRoles = slices.Clone(role.ParentRoles)
		cloned[i].Metadata = maps.Clone(role.Metadata)
	}
	return cloned
}
