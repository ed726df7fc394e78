package hierarchy

import (
	"slices"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// ConflictResolution selects the built-in policy applied when permissions
// inherited from different roles collide on the same (resource, action,
// scope) key.
type ConflictResolution string

const (
	// MostPermissive keeps a granting permission from the conflicted group
	// whenever any source grants; ties resolve toward granting. Default.
	MostPermissive ConflictResolution = "most-permissive"

	// LeastPermissive drops the conflicted group entirely. This is a
	// deliberately conservative policy, not a true least-permissive merge;
	// callers needing real least-permissive semantics supply a
	// ConflictResolver.
	LeastPermissive ConflictResolution = "least-permissive"

	// ExplicitOnly keeps a conflicted group only when the role being
	// resolved contributed to it itself; groups sourced purely from
	// ancestors are dropped.
	ExplicitOnly ConflictResolution = "explicit-only"
)

// DefaultMaxDepth bounds inheritance traversal when ResolveOptions does not
// set one. It doubles as a safety valve on malformed graphs.
const DefaultMaxDepth = 10

// ConflictContext describes one conflicted permission group to a resolver.
type ConflictContext struct {
	// RoleID is the role whose effective permissions are being resolved.
	RoleID string

	Resource rbac.Resource
	Action   rbac.Action
	Scope    rbac.Scope

	// SourceRoles lists the distinct roles that contributed to the group,
	// in traversal order (the target role first when it contributed).
	SourceRoles []string
}

// ConflictResolver is the injection point for custom conflict policies. Its
// output is used verbatim as the group's contribution to the effective set;
// returning nil drops the group.
type ConflictResolver interface {
	Resolve(conflicting []rbac.Permission, ctx ConflictContext) []rbac.Permission
}

// ConflictResolverFunc adapts a function to the ConflictResolver interface.
type ConflictResolverFunc func(conflicting []rbac.Permission, ctx ConflictContext) []rbac.Permission

func (f ConflictResolverFunc) Resolve(conflicting []rbac.Permission, ctx ConflictContext) []rbac.Permission {
	return f(conflicting, ctx)
}

// ResolveOptions tunes effective-permission resolution. The zero value is
// usable: most-permissive policy, DefaultMaxDepth, no trace.
type ResolveOptions struct {
	ConflictResolution     ConflictResolution
	MaxDepth               int
	IncludeInheritancePath bool
	CustomResolver         ConflictResolver
}

// TraceEntry records one visited role during resolution, in visit order.
type TraceEntry struct {
	RoleID           string `json:"role_id"`
	RoleName         string `json:"role_name,omitempty"`
	Depth            int    `json:"depth"`
	PermissionsAdded int    `json:"permissions_added"`
}

// ResolvedConflict reports how one conflicted group was decided.
type ResolvedConflict struct {
	Resource    rbac.Resource `json:"resource"`
	Action      rbac.Action   `json:"action"`
	Scope       rbac.Scope    `json:"scope"`
	Decision    string        `json:"decision"`
	SourceRoles []string      `json:"source_roles"`
}

// Conflict decisions recorded in ResolvedConflict.Decision.
const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
	DecisionDropped = "dropped"
	DecisionKept    = "kept"
	DecisionCustom  = "custom"
)

// ResolveResult is the outcome of flattening one role's inheritance graph.
type ResolveResult struct {
	// Permissions is the deduplicated effective set, in traversal order.
	Permissions []rbac.Permission `json:"permissions"`

	// InheritancePath traces the visited roles when requested.
	InheritancePath []TraceEntry `json:"inheritance_path,omitempty"`

	// ConflictsResolved has one entry per (resource, action, scope) group
	// with more than one contributing permission.
	ConflictsResolved []ResolvedConflict `json:"conflicts_resolved,omitempty"`
}

// taggedPermission is a collected permission with its provenance.
type taggedPermission struct {
	perm   rbac.Permission
	source string
	depth  int
}

type groupKey struct {
	resource rbac.Resource
	action   rbac.Action
	scope    rbac.Scope
}

// ResolveEffectivePermissions walks the inheritance graph from roleID,
// collects every reachable permission with provenance, and applies the
// configured conflict policy to produce one effective permission set.
//
// The traversal is depth-first over parent references, bounded by MaxDepth
// and guarded by a visited set, so it terminates on any input including
// cyclic graphs. On cyclic input the result is finite but possibly
// incomplete; treat that as a signal to run ValidateAcyclic.
//
// Resolution is a pure function of its arguments: the same (roleID, roles,
// options) always yields the same result, and the inputs are never mutated.
func ResolveEffectivePermissions(roleID string, roles []rbac.Role, opts ResolveOptions) ResolveResult {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ConflictResolution == "" {
		opts.ConflictResolution = MostPermissive
	}

	index := indexRoles(roles)
	visited := make(map[string]struct{})

	var (
		collected []taggedPermission
		trace     []TraceEntry
	)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if depth > opts.MaxDepth {
			return
		}
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}

		role, ok := index[id]
		if !ok {
			return
		}

		for _, perm := range role.Permissions {
			collected = append(collected, taggedPermission{perm: perm, source: id, depth: depth})
		}
		if opts.IncludeInheritancePath {
			trace = append(trace, TraceEntry{
				RoleID:           id,
				RoleName:         role.Name,
				Depth:            depth,
				PermissionsAdded: len(role.Permissions),
			})
		}

		for _, parent := range role.ParentRoles {
			walk(parent, depth+1)
		}
	}
	walk(roleID, 0)

	// Group by (resource, action, scope), preserving first-seen order.
	groupIndex := make(map[groupKey]int)
	var groups [][]taggedPermission
	var order []groupKey
	for _, tp := range collected {
		key := groupKey{resource: tp.perm.Resource, action: tp.perm.Action, scope: tp.perm.Scope}
		i, ok := groupIndex[key]
		if !ok {
			i = len(groups)
			groupIndex[key] = i
			groups = append(groups, nil)
			order = append(order, key)
		}
		groups[i] = append(groups[i], tp)
	}

	result := ResolveResult{InheritancePath: trace}

	for i, key := range order {
		group := groups[i]
		if len(group) == 1 {
			result.Permissions = append(result.Permissions, group[0].perm)
			continue
		}

		conflict := ResolvedConflict{
			Resource:    key.resource,
			Action:      key.action,
			Scope:       key.scope,
			SourceRoles: distinctSources(group),
		}
		ctx := ConflictContext{
			RoleID:      roleID,
			Resource:    key.resource,
			Action:      key.action,
			Scope:       key.scope,
			SourceRoles: conflict.SourceRoles,
		}

		switch {
		case opts.CustomResolver != nil:
			resolved := opts.CustomResolver.Resolve(groupPermissions(group), ctx)
			result.Permissions = append(result.Permissions, resolved...)
			conflict.Decision = DecisionCustom

		case opts.ConflictResolution == MostPermissive:
			chosen, granted := pickMostPermissive(group)
			result.Permissions = append(result.Permissions, chosen)
			if granted {
				conflict.Decision = DecisionGranted
			} else {
				conflict.Decision = DecisionDenied
			}

		case opts.ConflictResolution == LeastPermissive:
			// The group is dropped, not merged.
			conflict.Decision = DecisionDropped

		case opts.ConflictResolution == ExplicitOnly:
			kept := false
			for _, tp := range group {
				if tp.source == roleID {
					result.Permissions = append(result.Permissions, tp.perm)
					kept = true
					break
				}
			}
			if kept {
				conflict.Decision = DecisionKept
			} else {
				conflict.Decision = DecisionDropped
			}

		default:
			// Unknown policy degrades to the conservative outcome.
			conflict.Decision = DecisionDropped
		}

		result.ConflictsResolved = append(result.ConflictsResolved, conflict)
	}

	return result
}

// pickMostPermissive returns the first granting permission of the group, or
// the first permission when every source denies.
func pickMostPermissive(group []taggedPermission) (rbac.Permission, bool) {
	for _, tp := range group {
		if tp.perm.Granted {
			return tp.perm, true
		}
	}
	return group[0].perm, false
}

func groupPermissions(group []taggedPermission) []rbac.Permission {
	perms := make([]rbac.Permission, len(group))
	for i, tp := range group {
		perms[i] = tp.perm
	}
	return perms
}

func distinctSources(group []taggedPermission) []string {
	var sources []string
	for _, tp := range group {
		if !slices.Contains(sources, tp.source) {
			sources = append(sources, tp.source)
		}
	}
	return sources
}
