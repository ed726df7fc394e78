package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authzkit/authzkit/pkg/hierarchy"
	"github.com/authzkit/authzkit/pkg/rbac"
)

// projectHierarchy is the canonical three-level fixture: Viewer reads,
// Editor adds update, Admin adds manage at tenant scope.
func projectHierarchy() []rbac.Role {
	return []rbac.Role{
		{
			ID: "viewer", Name: "Viewer", Scope: rbac.ScopeProject,
			Permissions: []rbac.Permission{
				{ID: "p-view", Action: rbac.ActionRead, Resource: rbac.ResourceProject, Scope: rbac.ScopeProject, Granted: true},
			},
		},
		{
			ID: "editor", Name: "Editor", Scope: rbac.ScopeProject, ParentRoles: []string{"viewer"},
			Permissions: []rbac.Permission{
				{ID: "p-edit", Action: rbac.ActionUpdate, Resource: rbac.ResourceProject, Scope: rbac.ScopeProject, Granted: true},
			},
		},
		{
			ID: "admin", Name: "Admin", Scope: rbac.ScopeTenant, ParentRoles: []string{"editor"},
			Permissions: []rbac.Permission{
				{ID: "p-manage", Action: rbac.ActionManage, Resource: rbac.ResourceProject, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
	}
}

func permissionActions(perms []rbac.Permission) []rbac.Action {
	actions := make([]rbac.Action, len(perms))
	for i, p := range perms {
		actions[i] = p.Action
	}
	return actions
}

func TestResolveEffectivePermissions_InheritanceChain(t *testing.T) {
	t.Parallel()

	result := hierarchy.ResolveEffectivePermissions("admin", projectHierarchy(), hierarchy.ResolveOptions{})

	assert.ElementsMatch(t,
		[]rbac.Action{rbac.ActionManage, rbac.ActionUpdate, rbac.ActionRead},
		permissionActions(result.Permissions))
	assert.Empty(t, result.ConflictsResolved, "distinct (resource, action, scope) keys must not conflict")
	assert.Empty(t, result.InheritancePath, "trace is opt-in")
}

func TestResolveEffectivePermissions_InheritancePath(t *testing.T) {
	t.Parallel()

	result := hierarchy.ResolveEffectivePermissions("admin", projectHierarchy(), hierarchy.ResolveOptions{
		IncludeInheritancePath: true,
	})

	require.Len(t, result.InheritancePath, 3)
	assert.Equal(t, hierarchy.TraceEntry{RoleID: "admin", RoleName: "Admin", Depth: 0, PermissionsAdded: 1}, result.InheritancePath[0])
	assert.Equal(t, hierarchy.TraceEntry{RoleID: "editor", RoleName: "Editor", Depth: 1, PermissionsAdded: 1}, result.InheritancePath[1])
	assert.Equal(t, hierarchy.TraceEntry{RoleID: "viewer", RoleName: "Viewer", Depth: 2, PermissionsAdded: 1}, result.InheritancePath[2])
}

func TestResolveEffectivePermissions_StartRoleVariants(t *testing.T) {
	t.Parallel()

	roles := projectHierarchy()

	t.Run("middle of the chain", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("editor", roles, hierarchy.ResolveOptions{})
		assert.ElementsMatch(t,
			[]rbac.Action{rbac.ActionUpdate, rbac.ActionRead},
			permissionActions(result.Permissions))
	})

	t.Run("root role resolves to its own permissions", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("viewer", roles, hierarchy.ResolveOptions{})
		require.Len(t, result.Permissions, 1)
		assert.Equal(t, "p-view", result.Permissions[0].ID)
	})

	t.Run("unknown role yields empty result", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("ghost", roles, hierarchy.ResolveOptions{})
		assert.Empty(t, result.Permissions)
		assert.Empty(t, result.ConflictsResolved)
	})
}

func conflictedRoles(childGranted, parentGranted bool) []rbac.Role {
	return []rbac.Role{
		{
			ID: "parent", Name: "Parent", Scope: rbac.ScopeTenant,
			Permissions: []rbac.Permission{
				{ID: "p-parent", Action: rbac.ActionDelete, Resource: rbac.ResourceInvoice, Scope: rbac.ScopeTenant, Granted: parentGranted},
			},
		},
		{
			ID: "child", Name: "Child", Scope: rbac.ScopeTenant, ParentRoles: []string{"parent"},
			Permissions: []rbac.Permission{
				{ID: "p-child", Action: rbac.ActionDelete, Resource: rbac.ResourceInvoice, Scope: rbac.ScopeTenant, Granted: childGranted},
			},
		},
	}
}

func TestResolveEffectivePermissions_MostPermissive(t *testing.T) {
	t.Parallel()

	t.Run("grant wins over deny", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("child", conflictedRoles(false, true), hierarchy.ResolveOptions{})

		require.Len(t, result.Permissions, 1)
		assert.True(t, result.Permissions[0].Granted)
		require.Len(t, result.ConflictsResolved, 1)

		conflict := result.ConflictsResolved[0]
		assert.Equal(t, rbac.ResourceInvoice, conflict.Resource)
		assert.Equal(t, rbac.ActionDelete, conflict.Action)
		assert.Equal(t, hierarchy.DecisionGranted, conflict.Decision)
		assert.Equal(t, []string{"child", "parent"}, conflict.SourceRoles)
	})

	t.Run("all denies keeps a deny", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("child", conflictedRoles(false, false), hierarchy.ResolveOptions{})

		require.Len(t, result.Permissions, 1)
		assert.False(t, result.Permissions[0].Granted)
		require.Len(t, result.ConflictsResolved, 1)
		assert.Equal(t, hierarchy.DecisionDenied, result.ConflictsResolved[0].Decision)
	})
}

func TestResolveEffectivePermissions_LeastPermissive(t *testing.T) {
	t.Parallel()

	result := hierarchy.ResolveEffectivePermissions("child", conflictedRoles(true, true), hierarchy.ResolveOptions{
		ConflictResolution: hierarchy.LeastPermissive,
	})

	// The conflicted group is dropped, not merged.
	assert.Empty(t, result.Permissions)
	require.Len(t, result.ConflictsResolved, 1)
	assert.Equal(t, hierarchy.DecisionDropped, result.ConflictsResolved[0].Decision)
}

func TestResolveEffectivePermissions_ExplicitOnly(t *testing.T) {
	t.Parallel()

	t.Run("target role contributed", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions("child", conflictedRoles(true, false), hierarchy.ResolveOptions{
			ConflictResolution: hierarchy.ExplicitOnly,
		})
		require.Len(t, result.Permissions, 1)
		assert.Equal(t, "p-child", result.Permissions[0].ID)
		require.Len(t, result.ConflictsResolved, 1)
		assert.Equal(t, hierarchy.DecisionKept, result.ConflictsResolved[0].Decision)
	})

	t.Run("ancestor-only conflict dropped", func(t *testing.T) {
		t.Parallel()
		roles := []rbac.Role{
			{
				ID: "grandparent", Scope: rbac.ScopeTenant,
				Permissions: []rbac.Permission{
					{ID: "p-gp", Action: rbac.ActionRead, Resource: rbac.ResourceReport, Scope: rbac.ScopeTenant, Granted: true},
				},
			},
			{
				ID: "parent", Scope: rbac.ScopeTenant, ParentRoles: []string{"grandparent"},
				Permissions: []rbac.Permission{
					{ID: "p-p", Action: rbac.ActionRead, Resource: rbac.ResourceReport, Scope: rbac.ScopeTenant, Granted: true},
				},
			},
			{ID: "child", Scope: rbac.ScopeTenant, ParentRoles: []string{"parent"}},
		}
		result := hierarchy.ResolveEffectivePermissions("child", roles, hierarchy.ResolveOptions{
			ConflictResolution: hierarchy.ExplicitOnly,
		})
		assert.Empty(t, result.Permissions)
		require.Len(t, result.ConflictsResolved, 1)
		assert.Equal(t, hierarchy.DecisionDropped, result.ConflictsResolved[0].Decision)
	})
}

func TestResolveEffectivePermissions_CustomResolver(t *testing.T) {
	t.Parallel()

	var seen hierarchy.ConflictContext
	resolver := hierarchy.ConflictResolverFunc(func(conflicting []rbac.Permission, ctx hierarchy.ConflictContext) []rbac.Permission {
		seen = ctx
		// True least-permissive: keep a deny when one exists.
		for _, p := range conflicting {
			if !p.Granted {
				return []rbac.Permission{p}
			}
		}
		return conflicting[:1]
	})

	result := hierarchy.ResolveEffectivePermissions("child", conflictedRoles(true, false), hierarchy.ResolveOptions{
		CustomResolver: resolver,
	})

	require.Len(t, result.Permissions, 1)
	assert.False(t, result.Permissions[0].Granted)
	require.Len(t, result.ConflictsResolved, 1)
	assert.Equal(t, hierarchy.DecisionCustom, result.ConflictsResolved[0].Decision)
	assert.Equal(t, "child", seen.RoleID)
	assert.Equal(t, rbac.ActionDelete, seen.Action)
	assert.Equal(t, []string{"child", "parent"}, seen.SourceRoles)
}

func TestResolveEffectivePermissions_ConflictCountInvariant(t *testing.T) {
	t.Parallel()

	// Two conflicted keys (delete/invoice from both roles, read/report from
	// both roles), one conflict-free key (manage/project from child only).
	roles := []rbac.Role{
		{
			ID: "parent", Scope: rbac.ScopeTenant,
			Permissions: []rbac.Permission{
				{ID: "p1", Action: rbac.ActionDelete, Resource: rbac.ResourceInvoice, Scope: rbac.ScopeTenant, Granted: true},
				{ID: "p2", Action: rbac.ActionRead, Resource: rbac.ResourceReport, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
		{
			ID: "child", Scope: rbac.ScopeTenant, ParentRoles: []string{"parent"},
			Permissions: []rbac.Permission{
				{ID: "p3", Action: rbac.ActionDelete, Resource: rbac.ResourceInvoice, Scope: rbac.ScopeTenant, Granted: false},
				{ID: "p4", Action: rbac.ActionRead, Resource: rbac.ResourceReport, Scope: rbac.ScopeTenant, Granted: true},
				{ID: "p5", Action: rbac.ActionManage, Resource: rbac.ResourceProject, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
	}

	result := hierarchy.ResolveEffectivePermissions("child", roles, hierarchy.ResolveOptions{})
	assert.Len(t, result.ConflictsResolved, 2)
	assert.Len(t, result.Permissions, 3)
}

func TestResolveEffectivePermissions_TerminatesOnCycles(t *testing.T) {
	t.Parallel()

	roles := []rbac.Role{
		{
			ID: "a", Scope: rbac.ScopeTenant, ParentRoles: []string{"b"},
			Permissions: []rbac.Permission{
				{ID: "p-a", Action: rbac.ActionRead, Resource: rbac.ResourceUser, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
		{
			ID: "b", Scope: rbac.ScopeTenant, ParentRoles: []string{"c"},
			Permissions: []rbac.Permission{
				{ID: "p-b", Action: rbac.ActionUpdate, Resource: rbac.ResourceUser, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
		{
			ID: "c", Scope: rbac.ScopeTenant, ParentRoles: []string{"a"},
			Permissions: []rbac.Permission{
				{ID: "p-c", Action: rbac.ActionDelete, Resource: rbac.ResourceUser, Scope: rbac.ScopeTenant, Granted: true},
			},
		},
	}

	result := hierarchy.ResolveEffectivePermissions("a", roles, hierarchy.ResolveOptions{})
	// Finite and deduplicated: each role contributes exactly once.
	assert.Len(t, result.Permissions, 3)
}

func TestResolveEffectivePermissions_MaxDepth(t *testing.T) {
	t.Parallel()

	chain := make([]rbac.Role, 0, 15)
	for i := 0; i < 15; i++ {
		r := rbac.Role{
			ID: roleID(i), Scope: rbac.ScopeTenant,
			Permissions: []rbac.Permission{
				{ID: "p-" + roleID(i), Action: rbac.ActionRead, Resource: rbac.Resource("setting"), Scope: rbac.ScopeTenant, Granted: true},
			},
		}
		if i < 14 {
			r.ParentRoles = []string{roleID(i + 1)}
		}
		chain = append(chain, r)
	}

	t.Run("default depth bound", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions(roleID(0), chain, hierarchy.ResolveOptions{})
		// Depths 0..10 inclusive: one conflicted group, eleven sources.
		require.Len(t, result.ConflictsResolved, 1)
		assert.Len(t, result.ConflictsResolved[0].SourceRoles, hierarchy.DefaultMaxDepth+1)
	})

	t.Run("tightened depth bound", func(t *testing.T) {
		t.Parallel()
		result := hierarchy.ResolveEffectivePermissions(roleID(0), chain, hierarchy.ResolveOptions{MaxDepth: 2})
		require.Len(t, result.ConflictsResolved, 1)
		assert.Len(t, result.ConflictsResolved[0].SourceRoles, 3)
	})
}

func roleID(i int) string {
	return string(rune('a'+i/10)) + string(rune('0'+i%10))
}

func TestResolveEffectivePermissions_Idempotent(t *testing.T) {
	t.Parallel()

	roles := projectHierarchy()
	opts := hierarchy.ResolveOptions{IncludeInheritancePath: true}

	first := hierarchy.ResolveEffectivePermissions("admin", roles, opts)
	second := hierarchy.ResolveEffectivePermissions("admin", roles, opts)
	assert.Equal(t, first, second)
}

func TestResolveAndCheck_EndToEnd(t *testing.T) {
	t.Parallel()

	roles := projectHierarchy()

	resolved := hierarchy.ResolveEffectivePermissions("admin", roles, hierarchy.ResolveOptions{})
	require.Empty(t, resolved.ConflictsResolved)
	assert.ElementsMatch(t,
		[]rbac.Action{rbac.ActionManage, rbac.ActionUpdate, rbac.ActionRead},
		permissionActions(resolved.Permissions))

	// A user holding the admin role with its resolved effective set can
	// delete projects in their tenant via manage subsumption.
	user := rbac.UserContext{
		UserID:   "u-1",
		TenantID: "t-1",
		Roles: []rbac.Role{{
			ID:          "admin",
			Name:        "Admin",
			Scope:       rbac.ScopeTenant,
			Permissions: resolved.Permissions,
		}},
	}
	result := rbac.Check(user, rbac.ActionDelete, rbac.ResourceContext{Type: rbac.ResourceProject, TenantID: "t-1"})
	assert.True(t, result.Granted)
}
