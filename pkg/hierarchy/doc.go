// Package hierarchy implements graph operations over role inheritance: cycle
// validation, effective-permission resolution with pluggable conflict
// policies, structural analysis, and tree rendering.
//
// Roles reference their parents by ID, forming a directed graph where a
// child -> parent edge means "inherits from". The graph must be acyclic for
// results to be complete, but every operation here defends itself against
// cyclic input: traversals carry visited sets and depth bounds, so malformed
// graphs truncate rather than recurse forever. Run ValidateAcyclic before
// trusting resolution or analysis output; the guards are a safety valve, not
// a substitute.
//
// Like the rbac package, everything here is pure: no I/O, no shared state,
// inputs are never mutated, and all operations are safe to call concurrently
// against the same role data.
//
// Resolving effective permissions:
//
//	result := hierarchy.ResolveEffectivePermissions("admin", roles, hierarchy.ResolveOptions{
//	    ConflictResolution:     hierarchy.MostPermissive,
//	    IncludeInheritancePath: true,
//	})
//	for _, p := range result.Permissions {
//	    // flattened, conflict-resolved permission set
//	}
//
// Permissions inherited from different roles can collide on the same
// (resource, action, scope) key; each collision is resolved by the configured
// policy and reported in ConflictsResolved. The least-permissive policy is
// deliberately conservative: it drops conflicted groups entirely instead of
// guessing at a merged semantic. Callers needing real least-permissive
// behavior supply a ConflictResolver.
//
// Administrative tooling uses ValidateAcyclic, Analyze and Render to audit
// role graphs: detecting cycles, measuring depth and fan-in, flagging
// anti-patterns (deep hierarchies, role explosion, god roles, duplicate
// permission sets) and printing the hierarchy as an indented tree.
package hierarchy
