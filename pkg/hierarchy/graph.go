package hierarchy

import (
	"slices"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// indexRoles builds an ID-keyed lookup map. Later duplicates win, matching
// the behavior of loading the same role set into any keyed store.
func indexRoles(roles []rbac.Role) map[string]rbac.Role {
	index := make(map[string]rbac.Role, len(roles))
	for _, role := range roles {
		index[role.ID] = role
	}
	return index
}

// childEdges inverts the parent references into a parent -> children
// adjacency map. Children are sorted by ID for deterministic traversal.
// Parents referenced but not present in the role set still get entries, so
// dangling references are visible to callers that care.
func childEdges(roles []rbac.Role) map[string][]string {
	children := make(map[string][]string)
	for _, role := range roles {
		for _, parent := range role.ParentRoles {
			children[parent] = append(children[parent], role.ID)
		}
	}
	for parent := range children {
		slices.Sort(children[parent])
	}
	return children
}

// rootRoles returns the IDs of roles with no parents, in input order.
func rootRoles(roles []rbac.Role) []string {
	var roots []string
	for _, role := range roles {
		if len(role.ParentRoles) == 0 {
			roots = append(roots, role.ID)
		}
	}
	return roots
}
