package hierarchy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// ValidationResult reports whether a role graph is a DAG. Each detected
// cycle appears once in Cycles as the closed path of role IDs (first ID
// repeated at the end), with a matching human-readable entry in Errors.
type ValidationResult struct {
	Valid  bool       `json:"valid"`
	Errors []string   `json:"errors,omitempty"`
	Cycles [][]string `json:"cycles,omitempty"`
}

// ValidateAcyclic checks the parent-role graph for cycles. Every role is
// tried as a traversal root with its own visited set, so independent cycles
// in disconnected regions are all found and the result does not depend on
// which role happens to come first. Detection terminates on any input,
// including graphs that are already cyclic: the active path bounds recursion
// and the per-root visited set prunes re-exploration.
//
// Run this before trusting ResolveEffectivePermissions or Analyze output.
// Both defend themselves against cycles independently, but a truncated
// traversal is a degraded answer, not a correct one.
func ValidateAcyclic(roles []rbac.Role) ValidationResult {
	index := indexRoles(roles)

	var (
		errs  []string
		cycs  [][]string
		found = make(map[string]struct{})
	)

	var walk func(id string, path []string, visited map[string]struct{})
	walk = func(id string, path []string, visited map[string]struct{}) {
		if pos := slices.Index(path, id); pos >= 0 {
			cycle := append(slices.Clone(path[pos:]), id)
			key := cycleKey(cycle)
			if _, dup := found[key]; !dup {
				found[key] = struct{}{}
				cycs = append(cycs, cycle)
				errs = append(errs, fmt.Sprintf("circular inheritance: %s", strings.Join(cycle, " -> ")))
			}
			return
		}
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}

		role, ok := index[id]
		if !ok {
			// Dangling parent reference; referential integrity is the
			// caller's concern, not a structural defect.
			return
		}
		path = append(path, id)
		for _, parent := range role.ParentRoles {
			walk(parent, path, visited)
		}
	}

	for _, role := range roles {
		walk(role.ID, nil, make(map[string]struct{}))
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
		Cycles: cycs,
	}
}

// cycleKey produces a rotation-invariant signature so the same cycle found
// from different entry points is reported once.
func cycleKey(cycle []string) string {
	// Drop the closing repeat, rotate the smallest ID to the front.
	ids := cycle[:len(cycle)-1]
	if len(ids) == 0 {
		return ""
	}
	first := 0
	for i := range ids {
		if ids[i] < ids[first] {
			first = i
		}
	}
	rotated := make([]string, 0, len(ids))
	rotated = append(rotated, ids[first:]...)
	rotated = append(rotated, ids[:first]...)
	return strings.Join(rotated, "\x00")
}
