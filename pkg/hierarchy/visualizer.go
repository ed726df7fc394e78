package hierarchy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// Box-drawing connectors for the ASCII rendering.
const (
	connectorBranch   = "├── "
	connectorLast     = "└── "
	connectorVertical = "│   "
	connectorBlank    = "    "
)

// RenderOptions tunes hierarchy rendering. The zero value renders the whole
// graph with default labels.
type RenderOptions struct {
	// MaxDepth limits rendering depth; 0 means unlimited. Roots are depth 0.
	MaxDepth int

	// Labeler formats the display label for a role. Defaults to the role
	// name (falling back to the ID) with its direct permission count.
	Labeler func(rbac.Role) string
}

// TreeNode is one role in the structured rendering, produced in the same
// order the ASCII tree prints.
type TreeNode struct {
	RoleID          string   `json:"role_id"`
	RoleName        string   `json:"role_name,omitempty"`
	Depth           int      `json:"depth"`
	Children        []string `json:"children,omitempty"`
	PermissionCount int      `json:"permission_count"`
	Path            []string `json:"path"`
}

// RenderResult holds both renderings of the same traversal.
type RenderResult struct {
	ASCII string     `json:"ascii"`
	Nodes []TreeNode `json:"nodes"`
}

// Render draws the role hierarchy as an indented tree. The traversal starts
// from every root role (no parents) and follows the inverted parent edges
// downward, so children appear under the roles they inherit from. Subtrees
// under multiple parents are printed under each parent. A visited guard on
// the active path keeps rendering finite on malformed (cyclic) input, where
// roots may not even exist; such regions simply do not appear.
func Render(roles []rbac.Role, opts RenderOptions) RenderResult {
	index := indexRoles(roles)
	children := childEdges(roles)
	labeler := opts.Labeler
	if labeler == nil {
		labeler = defaultLabel
	}

	roots := rootRoles(roles)
	slices.Sort(roots)

	var (
		b     strings.Builder
		nodes []TreeNode
	)

	var draw func(id string, depth int, prefix string, last bool, path []string)
	draw = func(id string, depth int, prefix string, last bool, path []string) {
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return
		}
		if slices.Contains(path, id) {
			return
		}

		role := index[id]
		path = append(slices.Clone(path), id)
		kids := children[id]

		if depth == 0 {
			b.WriteString(labeler(role))
		} else {
			connector := connectorBranch
			if last {
				connector = connectorLast
			}
			b.WriteString(prefix + connector + labeler(role))
		}
		b.WriteByte('\n')

		nodes = append(nodes, TreeNode{
			RoleID:          id,
			RoleName:        role.Name,
			Depth:           depth,
			Children:        slices.Clone(kids),
			PermissionCount: len(role.Permissions),
			Path:            path,
		})

		childPrefix := prefix
		if depth > 0 {
			if last {
				childPrefix += connectorBlank
			} else {
				childPrefix += connectorVertical
			}
		}
		for i, kid := range kids {
			draw(kid, depth+1, childPrefix, i == len(kids)-1, path)
		}
	}

	for _, root := range roots {
		draw(root, 0, "", true, nil)
	}

	return RenderResult{ASCII: b.String(), Nodes: nodes}
}

func defaultLabel(role rbac.Role) string {
	name := role.Name
	if name == "" {
		name = role.ID
	}
	return fmt.Sprintf("%s (%d permissions)", name, len(role.Permissions))
}
