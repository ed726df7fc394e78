package hierarchy

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// AnalyzeOptions selects which report sections Analyze computes.
type AnalyzeOptions struct {
	IncludeMetrics       bool
	IncludeAntiPatterns  bool
	IncludeOptimizations bool
}

// Metrics are structural measurements of a valid role graph.
type Metrics struct {
	TotalRoles        int            `json:"total_roles"`
	RoleDepths        map[string]int `json:"role_depths"`
	MaxDepth          int            `json:"max_depth"`
	AverageDepth      float64        `json:"average_depth"`
	RootRoles         []string       `json:"root_roles"`
	LeafRoles         []string       `json:"leaf_roles"`
	OrphanedRoles     []string       `json:"orphaned_roles"`
	MostInheritedRole string         `json:"most_inherited_role,omitempty"`

	// ComplexityScore is 0-100: capped penalties for depth, breadth and
	// inheritance fan-out.
	ComplexityScore int `json:"complexity_score"`
}

// Anti-pattern types and severities.
const (
	AntiPatternDeepHierarchy        = "deep-hierarchy"
	AntiPatternRoleExplosion        = "role-explosion"
	AntiPatternGodRole              = "god-role"
	AntiPatternDuplicatePermissions = "duplicate-permissions"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Detection thresholds.
const (
	deepHierarchyDepth     = 5
	deepHierarchyHighDepth = 8
	roleExplosionCount     = 50
	roleExplosionHighCount = 100
	godRolePermissions     = 20
	flattenAboveDepth      = 6
)

// AntiPattern flags one least-privilege or maintainability hazard.
type AntiPattern struct {
	Type          string   `json:"type"`
	Severity      string   `json:"severity"`
	Description   string   `json:"description"`
	AffectedRoles []string `json:"affected_roles,omitempty"`
}

// Optimization is an advisory remediation suggestion derived from a
// detected anti-pattern. It is text for humans, not an executable
// transformation.
type Optimization struct {
	Type      string   `json:"type"`
	Rationale string   `json:"rationale"`
	Steps     []string `json:"steps"`
}

// AnalysisResult combines validation with the requested report sections.
// When validation fails only Valid, Errors and Cycles are populated.
type AnalysisResult struct {
	Valid         bool           `json:"valid"`
	Errors        []string       `json:"errors,omitempty"`
	Cycles        [][]string     `json:"cycles,omitempty"`
	Metrics       *Metrics       `json:"metrics,omitempty"`
	AntiPatterns  []AntiPattern  `json:"anti_patterns,omitempty"`
	Optimizations []Optimization `json:"optimizations,omitempty"`
}

// Analyze validates the role graph and, on success, computes the requested
// structural metrics, anti-pattern flags and optimization suggestions.
// Validation always runs first; a cyclic graph short-circuits with errors
// and no further sections, since measurements over a broken graph would be
// meaningless.
func Analyze(roles []rbac.Role, opts AnalyzeOptions) AnalysisResult {
	validation := ValidateAcyclic(roles)
	result := AnalysisResult{
		Valid:  validation.Valid,
		Errors: validation.Errors,
		Cycles: validation.Cycles,
	}
	if !validation.Valid {
		return result
	}

	var metrics *Metrics
	if opts.IncludeMetrics || opts.IncludeAntiPatterns || opts.IncludeOptimizations {
		metrics = computeMetrics(roles)
	}
	if opts.IncludeMetrics {
		result.Metrics = metrics
	}

	var patterns []AntiPattern
	if opts.IncludeAntiPatterns || opts.IncludeOptimizations {
		patterns = detectAntiPatterns(roles, metrics)
	}
	if opts.IncludeAntiPatterns {
		result.AntiPatterns = patterns
	}

	if opts.IncludeOptimizations {
		result.Optimizations = suggestOptimizations(patterns, metrics)
	}

	return result
}

func computeMetrics(roles []rbac.Role) *Metrics {
	index := indexRoles(roles)
	children := childEdges(roles)

	// Depth is memoized per role: 0 for roots, else 1 + max parent depth.
	// The inProgress guard keeps the computation finite even though Analyze
	// only reaches here on validated graphs.
	depths := make(map[string]int, len(roles))
	inProgress := make(map[string]struct{})

	var depthOf func(id string) int
	depthOf = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		if _, busy := inProgress[id]; busy {
			return 0
		}
		inProgress[id] = struct{}{}
		defer delete(inProgress, id)

		role, ok := index[id]
		if !ok || len(role.ParentRoles) == 0 {
			depths[id] = 0
			return 0
		}
		deepest := 0
		for _, parent := range role.ParentRoles {
			if d := depthOf(parent) + 1; d > deepest {
				deepest = d
			}
		}
		depths[id] = deepest
		return deepest
	}

	m := &Metrics{
		TotalRoles: len(roles),
		RoleDepths: make(map[string]int, len(roles)),
		RootRoles:  rootRoles(roles),
	}

	totalDepth := 0
	for _, role := range roles {
		d := depthOf(role.ID)
		m.RoleDepths[role.ID] = d
		totalDepth += d
		if d > m.MaxDepth {
			m.MaxDepth = d
		}
	}
	if len(roles) > 0 {
		m.AverageDepth = float64(totalDepth) / float64(len(roles))
	}

	distinctParents := make(map[string]struct{})
	for _, role := range roles {
		if len(children[role.ID]) == 0 {
			m.LeafRoles = append(m.LeafRoles, role.ID)
		}
		if len(role.ParentRoles) == 0 && len(children[role.ID]) == 0 {
			m.OrphanedRoles = append(m.OrphanedRoles, role.ID)
		}
		for _, parent := range role.ParentRoles {
			distinctParents[parent] = struct{}{}
		}
	}

	// Highest fan-in wins; ties break toward the lexicographically smaller
	// ID so the report is deterministic. Parents referenced but absent from
	// the role set are dangling references, not roles, and never win.
	bestFanIn := 0
	for parent, kids := range children {
		if _, ok := index[parent]; !ok {
			continue
		}
		switch {
		case len(kids) > bestFanIn:
			bestFanIn = len(kids)
			m.MostInheritedRole = parent
		case len(kids) == bestFanIn && bestFanIn > 0 && parent < m.MostInheritedRole:
			m.MostInheritedRole = parent
		}
	}

	m.ComplexityScore = min(m.MaxDepth*10, 40) +
		min(m.TotalRoles*2, 30) +
		min(len(distinctParents)*5, 30)

	return m
}

func detectAntiPatterns(roles []rbac.Role, m *Metrics) []AntiPattern {
	var patterns []AntiPattern

	if m.MaxDepth > deepHierarchyDepth {
		severity := SeverityMedium
		if m.MaxDepth > deepHierarchyHighDepth {
			severity = SeverityHigh
		}
		patterns = append(patterns, AntiPattern{
			Type:     AntiPatternDeepHierarchy,
			Severity: severity,
			Description: fmt.Sprintf(
				"inheritance chain is %d levels deep; deep chains make effective permissions hard to reason about", m.MaxDepth),
		})
	}

	if m.TotalRoles > roleExplosionCount {
		severity := SeverityMedium
		if m.TotalRoles > roleExplosionHighCount {
			severity = SeverityHigh
		}
		patterns = append(patterns, AntiPattern{
			Type:     AntiPatternRoleExplosion,
			Severity: severity,
			Description: fmt.Sprintf(
				"%d roles defined; large role sets are a sign of per-user roles rather than shared ones", m.TotalRoles),
		})
	}

	var godRoles []string
	for _, role := range roles {
		if len(role.Permissions) > godRolePermissions {
			godRoles = append(godRoles, role.ID)
		}
	}
	if len(godRoles) > 0 {
		patterns = append(patterns, AntiPattern{
			Type:     AntiPatternGodRole,
			Severity: SeverityHigh,
			Description: fmt.Sprintf(
				"roles with more than %d direct permissions violate least privilege", godRolePermissions),
			AffectedRoles: godRoles,
		})
	}

	if dupes := duplicatePermissionRoles(roles); len(dupes) > 0 {
		patterns = append(patterns, AntiPattern{
			Type:          AntiPatternDuplicatePermissions,
			Severity:      SeverityMedium,
			Description:   "multiple roles carry identical permission sets and could be consolidated",
			AffectedRoles: dupes,
		})
	}

	return patterns
}

// duplicatePermissionRoles finds roles whose permission sets are identical
// under a canonical sort, returning every affected role ID.
func duplicatePermissionRoles(roles []rbac.Role) []string {
	signatures := make(map[string][]string)
	for _, role := range roles {
		if len(role.Permissions) == 0 {
			continue
		}
		sig := permissionSignature(role.Permissions)
		signatures[sig] = append(signatures[sig], role.ID)
	}

	var affected []string
	for _, ids := range signatures {
		if len(ids) > 1 {
			affected = append(affected, ids...)
		}
	}
	slices.Sort(affected)
	return affected
}

func permissionSignature(perms []rbac.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		// encoding/json renders map keys sorted, giving conditions a
		// canonical form. Unencodable condition values fall back to %v,
		// which is stable enough for a same-process comparison.
		cond := ""
		if len(p.Conditions) > 0 {
			if encoded, err := json.Marshal(p.Conditions); err == nil {
				cond = string(encoded)
			} else {
				cond = fmt.Sprintf("%v", p.Conditions)
			}
		}
		parts[i] = fmt.Sprintf("%s|%s|%s|%t|%s", p.Resource, p.Action, p.Scope, p.Granted, cond)
	}
	slices.Sort(parts)
	return strings.Join(parts, "\n")
}

func suggestOptimizations(patterns []AntiPattern, m *Metrics) []Optimization {
	var suggestions []Optimization

	for _, pattern := range patterns {
		switch pattern.Type {
		case AntiPatternDuplicatePermissions:
			suggestions = append(suggestions, Optimization{
				Type:      "consolidate-duplicate-roles",
				Rationale: "roles with identical permission sets multiply maintenance work without adding access distinctions",
				Steps: []string{
					"pick one role from each duplicate group as the canonical role",
					"reassign users of the other roles to the canonical role",
					"delete the now-unused duplicates",
				},
			})
		case AntiPatternGodRole:
			suggestions = append(suggestions, Optimization{
				Type:      "split-god-roles",
				Rationale: "over-privileged roles grant far more than any single holder needs, widening the blast radius of a compromised account",
				Steps: []string{
					"group the role's permissions by the job function they serve",
					"create one focused role per group",
					"reassign holders to the focused roles they actually need",
					"remove the original role once no users remain",
				},
			})
		}
	}

	if m.MaxDepth > flattenAboveDepth {
		suggestions = append(suggestions, Optimization{
			Type:      "flatten-hierarchy",
			Rationale: "inheritance chains deeper than six levels make it hard to see where an effective permission came from",
			Steps: []string{
				"resolve the effective permission set of each deeply nested role",
				"re-declare those permissions directly on fewer, flatter roles",
				"drop the intermediate roles from the chain",
			},
		})
	}

	return suggestions
}
