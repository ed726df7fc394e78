package rbac

// Action is an operation kind a permission authorizes. The set is closed:
// the engine's matching rules depend on knowing every member.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionList    Action = "list"
	ActionManage  Action = "manage"
	ActionExecute Action = "execute"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// actions enumerates every valid Action.
var actions = map[Action]struct{}{
	ActionCreate:  {},
	ActionRead:    {},
	ActionUpdate:  {},
	ActionDelete:  {},
	ActionList:    {},
	ActionManage:  {},
	ActionExecute: {},
	ActionApprove: {},
	ActionReject:  {},
}

// Valid reports whether a is a member of the closed Action set.
func (a Action) Valid() bool {
	_, ok := actions[a]
	return ok
}

// Actions returns every valid Action. The slice is a fresh copy.
func Actions() []Action {
	result := make([]Action, 0, len(actions))
	for a := range actions {
		result = append(result, a)
	}
	return result
}

// Scope is the breadth at which a permission or role applies. Scopes are
// ordered from narrowest to broadest; see Rank.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeTeam     Scope = "team"
	ScopeProject  Scope = "project"
	ScopeTenant   Scope = "tenant"
	ScopeGlobal   Scope = "global"
)

// scopeRanks orders scopes from narrowest (personal) to broadest (global).
var scopeRanks = map[Scope]int{
	ScopePersonal: 0,
	ScopeTeam:     1,
	ScopeProject:  2,
	ScopeTenant:   3,
	ScopeGlobal:   4,
}

// Rank returns the position of s in the scope ordering, or -1 for an
// unknown scope. A higher rank means a broader scope.
func (s Scope) Rank() int {
	rank, ok := scopeRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether s is a member of the Scope ordering.
func (s Scope) Valid() bool {
	_, ok := scopeRanks[s]
	return ok
}

// Attributes is an open-ended key/value map used for permission conditions
// and for user/resource context attributes. Values are JSON-like scalars or
// nested maps/slices; the engine never mutates them.
type Attributes map[string]any

// Permission is one grant or explicit deny of an action on a resource kind
// at a scope. Granted=false represents an explicit deny, which always
// overrides an otherwise-matching grant for the same action and resource.
// Permissions are treated as immutable once constructed.
type Permission struct {
	ID         string     `json:"id" yaml:"id"`
	Action     Action     `json:"action" yaml:"action"`
	Resource   Resource   `json:"resource" yaml:"resource"`
	Scope      Scope      `json:"scope" yaml:"scope"`
	Conditions Attributes `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Granted    bool       `json:"granted" yaml:"granted"`
}

// Role is a named bundle of permissions with optional inheritance. Parent
// references form a directed graph over role IDs; the hierarchy package
// validates and traverses it. A role's scope caps the scope of every
// permission it carries.
type Role struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Permissions []Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	ParentRoles []string     `json:"parent_roles,omitempty" yaml:"parent_roles,omitempty"`
	Scope       Scope        `json:"scope" yaml:"scope"`
	Metadata    Attributes   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// UserContext describes the requesting user. Roles are fully resolved
// records, not IDs; loading them is the caller's concern.
type UserContext struct {
	UserID     string     `json:"user_id" yaml:"user_id"`
	Roles      []Role     `json:"roles,omitempty" yaml:"roles,omitempty"`
	TenantID   string     `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	TeamIDs    []string   `json:"team_ids,omitempty" yaml:"team_ids,omitempty"`
	ProjectIDs []string   `json:"project_ids,omitempty" yaml:"project_ids,omitempty"`
	Context    Attributes `json:"context,omitempty" yaml:"context,omitempty"`
}

// ResourceContext describes the object a check targets, including the
// ownership fields scope compatibility dispatches on.
type ResourceContext struct {
	Type       Resource   `json:"type" yaml:"type"`
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	OwnerID    string     `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	TenantID   string     `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	TeamID     string     `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	ProjectID  string     `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Attributes Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// CheckResult is the outcome of a single permission check. It is always
// returned as data: policy denials and invalid input both surface here as
// Granted=false with a diagnostic Reason, never as an error.
type CheckResult struct {
	Granted             bool         `json:"granted"`
	Reason              string       `json:"reason,omitempty"`
	MatchingPermissions []Permission `json:"matching_permissions,omitempty"`
}
