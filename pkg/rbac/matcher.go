package rbac

import "slices"

// readImplying lists the actions that imply read on the same resource: a
// holder who can update, delete, list, approve or reject an object can also
// see it. The implication is one-way and limited to the action dimension; it
// never widens across resource kinds or scopes, and never amounts to manage.
var readImplying = map[Action]struct{}{
	ActionUpdate:  {},
	ActionDelete:  {},
	ActionList:    {},
	ActionApprove: {},
	ActionReject:  {},
}

// Matches reports whether perm covers the requested action on the resource
// described by resource. Matching rules, in order:
//
//   - The permission's resource kind must equal the requested kind.
//   - An exact action match always matches.
//   - A manage permission matches every action on its resource.
//   - A read request matches permissions for any read-implying action.
func Matches(perm Permission, action Action, resource ResourceContext) bool {
	if perm.Resource != resource.Type {
		return false
	}
	if perm.Action == action {
		return true
	}
	if perm.Action == ActionManage {
		return true
	}
	if action == ActionRead {
		if _, ok := readImplying[perm.Action]; ok {
			return true
		}
	}
	return false
}

// ScopeCompatible reports whether a permission at permScope, carried by a
// role declared at roleScope, applies to the given user and resource.
//
// A permission broader than its owning role never applies: roles cannot
// grant beyond their own declared scope. Within that cap, the permission's
// own scope decides which ownership fields must line up:
//
//   - personal: the user owns the resource.
//   - team: the resource belongs to one of the user's teams.
//   - project: the resource belongs to one of the user's projects.
//   - tenant: the resource lives in the user's tenant.
//   - global: applies everywhere.
func ScopeCompatible(permScope, roleScope Scope, user UserContext, resource ResourceContext) bool {
	permRank, roleRank := permScope.Rank(), roleScope.Rank()
	if permRank < 0 || roleRank < 0 {
		return false
	}
	if permRank > roleRank {
		return false
	}

	switch permScope {
	case ScopePersonal:
		return resource.OwnerID != "" && resource.OwnerID == user.UserID
	case ScopeTeam:
		return resource.TeamID != "" && slices.Contains(user.TeamIDs, resource.TeamID)
	case ScopeProject:
		return resource.ProjectID != "" && slices.Contains(user.ProjectIDs, resource.ProjectID)
	case ScopeTenant:
		return resource.TenantID == user.TenantID
	case ScopeGlobal:
		return true
	default:
		return false
	}
}
