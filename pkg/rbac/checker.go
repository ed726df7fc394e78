package rbac

import "fmt"

// Check answers one permission query against the user's directly-held roles.
// It is shorthand for CheckWithEnv with an empty Environment; conditions that
// read the clock use time.Now and IP whitelists pass open.
func Check(user UserContext, action Action, resource ResourceContext) CheckResult {
	return CheckWithEnv(user, action, resource, Environment{})
}

// CheckWithEnv answers one permission query against the user's directly-held
// roles, using env for condition evaluation. Role inheritance is not walked
// here; callers wanting inherited permissions resolve them first via the
// hierarchy package and attach the effective set to the user's roles.
//
// The check fails closed: invalid input (missing user ID, unknown action or
// resource kind) yields a denied result with a diagnostic reason rather than
// an error. A permission matches when its action and resource cover the
// request, its scope is compatible with both its role and the resource's
// ownership, and its conditions (if any) pass. The result is granted when at
// least one matching permission grants and no matching permission explicitly
// denies: deny always wins over allow.
func CheckWithEnv(user UserContext, action Action, resource ResourceContext, env Environment) CheckResult {
	if user.UserID == "" {
		return CheckResult{Reason: "invalid user context: missing user id"}
	}
	if !action.Valid() {
		return CheckResult{Reason: fmt.Sprintf("unknown action %q", action)}
	}
	if !ResourceRegistered(resource.Type) {
		return CheckResult{Reason: fmt.Sprintf("unknown resource type %q", resource.Type)}
	}

	var matching []Permission
	anyGrant, anyDeny := false, false

	for _, role := range user.Roles {
		for _, perm := range role.Permissions {
			if !Matches(perm, action, resource) {
				continue
			}
			if !ScopeCompatible(perm.Scope, role.Scope, user, resource) {
				continue
			}
			if len(perm.Conditions) > 0 {
				in := ConditionInput{User: user, Resource: resource, Action: action, Env: env}
				if !EvaluateConditions(perm.Conditions, in) {
					continue
				}
			}

			matching = append(matching, perm)
			if perm.Granted {
				anyGrant = true
			} else {
				anyDeny = true
			}
		}
	}

	// Explicit deny wins over any grant for the same action and resource.
	granted := anyGrant && !anyDeny

	result := CheckResult{Granted: granted, MatchingPermissions: matching}
	if !granted {
		result.Reason = fmt.Sprintf("permission denied: %s on %s", action, resource.Type)
	}
	return result
}
