package rbac

import "context"

// userCtxKey is the context key for storing the authenticated user.
type userCtxKey struct{}

// SetUserToContext stores the resolved user context for downstream checks,
// typically from authentication middleware.
func SetUserToContext(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// GetUserFromContext retrieves the user context stored by SetUserToContext.
func GetUserFromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userCtxKey{}).(UserContext)
	return user, ok
}

// CheckFromContext runs Check against the user stored in the context. With
// no user present it fails closed with a diagnostic reason.
func CheckFromContext(ctx context.Context, action Action, resource ResourceContext) CheckResult {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return CheckResult{Reason: "no user in context"}
	}
	return Check(user, action, resource)
}
