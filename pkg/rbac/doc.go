// Package rbac implements the permission-check core of a role-based access
// control engine for multi-tenant SaaS applications.
//
// The package is a pure, stateless computation layer: roles, users and
// resources are plain records supplied by the caller on every call, results
// are plain records handed back. Nothing here performs I/O, holds mutable
// state between calls, or mutates its inputs, so every operation is safe to
// invoke concurrently from any number of goroutines sharing the same role
// data.
//
// Key concepts:
//
//   - Action: a closed set of operation kinds (create, read, update, delete,
//     list, manage, execute, approve, reject). The manage action subsumes all
//     others on the same resource.
//   - Resource: an open registry of protected object kinds. Applications
//     register their own kinds with RegisterResource without modifying the
//     engine.
//   - Scope: an ordered breadth (personal < team < project < tenant < global)
//     used for compatibility checks; a permission may never be broader than
//     the role that carries it.
//   - Permission: one grant or explicit deny of an action on a resource kind
//     at a scope, optionally guarded by conditions.
//   - Role: a named bundle of permissions that may inherit from parent roles
//     (inheritance is resolved by the hierarchy package, not here).
//
// Basic usage:
//
//	user := rbac.UserContext{
//	    UserID:   "u-1",
//	    TenantID: "t-1",
//	    Roles: []rbac.Role{{
//	        ID:    "editor",
//	        Scope: rbac.ScopeTenant,
//	        Permissions: []rbac.Permission{
//	            {ID: "p-1", Action: rbac.ActionUpdate, Resource: rbac.ResourceProject, Scope: rbac.ScopeTenant, Granted: true},
//	        },
//	    }},
//	}
//
//	result := rbac.Check(user, rbac.ActionUpdate, rbac.ResourceContext{
//	    Type:     rbac.ResourceProject,
//	    TenantID: "t-1",
//	})
//	if !result.Granted {
//	    // result.Reason explains the denial
//	}
//
// Policy outcomes are always returned as data (CheckResult), never as errors:
// invalid input degrades to a denied result with a diagnostic reason, because
// this code sits on the request hot path and must fail closed rather than
// crash.
//
// An explicit deny (a Permission with Granted=false) always overrides an
// otherwise-matching grant for the same action and resource.
package rbac
