// Package rolesource supplies role sets to the RBAC engine from pluggable
// backends: in-memory fixtures, YAML/JSON documents, and Redis.
//
// The engine itself (pkg/rbac, pkg/hierarchy) only consumes plain role
// records and never touches storage; sources are the read-side adapters that
// bridge wherever roles are authored to those records. Authoring and
// persisting roles remains the host application's concern.
//
// Every source validates what it loads: role IDs must be present and unique,
// actions and scopes must be members of their closed sets, resource kinds
// must be registered, and a permission's scope must not exceed its role's
// scope. Permissions without IDs are assigned generated ones so downstream
// reports can always reference them.
//
// Loading from a YAML document:
//
//	source := rolesource.NewFileSource("roles.yaml")
//	roles, err := source.Load(ctx)
//	if err != nil {
//	    // rolesource.ErrInvalidDocument, rolesource.ErrUnknownAction, ...
//	}
//
// The expected document shape:
//
//	roles:
//	  - id: editor
//	    name: Editor
//	    scope: tenant
//	    parent_roles: [viewer]
//	    permissions:
//	      - action: update
//	        resource: project
//	        scope: tenant
//	        granted: true
//
// Loading from Redis, where each field of a hash holds one JSON-encoded
// role:
//
//	source := rolesource.NewRedisSource(client, "authz:roles")
//	roles, err := source.Load(ctx)
package rolesource
