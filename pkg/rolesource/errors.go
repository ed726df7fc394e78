package rolesource

import "errors"

// Domain errors for role loading and validation.
var (
	// ErrInvalidDocument is returned when a role document cannot be parsed.
	ErrInvalidDocument = errors.New("rolesource.invalid_document")

	// ErrMissingRoleID is returned when a loaded role has no ID.
	ErrMissingRoleID = errors.New("rolesource.missing_role_id")

	// ErrDuplicateRoleID is returned when two loaded roles share an ID.
	ErrDuplicateRoleID = errors.New("rolesource.duplicate_role_id")

	// ErrUnknownAction is returned when a permission names an action outside
	// the closed Action set.
	ErrUnknownAction = errors.New("rolesource.unknown_action")

	// ErrUnknownScope is returned when a role or permission names a scope
	// outside the Scope ordering.
	ErrUnknownScope = errors.New("rolesource.unknown_scope")

	// ErrUnknownResource is returned when a permission names an unregistered
	// resource kind.
	ErrUnknownResource = errors.New("rolesource.unknown_resource")

	// ErrScopeExceedsRole is returned when a permission is broader than the
	// role that carries it.
	ErrScopeExceedsRole = errors.New("rolesource.scope_exceeds_role")
)
