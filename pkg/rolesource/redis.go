package rolesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// redisSource loads roles from a Redis hash where each field is one role ID
// mapped to its JSON-encoded record. Role-management tooling owns writing
// the hash; this side only reads.
type redisSource struct {
	client redis.Cmdable
	key    string
}

// NewRedisSource creates a Source over a Redis hash. Load fetches and
// validates the whole hash on every call; callers wanting fewer round trips
// wrap the engine with a resolution cache instead of caching raw roles.
func NewRedisSource(client redis.Cmdable, key string) Source {
	return &redisSource{client: client, key: key}
}

func (s *redisSource) Load(ctx context.Context) ([]rbac.Role, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, fmt.Errorf("hgetall %s: %w", s.key, err))
	}

	// Hash iteration order is not defined; sort fields so repeated loads
	// yield the same role order.
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	roles := make([]rbac.Role, 0, len(fields))
	for _, id := range ids {
		var role rbac.Role
		if err := json.Unmarshal([]byte(fields[id]), &role); err != nil {
			return nil, errors.Join(ErrInvalidDocument, fmt.Errorf("decode role %q: %w", id, err))
		}
		if role.ID == "" {
			role.ID = id
		}
		roles = append(roles, role)
	}

	return normalizeRoles(roles)
}
