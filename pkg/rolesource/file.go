package rolesource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/authzkit/authzkit/pkg/rbac"
)

// document is the on-disk shape of a role set. YAML is the canonical
// format; JSON documents parse too since yaml.v3 accepts JSON.
type document struct {
	Roles []rbac.Role `yaml:"roles"`
}

// fileSource loads a role document from disk on every Load, so edits to the
// file are picked up without restarting the caller.
type fileSource struct {
	path string
}

// NewFileSource creates a Source reading a YAML or JSON role document at
// path. The file is read and validated on each Load.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) ([]rbac.Role, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, fmt.Errorf("read %s: %w", s.path, err))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidDocument, fmt.Errorf("parse %s: %w", s.path, err))
	}

	return normalizeRoles(doc.Roles)
}
