package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/authzkit/authzkit/pkg/hierarchy"
	"github.com/authzkit/authzkit/pkg/rbac"
)

var (
	checkOwnerID   string
	checkTenantID  string
	checkTeamID    string
	checkProjectID string
	checkClientIP  string
)

var checkCmd = &cobra.Command{
	Use:   "check <user-file> <action> <resource-type>",
	Short: "Run one permission check for a user described in a YAML document",
	Long: `check loads a UserContext document, resolves the effective permissions of
each role the user holds, and answers a single permission query. The user
document names roles by ID:

    user_id: u-1
    tenant_id: t-1
    role_ids: [editor]
    context:
      department: finance`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userFile, action, resourceType := args[0], rbac.Action(args[1]), rbac.Resource(args[2])

		roles, err := loadRoles(cmd.Context())
		if err != nil {
			return err
		}
		user, err := loadUser(userFile, roles)
		if err != nil {
			return err
		}

		resource := rbac.ResourceContext{
			Type:      resourceType,
			OwnerID:   checkOwnerID,
			TenantID:  checkTenantID,
			TeamID:    checkTeamID,
			ProjectID: checkProjectID,
		}
		if resource.TenantID == "" {
			resource.TenantID = user.TenantID
		}

		result := rbac.CheckWithEnv(user, action, resource, rbac.Environment{ClientIP: checkClientIP})
		if outputJSON {
			return printJSON(result)
		}

		if result.Granted {
			fmt.Printf("granted: %s on %s\n", action, resourceType)
		} else {
			fmt.Println(result.Reason)
		}
		for _, p := range result.MatchingPermissions {
			verdict := "allow"
			if !p.Granted {
				verdict = "deny"
			}
			fmt.Printf("  matched %s: %s %s %s (scope: %s)\n", p.ID, verdict, p.Action, p.Resource, p.Scope)
		}
		return nil
	},
}

// userDocument is the on-disk shape of a check subject. Roles are referenced
// by ID and attached after resolving their effective permissions.
type userDocument struct {
	UserID     string          `yaml:"user_id"`
	TenantID   string          `yaml:"tenant_id"`
	TeamIDs    []string        `yaml:"team_ids"`
	ProjectIDs []string        `yaml:"project_ids"`
	RoleIDs    []string        `yaml:"role_ids"`
	Context    rbac.Attributes `yaml:"context"`
}

func loadUser(path string, roles []rbac.Role) (rbac.UserContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rbac.UserContext{}, fmt.Errorf("read user document: %w", err)
	}
	var doc userDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rbac.UserContext{}, fmt.Errorf("parse user document: %w", err)
	}

	index := make(map[string]rbac.Role, len(roles))
	for _, role := range roles {
		index[role.ID] = role
	}

	user := rbac.UserContext{
		UserID:     doc.UserID,
		TenantID:   doc.TenantID,
		TeamIDs:    doc.TeamIDs,
		ProjectIDs: doc.ProjectIDs,
		Context:    doc.Context,
	}
	for _, id := range doc.RoleIDs {
		role, ok := index[id]
		if !ok {
			return rbac.UserContext{}, fmt.Errorf("user references unknown role %q", id)
		}
		// Attach the flattened set so inherited permissions count.
		resolved := hierarchy.ResolveEffectivePermissions(id, roles, hierarchy.ResolveOptions{})
		role.Permissions = resolved.Permissions
		user.Roles = append(user.Roles, role)
	}
	return user, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkOwnerID, "owner", "", "resource owner user ID")
	checkCmd.Flags().StringVar(&checkTenantID, "tenant", "", "resource tenant ID (defaults to the user's tenant)")
	checkCmd.Flags().StringVar(&checkTeamID, "team", "", "resource team ID")
	checkCmd.Flags().StringVar(&checkProjectID, "project", "", "resource project ID")
	checkCmd.Flags().StringVar(&checkClientIP, "ip", "", "client IP for condition evaluation")
	rootCmd.AddCommand(checkCmd)
}
