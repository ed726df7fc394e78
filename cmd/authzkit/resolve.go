package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/authzkit/authzkit/pkg/hierarchy"
)

var (
	resolvePolicy   string
	resolveMaxDepth int
	resolveTrace    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <role-id>",
	Short: "Flatten a role's inheritance graph into its effective permission set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roleID := args[0]

		roles, err := loadRoles(cmd.Context())
		if err != nil {
			return err
		}

		// Resolution truncates silently on cycles; surface them here
		// instead so administrative use never works from degraded data.
		if validation := hierarchy.ValidateAcyclic(roles); !validation.Valid {
			return fmt.Errorf("role graph is invalid, run validate: %s", strings.Join(validation.Errors, "; "))
		}

		result := hierarchy.ResolveEffectivePermissions(roleID, roles, hierarchy.ResolveOptions{
			ConflictResolution:     hierarchy.ConflictResolution(resolvePolicy),
			MaxDepth:               resolveMaxDepth,
			IncludeInheritancePath: resolveTrace,
		})

		if outputJSON {
			return printJSON(result)
		}

		for _, p := range result.Permissions {
			verdict := "allow"
			if !p.Granted {
				verdict = "deny"
			}
			fmt.Printf("%-6s %s %s (scope: %s)\n", verdict, p.Action, p.Resource, p.Scope)
		}
		for _, c := range result.ConflictsResolved {
			fmt.Printf("conflict on %s/%s resolved as %s (sources: %s)\n",
				c.Resource, c.Action, c.Decision, strings.Join(c.SourceRoles, ", "))
		}
		for _, entry := range result.InheritancePath {
			fmt.Printf("visited %s at depth %d (+%d permissions)\n", entry.RoleID, entry.Depth, entry.PermissionsAdded)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolvePolicy, "policy", string(hierarchy.MostPermissive),
		"conflict resolution policy: most-permissive, least-permissive or explicit-only")
	resolveCmd.Flags().IntVar(&resolveMaxDepth, "max-depth", hierarchy.DefaultMaxDepth, "inheritance traversal depth bound")
	resolveCmd.Flags().BoolVar(&resolveTrace, "trace", false, "include the inheritance traversal trace")
	rootCmd.AddCommand(resolveCmd)
}
