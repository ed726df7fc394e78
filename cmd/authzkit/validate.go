package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authzkit/authzkit/pkg/hierarchy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the role inheritance graph for cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := loadRoles(cmd.Context())
		if err != nil {
			return err
		}

		result := hierarchy.ValidateAcyclic(roles)
		if outputJSON {
			if err := printJSON(result); err != nil {
				return err
			}
		} else if result.Valid {
			fmt.Printf("OK: %d roles, no cycles\n", len(roles))
		} else {
			for _, msg := range result.Errors {
				fmt.Println(msg)
			}
		}

		if !result.Valid {
			return fmt.Errorf("role graph is invalid: %d cycle(s) found", len(result.Cycles))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
