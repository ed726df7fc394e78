package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authzkit/authzkit/pkg/hierarchy"
)

var treeMaxDepth int

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Render the role hierarchy as an indented tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := loadRoles(cmd.Context())
		if err != nil {
			return err
		}

		result := hierarchy.Render(roles, hierarchy.RenderOptions{MaxDepth: treeMaxDepth})
		if outputJSON {
			return printJSON(result.Nodes)
		}
		fmt.Print(result.ASCII)
		return nil
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", 0, "limit rendering depth (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}
