package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/authzkit/authzkit/pkg/hierarchy"
)

var (
	analyzeMetrics       bool
	analyzeAntiPatterns  bool
	analyzeOptimizations bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report structural metrics and anti-patterns of the role graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := loadRoles(cmd.Context())
		if err != nil {
			return err
		}

		result := hierarchy.Analyze(roles, hierarchy.AnalyzeOptions{
			IncludeMetrics:       analyzeMetrics,
			IncludeAntiPatterns:  analyzeAntiPatterns,
			IncludeOptimizations: analyzeOptimizations,
		})

		if outputJSON {
			if err := printJSON(result); err != nil {
				return err
			}
		} else {
			printAnalysis(result)
		}

		if !result.Valid {
			return fmt.Errorf("role graph is invalid")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeMetrics, "metrics", true, "include structural metrics")
	analyzeCmd.Flags().BoolVar(&analyzeAntiPatterns, "antipatterns", true, "include anti-pattern detection")
	analyzeCmd.Flags().BoolVar(&analyzeOptimizations, "optimizations", true, "include optimization suggestions")
	rootCmd.AddCommand(analyzeCmd)
}

func printAnalysis(result hierarchy.AnalysisResult) {
	if !result.Valid {
		for _, msg := range result.Errors {
			fmt.Println(msg)
		}
		return
	}

	if m := result.Metrics; m != nil {
		fmt.Printf("roles:            %d\n", m.TotalRoles)
		fmt.Printf("max depth:        %d\n", m.MaxDepth)
		fmt.Printf("average depth:    %.2f\n", m.AverageDepth)
		fmt.Printf("roots:            %s\n", strings.Join(m.RootRoles, ", "))
		fmt.Printf("leaves:           %s\n", strings.Join(m.LeafRoles, ", "))
		if len(m.OrphanedRoles) > 0 {
			fmt.Printf("orphans:          %s\n", strings.Join(m.OrphanedRoles, ", "))
		}
		if m.MostInheritedRole != "" {
			fmt.Printf("most inherited:   %s\n", m.MostInheritedRole)
		}
		fmt.Printf("complexity score: %d/100\n", m.ComplexityScore)
	}

	for _, pattern := range result.AntiPatterns {
		fmt.Printf("\n[%s] %s: %s\n", pattern.Severity, pattern.Type, pattern.Description)
		if len(pattern.AffectedRoles) > 0 {
			fmt.Printf("  affected: %s\n", strings.Join(pattern.AffectedRoles, ", "))
		}
	}

	for _, opt := range result.Optimizations {
		fmt.Printf("\nsuggestion (%s): %s\n", opt.Type, opt.Rationale)
		for i, step := range opt.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
}
