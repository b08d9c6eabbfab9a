package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/callisto/pkg/watchitems"
)

var validateFlags struct {
	file string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a watch-items document",
	Long: `Validate a watch-items policy document without starting the agent.

The document is parsed and compiled exactly as the running agent would on a
reload cycle: every policy is validated, and the full path set is checked
for duplicates. Validation is all-or-nothing; any problem rejects the
document and all problems are reported.

Examples:
  # Validate a document
  callisto validate --file /etc/callisto/watchitems.yaml`,
	RunE: validateDocument,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "watch-items document to validate")
	validateCmd.MarkFlagRequired("file")
}

func validateDocument(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(validateFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", validateFlags.file, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", validateFlags.file, err)
	}

	policies, err := watchitems.ParsePolicies(doc)
	if err != nil {
		return fmt.Errorf("document rejected: %w", err)
	}

	_, paths, err := watchitems.BuildTree(policies)
	if err != nil {
		return fmt.Errorf("document rejected: %w", err)
	}

	fmt.Printf("✓ Document valid (%d policies, %d monitored paths)\n", len(policies), len(paths))
	if verbose {
		for _, policy := range policies {
			kind := "literal"
			if policy.IsPrefix {
				kind = "prefix"
			}
			mode := "deny"
			if policy.AuditOnly {
				mode = "audit"
			}
			fmt.Printf("  %s: %s (%s, %s)\n", policy.Name, policy.Path, kind, mode)
		}
	}
	return nil
}
