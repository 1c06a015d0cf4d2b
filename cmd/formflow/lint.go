package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/schema"
)

func newLintCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "lint [schema...]",
		Short: "Check schemas for authoring problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("strict") {
				cfg.Schema.Strict = strict
			}
			paths := args
			if len(paths) == 0 {
				path, err := schemaPath(nil)
				if err != nil {
					return err
				}
				paths = []string{path}
			}

			failed := 0
			for _, path := range paths {
				if !lintFile(cmd, path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d schema(s) failed lint", failed, len(paths))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func lintFile(cmd *cobra.Command, path string) bool {
	out := cmd.OutOrStdout()

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return false
	}
	doc, err := schema.Parse(raw, path)
	if err != nil {
		var problems schema.Problems
		if errors.As(err, &problems) {
			for _, p := range problems {
				fmt.Fprintf(out, "%s: %s\n", path, p)
			}
		} else {
			fmt.Fprintf(out, "%s: %v\n", path, err)
		}
		return false
	}

	warnings := schema.Check(doc).Warnings()
	for _, p := range warnings {
		fmt.Fprintf(out, "%s: %s\n", path, p)
	}
	if len(warnings) > 0 && cfg.Schema.Strict {
		return false
	}
	fmt.Fprintf(out, "%s: ok (%d steps, %d fields)\n", path, doc.TotalSteps(), len(doc.FieldPaths()))
	return true
}
