package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/formdata"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <data>",
		Short: "Validate a JSON or YAML data file against a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadSchema(args[:1])
			if err != nil {
				return err
			}
			data, err := formdata.LoadFile(args[1])
			if err != nil {
				return err
			}

			failing := newValidator().Schema(doc, data)
			out := cmd.OutOrStdout()
			if len(failing) == 0 {
				fmt.Fprintln(out, "valid")
				return nil
			}

			steps := make([]int, 0, len(failing))
			for idx := range failing {
				steps = append(steps, idx)
			}
			sort.Ints(steps)
			total := 0
			for _, idx := range steps {
				step, _ := doc.Step(idx)
				fmt.Fprintf(out, "step %d (%s):\n", idx+1, step.Title)
				for _, issue := range failing[idx] {
					fmt.Fprintf(out, "  %s [%s]: %s\n", issue.Path, issue.Code, issue.Message)
					total++
				}
			}
			logger.Debug("validation failed", zap.Int("steps", len(steps)), zap.Int("issues", total))
			return fmt.Errorf("%d issue(s) in %d step(s)", total, len(steps))
		},
	}
}
