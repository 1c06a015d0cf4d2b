package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
)

func newRenderCmd() *cobra.Command {
	var (
		step     int
		review   bool
		dataPath string
		renderer string
		output   string
		showAll  bool
	)
	cmd := &cobra.Command{
		Use:   "render [schema]",
		Short: "Render a step or the review screen",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadSchema(args)
			if err != nil {
				return err
			}
			data := formdata.Data{}
			if dataPath != "" {
				if data, err = formdata.LoadFile(dataPath); err != nil {
					return err
				}
			}
			if review {
				step = doc.ReviewIndex()
			}
			if renderer == "" {
				renderer = cfg.Render.Renderer
			}

			gen := orchestrator.New(
				orchestrator.WithLogger(logger),
				orchestrator.WithValidator(newValidator()),
				orchestrator.WithStrict(cfg.Render.Strict),
				orchestrator.WithHTMLOptions(html.WithAction(cfg.Render.Action)),
			)
			out, err := gen.Generate(cmd.Context(), orchestrator.Request{
				Schema:   doc,
				Step:     step,
				Data:     data,
				Renderer: renderer,
				ShowAll:  showAll,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().IntVar(&step, "step", 0, "zero-based step index")
	cmd.Flags().BoolVar(&review, "review", false, "render the review screen")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML form data")
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "", "renderer name (html, json, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	cmd.Flags().BoolVar(&showAll, "show-all", false, "report validation for every visible field")
	return cmd
}
