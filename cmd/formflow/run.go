package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/renderers/text"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/sink"
)

func newRunCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "run [schema]",
		Short: "Fill in a form interactively",
		Long: `Prompts for every visible field step by step, shows the review screen and
submits. The submission is written as JSON to --output ("-" for stdout).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				cfg.Submit.Output = output
			}
			return runForm(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "where to write the submission")
	return cmd
}

func runForm(cmd *cobra.Command, args []string) error {
	doc, path, err := loadSchema(args)
	if err != nil {
		return err
	}
	logger.Debug("schema loaded", zap.String("path", path), zap.Int("steps", doc.TotalSteps()))

	out := cmd.OutOrStdout()
	var sinks []sink.Sink
	if cfg.Submit.Log {
		sinks = append(sinks, sink.Log(logger))
	}
	switch cfg.Submit.Output {
	case "":
	case "-":
		sinks = append(sinks, sink.JSON(out, cfg.Submit.Indent))
	default:
		f, err := os.Create(cfg.Submit.Output)
		if err != nil {
			return fmt.Errorf("open submission output: %w", err)
		}
		defer f.Close()
		sinks = append(sinks, sink.JSON(f, cfg.Submit.Indent))
	}
	sinks = append(sinks, sink.Acknowledge(out, cfg.Submit.Message))

	sess, err := session.New(doc,
		session.WithLogger(logger),
		session.WithValidator(newValidator()),
		session.WithHistoryLimit(cfg.Session.HistoryLimit),
		session.WithSinks(sinks...),
	)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithLogger(logger),
		tui.WithReviewRenderer(text.New(text.WithIndent(cfg.Render.Indent))),
	}
	if promptDriver != nil {
		opts = append(opts, tui.WithPromptDriver(promptDriver))
	}
	runner, err := tui.New(opts...)
	if err != nil {
		return err
	}

	if _, err := runner.Run(cmd.Context(), sess); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
		return err
	}
	return nil
}
