// Command formflow runs, lints, validates and renders multi-step form
// schemas.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// promptDriver replaces the survey driver in tests.
	promptDriver tui.PromptDriver
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formflow",
		Short: "Schema-driven multi-step forms",
		Long: `formflow drives multi-step forms described by a JSON or YAML schema.

Each step holds fields; the last step is a read-only review. Fields can depend
on earlier answers, draw their options from another field, and are validated
per step before the form advances.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded

			logger, err = logging.New(cfg.Logging, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "formflow.yaml", "config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newRunCmd(), newLintCmd(), newValidateCmd(), newRenderCmd())
	return root
}

// schemaPath picks the positional argument over the configured path.
func schemaPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg != nil && cfg.Schema.Path != "" {
		return cfg.Schema.Path, nil
	}
	return "", fmt.Errorf("a schema path is required (argument or schema.path in config)")
}

func loadSchema(args []string) (*schema.Schema, string, error) {
	path, err := schemaPath(args)
	if err != nil {
		return nil, "", err
	}
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return doc, path, nil
}

func newValidator() *validation.Validator {
	return validation.New(validation.WithInference(cfg.Session.InferFormats))
}
