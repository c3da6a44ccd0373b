package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/delegator/internal/config"
	"github.com/funvibe/delegator/internal/plan"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "delegator",
		Short:        "Resolve method delegation plans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
	root.AddCommand(newResolveCmd(), newCheckCmd(), newVersionCmd())
	return root
}

// newLogger logs warnings and errors to stderr, and debug output as well
// when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// planPath returns the plan named on the command line, or the nearest
// delegator.yaml above the working directory.
func planPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	path, err := plan.FindConfig(".")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no %s found in this directory or its parents", config.PlanFileNames[0])
	}
	return path, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "delegator %s\n", config.Version)
		},
	}
}
