package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/delegator/internal/pipeline"
	"github.com/funvibe/delegator/internal/vm"
)

func newResolveCmd() *cobra.Command {
	var bundlePath string
	cmd := &cobra.Command{
		Use:   "resolve [plan]",
		Short: "Select the delegation target and print the emitted body",
		Long: `Loads the plan, binds the source method to every candidate target,
selects the best binding, emits the delegating body and verifies its
maximum stack size against a replay of the emitted instructions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, bundlePath)
		},
	}
	cmd.Flags().StringVarP(&bundlePath, "out", "o", "", "write the emitted body as a bundle to this file")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [plan]",
		Short: "Validate a plan without binding it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
}

func runResolve(cmd *cobra.Command, args []string, bundlePath string) error {
	path, err := planPath(args)
	if err != nil {
		return err
	}
	ctx := pipeline.NewPipelineContext(cmd.Context(), path)
	ctx.Logger = logger
	ctx = pipeline.Resolve().Run(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := ctx.Plan
	fmt.Fprintln(out, header(out, "Delegation"))
	fmt.Fprintf(out, "  source:  %s\n", p.Source)
	fmt.Fprintf(out, "  target:  %s\n", ctx.Binding.Target())
	for _, token := range ctx.Binding.Tokens() {
		fmt.Fprintf(out, "  %v -> %v\n", token, ctx.Binding.TargetParameterIndices(token))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, header(out, "Body"))
	fmt.Fprint(out, vm.Disassemble(ctx.Chunk, p.Source.Name))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "max stack: %d (replayed %d), %d bytes\n", ctx.Size.Maximum, ctx.Trace.Max, ctx.Chunk.Len())

	if bundlePath != "" {
		if err := writeBundle(bundlePath, ctx); err != nil {
			return err
		}
		logger.Info("wrote bundle", zap.String("path", bundlePath))
	}
	return nil
}

func writeBundle(path string, ctx *pipeline.PipelineContext) error {
	source := ctx.Plan.Source
	bundle := vm.NewBundle(ctx.Plan.Instrumented.InternalName())
	bundle.Add(&vm.BundledMethod{
		Name:       source.Name,
		Descriptor: source.Descriptor(),
		MaxStack:   ctx.Size.Maximum,
		Chunk:      ctx.Chunk,
	})
	data, err := bundle.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing bundle %s: %w", path, err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := planPath(args)
	if err != nil {
		return err
	}
	ctx := pipeline.NewPipelineContext(cmd.Context(), path)
	ctx.Logger = logger
	ctx = pipeline.Check().Run(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d targets)\n", path, len(ctx.Plan.Targets))
	return nil
}

// header renders s in bold when w is a terminal.
func header(w io.Writer, s string) string {
	f, ok := w.(*os.File)
	if !ok {
		return s
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return s
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}
