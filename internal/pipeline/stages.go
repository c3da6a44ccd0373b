package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/delegator/internal/bind"
	"github.com/funvibe/delegator/internal/plan"
	"github.com/funvibe/delegator/internal/vm"
)

// StackMismatchError indicates that the accounted stack size of the emitted
// body disagrees with a replay of its instructions.
type StackMismatchError struct {
	Reported vm.Trace
	Replayed vm.Trace
}

func (e *StackMismatchError) Error() string {
	return fmt.Sprintf("stack accounting mismatch: reported impact %d, maximum %d; replayed %d, %d",
		e.Reported.Final, e.Reported.Max, e.Replayed.Final, e.Replayed.Max)
}

// LoadProcessor reads and validates the plan file.
type LoadProcessor struct{}

func (p *LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	cfg, err := plan.LoadConfig(ctx.PlanPath)
	if err != nil {
		return ctx.fail(err)
	}
	ctx.Logger.Debug("loaded plan", zap.String("path", ctx.PlanPath), zap.Int("targets", len(cfg.Targets)))
	ctx.Config = cfg
	return ctx
}

// DescribeProcessor resolves the names of the loaded plan.
type DescribeProcessor struct{}

func (p *DescribeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Config == nil {
		return ctx
	}
	pl, err := plan.Build(ctx.Config)
	if err != nil {
		return ctx.fail(fmt.Errorf("%s: %w", ctx.PlanPath, err))
	}
	ctx.Logger.Debug("described plan",
		zap.Stringer("instrumented", pl.Instrumented),
		zap.Stringer("source", pl.Source))
	ctx.Plan = pl
	return ctx
}

// BindProcessor selects the target the source delegates to.
type BindProcessor struct{}

func (p *BindProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Plan == nil {
		return ctx
	}
	processor, err := ctx.Plan.Processor(bind.WithLogger(ctx.Logger))
	if err != nil {
		return ctx.fail(err)
	}
	binding, err := processor.Process(ctx.Context, ctx.Plan.Instrumented, ctx.Plan.Source, ctx.Plan.Targets)
	if err != nil {
		return ctx.fail(err)
	}
	ctx.Binding = binding
	return ctx
}

// EmitProcessor emits the delegating body of the source method.
type EmitProcessor struct{}

func (p *EmitProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Binding == nil {
		return ctx
	}
	body := bind.Delegate(ctx.Binding, ctx.Plan.Instrumented, ctx.Plan.Source)
	if !body.IsValid() {
		return ctx.fail(fmt.Errorf("%s cannot delegate to %s", ctx.Plan.Source, ctx.Binding.Target()))
	}
	ctx.Chunk = vm.NewChunk()
	ctx.Size = body.Apply(ctx.Chunk)
	ctx.Logger.Debug("emitted body",
		zap.Int("instructions", len(ctx.Chunk.Instructions)),
		zap.Int("maxStack", ctx.Size.Maximum))
	return ctx
}

// VerifyProcessor replays the emitted body and checks the reported size.
type VerifyProcessor struct{}

func (p *VerifyProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Chunk == nil {
		return ctx
	}
	tr, err := vm.Simulate(ctx.Chunk)
	if err != nil {
		return ctx.fail(fmt.Errorf("verifying body: %w", err))
	}
	ctx.Trace = tr
	reported := vm.Trace{Final: ctx.Size.Impact, Max: ctx.Size.Maximum}
	if reported != tr {
		return ctx.fail(&StackMismatchError{Reported: reported, Replayed: tr})
	}
	return ctx
}
