package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/funvibe/delegator/internal/bind"
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/plan"
	"github.com/funvibe/delegator/internal/vm"
)

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state shared by the stages of one run.
type PipelineContext struct {
	Context context.Context
	Logger  *zap.Logger

	// PlanPath is the plan file to load.
	PlanPath string

	Config *plan.Config
	Plan   *plan.Plan

	// Binding is the selected delegation, Chunk the method body emitted
	// from it.
	Binding bind.Binding

	Chunk *vm.Chunk
	Size  bytecode.Size
	Trace vm.Trace

	Errors []error
}

func NewPipelineContext(ctx context.Context, planPath string) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PipelineContext{
		Context:  ctx,
		Logger:   zap.NewNop(),
		PlanPath: planPath,
	}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}

// Err joins the errors recorded by the stages.
func (c *PipelineContext) Err() error {
	return errors.Join(c.Errors...)
}

func (c *PipelineContext) fail(err error) *PipelineContext {
	c.Errors = append(c.Errors, err)
	return c
}
