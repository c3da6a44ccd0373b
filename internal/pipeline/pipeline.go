package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Every stage runs; stages that depend on a failed one skip
		// themselves, so diagnostics from independent stages are kept.
	}
	return ctx
}

// Resolve is the full pipeline: load the plan, resolve its names, select a
// target, emit the delegating body and verify its stack accounting.
func Resolve() *Pipeline {
	return New(&LoadProcessor{}, &DescribeProcessor{}, &BindProcessor{}, &EmitProcessor{}, &VerifyProcessor{})
}

// Check only loads the plan and resolves its names.
func Check() *Pipeline {
	return New(&LoadProcessor{}, &DescribeProcessor{})
}
