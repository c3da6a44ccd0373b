package bind

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/delegator/internal/typesystem"
)

// Processor binds a source method to every candidate target and selects the
// single best binding.
type Processor struct {
	binder      MethodDelegationBinder
	resolver    AmbiguityResolver
	logger      *zap.Logger
	concurrency int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger that receives per-candidate outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithConcurrency bounds the number of candidates bound at once.
// Values below one bind sequentially.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = max(1, n)
	}
}

func NewProcessor(binder MethodDelegationBinder, resolver AmbiguityResolver, opts ...Option) *Processor {
	p := &Processor{
		binder:      binder,
		resolver:    resolver,
		logger:      zap.NewNop(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process returns the best binding of source among targets. Candidates are
// bound concurrently and every valid binding is compared with every other,
// so the outcome depends neither on scheduling nor on the order of targets.
// A binder error aborts the whole process.
func (p *Processor) Process(ctx context.Context, instrumented *typesystem.Type, source *typesystem.Method, targets []*typesystem.Method) (Binding, error) {
	bindings, err := p.bindAll(ctx, instrumented, source, targets)
	if err != nil {
		return nil, err
	}

	var valid []Binding
	for _, b := range bindings {
		if !b.IsValid() {
			continue
		}
		if !Callable(instrumented, source, b.Target()) {
			p.logger.Debug("dropped uncallable candidate", zap.Stringer("target", b.Target()))
			continue
		}
		valid = append(valid, b)
	}
	best := p.undominated(source, valid)
	if len(best) == 0 {
		// every candidate lost to another one: the resolver is cyclic
		best = valid
	}

	switch len(best) {
	case 0:
		return nil, NewNoCandidateError(source)
	case 1:
		p.logger.Debug("selected target", zap.Stringer("source", source), zap.Stringer("target", best[0].Target()))
		return best[0], nil
	default:
		candidates := make([]*typesystem.Method, len(best))
		for i, b := range best {
			candidates[i] = b.Target()
		}
		return nil, NewAmbiguousDelegationError(source, candidates)
	}
}

// undominated returns, in input order, the bindings that no other binding
// is preferred over.
func (p *Processor) undominated(source *typesystem.Method, bindings []Binding) []Binding {
	var best []Binding
	for i, b := range bindings {
		beaten := false
		for j, other := range bindings {
			if i == j {
				continue
			}
			resolution := p.resolver.Resolve(source, b, other)
			p.logger.Debug("compared candidates",
				zap.Stringer("left", b.Target()),
				zap.Stringer("right", other.Target()),
				zap.Stringer("resolution", resolution))
			if resolution == Right {
				beaten = true
				break
			}
		}
		if !beaten {
			best = append(best, b)
		}
	}
	return best
}

func (p *Processor) bindAll(ctx context.Context, instrumented *typesystem.Type, source *typesystem.Method, targets []*typesystem.Method) ([]Binding, error) {
	bindings := make([]Binding, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, target := range targets {
		i, target := i, target
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			b, err := p.binder.Bind(instrumented, source, target)
			if err != nil {
				return fmt.Errorf("binding %s: %w", target, err)
			}
			p.logger.Debug("bound candidate",
				zap.Stringer("target", target),
				zap.Bool("valid", b.IsValid()))
			bindings[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bindings, nil
}
