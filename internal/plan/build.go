package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/delegator/internal/bind"
	"github.com/funvibe/delegator/internal/bind/annotation"
	"github.com/funvibe/delegator/internal/bytecode/assign"
	"github.com/funvibe/delegator/internal/config"
	"github.com/funvibe/delegator/internal/typesystem"
)

// Plan is a resolved Config: every name is bound to a type or marker.
type Plan struct {
	Universe     *typesystem.Universe
	Instrumented *typesystem.Type
	Source       *typesystem.Method
	Targets      []*typesystem.Method
	Defaults     annotation.DefaultProvider
	Resolver     bind.AmbiguityResolver
	Concurrency  int
}

// Build resolves the names of cfg.
func Build(cfg *Config) (*Plan, error) {
	u := typesystem.NewUniverse()
	if err := defineTypes(u, cfg.Types); err != nil {
		return nil, err
	}

	instrumented, err := u.Lookup(cfg.Instrumented)
	if err != nil {
		return nil, fmt.Errorf("instrumented: %w", err)
	}
	if instrumented.Kind != typesystem.KindReference {
		return nil, fmt.Errorf("instrumented: %s is not a reference type", instrumented)
	}

	source, err := buildMethod(u, &cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	targets := make([]*typesystem.Method, len(cfg.Targets))
	for i := range cfg.Targets {
		if targets[i], err = buildMethod(u, &cfg.Targets[i]); err != nil {
			return nil, fmt.Errorf("targets[%d] (%s): %w", i, cfg.Targets[i].Name, err)
		}
	}

	p := &Plan{
		Universe:     u,
		Instrumented: instrumented,
		Source:       source,
		Targets:      targets,
		Defaults:     defaultProvider(cfg.Defaults),
		Resolver:     resolverChain(cfg.Resolvers),
		Concurrency:  cfg.Concurrency,
	}
	return p, nil
}

// Binder assembles the marker-driven binder with the built-in strategies.
func (p *Plan) Binder() (*annotation.Binder, error) {
	return annotation.NewBinder(annotation.Builtins(), p.Defaults, assign.Default(), bind.DefaultInvoker)
}

// Processor assembles the candidate selection of the plan.
func (p *Plan) Processor(opts ...bind.Option) (*bind.Processor, error) {
	binder, err := p.Binder()
	if err != nil {
		return nil, err
	}
	if p.Concurrency > 0 {
		opts = append(opts, bind.WithConcurrency(p.Concurrency))
	}
	return bind.NewProcessor(binder, p.Resolver, opts...), nil
}

// defineTypes registers every declared type before linking supertypes, so
// declarations may refer to each other in any order.
func defineTypes(u *typesystem.Universe, specs []TypeSpec) error {
	declared := make([]*typesystem.Type, len(specs))
	for i, spec := range specs {
		if strings.HasSuffix(spec.Name, "[]") {
			return fmt.Errorf("types[%d]: %s: array types are implicit", i, spec.Name)
		}
		t := typesystem.NewReference(spec.Name)
		t.Interface = spec.Interface
		if err := u.Define(t); err != nil {
			return fmt.Errorf("types[%d]: %w", i, err)
		}
		declared[i] = t
	}
	for i, spec := range specs {
		for _, name := range spec.Extends {
			super, err := u.Lookup(name)
			if err != nil {
				return fmt.Errorf("types[%d] (%s): %w", i, spec.Name, err)
			}
			if super.Kind != typesystem.KindReference {
				return fmt.Errorf("types[%d] (%s): cannot extend %s", i, spec.Name, super)
			}
			declared[i].Supertypes = append(declared[i].Supertypes, super)
		}
	}
	for _, t := range declared {
		if err := checkAcyclic(t, map[*typesystem.Type]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func checkAcyclic(t *typesystem.Type, path map[*typesystem.Type]bool) error {
	if path[t] {
		return fmt.Errorf("type %s extends itself", t)
	}
	path[t] = true
	for _, super := range t.Supertypes {
		if err := checkAcyclic(super, path); err != nil {
			return err
		}
	}
	delete(path, t)
	return nil
}

func buildMethod(u *typesystem.Universe, spec *MethodSpec) (*typesystem.Method, error) {
	declaring, err := u.Lookup(spec.Declaring)
	if err != nil {
		return nil, err
	}
	if declaring.Kind != typesystem.KindReference {
		return nil, fmt.Errorf("declaring type %s is not a reference type", declaring)
	}
	ret, err := u.Lookup(spec.Returns)
	if err != nil {
		return nil, err
	}
	markers, err := parseMarkers(spec.Markers)
	if err != nil {
		return nil, err
	}

	m := &typesystem.Method{
		Name:      spec.Name,
		Declaring: declaring,
		Return:    ret,
		Static:    spec.Static,
		Markers:   markers,
	}
	for i, p := range spec.Params {
		t, err := u.Lookup(p.Type)
		if err != nil {
			return nil, fmt.Errorf("params[%d]: %w", i, err)
		}
		if t.IsVoid() {
			return nil, fmt.Errorf("params[%d]: void is not a parameter type", i)
		}
		pm, err := parseMarkers(p.Markers)
		if err != nil {
			return nil, fmt.Errorf("params[%d]: %w", i, err)
		}
		m.Parameters = append(m.Parameters, t)
		m.ParameterMarkers = append(m.ParameterMarkers, pm)
	}
	return m, nil
}

func parseMarkers(names []string) ([]typesystem.Marker, error) {
	var markers []typesystem.Marker
	for _, name := range names {
		m, err := ParseMarker(name)
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, nil
}

// ParseMarker reads a marker as written in a plan: a bare name such as
// "This", or "Argument(<index>)". Names without a built-in meaning become
// attribute-less markers that no built-in binder handles.
func ParseMarker(s string) (typesystem.Marker, error) {
	s = strings.TrimSpace(s)
	name, args, hasArgs := strings.Cut(s, "(")
	if hasArgs {
		var ok bool
		if args, ok = strings.CutSuffix(args, ")"); !ok {
			return nil, fmt.Errorf("marker %q: missing closing parenthesis", s)
		}
	}
	if name == "" {
		return nil, fmt.Errorf("marker %q: name is required", s)
	}

	if name == config.ArgumentMarker {
		if !hasArgs {
			return nil, fmt.Errorf("marker %q: argument index is required", s)
		}
		index, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return nil, fmt.Errorf("marker %q: %w", s, err)
		}
		return annotation.Argument{Index: index}, nil
	}
	if hasArgs {
		return nil, fmt.Errorf("marker %q takes no arguments", s)
	}
	return typesystem.Flag(name), nil
}

func defaultProvider(name string) annotation.DefaultProvider {
	if name == config.NextUnboundDefaults {
		return annotation.NextUnboundArgumentProvider{}
	}
	return annotation.EmptyDefaultProvider{}
}

func resolverChain(names []string) bind.AmbiguityResolver {
	chain := make(bind.ResolverChain, 0, len(names))
	for _, name := range names {
		switch name {
		case config.MostSpecificTypeResolver:
			chain = append(chain, bind.MostSpecificTypeResolver{})
		case config.ParameterLengthResolver:
			chain = append(chain, bind.ParameterLengthResolver{})
		}
	}
	return chain
}
