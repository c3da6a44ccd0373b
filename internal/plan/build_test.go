package plan

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/delegator/internal/bind"
	"github.com/funvibe/delegator/internal/bind/annotation"
	"github.com/funvibe/delegator/internal/typesystem"
)

func loadPlan(t *testing.T) *Plan {
	t.Helper()
	cfg, err := LoadConfig(filepath.Join("testdata", "delegator.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	p, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestBuild(t *testing.T) {
	p := loadPlan(t)

	if p.Instrumented.Name != "zoo.Dog" {
		t.Errorf("instrumented = %s", p.Instrumented)
	}
	animal, err := p.Universe.Lookup("zoo.Animal")
	if err != nil {
		t.Fatal(err)
	}
	if !animal.Interface || !animal.IsAssignableFrom(p.Instrumented) {
		t.Errorf("zoo.Dog must implement the zoo.Animal interface")
	}

	if got := p.Source.Descriptor(); got != "(ILzoo/Dog;)J" {
		t.Errorf("source descriptor = %s", got)
	}
	if p.Source.Declaring != p.Instrumented {
		t.Errorf("source declared by %s, want the instrumented type", p.Source.Declaring)
	}

	onAnimal := p.Targets[0]
	if !onAnimal.Static || onAnimal.Declaring.Name != "zoo.Keeper" {
		t.Errorf("onAnimal = %s", onAnimal)
	}
	if markers := onAnimal.ParameterMarkersAt(0); len(markers) != 1 || markers[0] != (annotation.Argument{Index: 1}) {
		t.Errorf("onAnimal parameter markers = %v", markers)
	}
	if markers := onAnimal.ParameterMarkersAt(1); len(markers) != 0 {
		t.Errorf("unmarked parameter has markers %v", markers)
	}
	if !p.Targets[2].Parameters[0].IsArray() {
		t.Errorf("onAll takes %s, want an array", p.Targets[2].Parameters[0])
	}
	if !p.Targets[3].HasMarker(annotation.IgnoreForBindingMarker) {
		t.Error("ignored target lost its marker")
	}
	if _, ok := p.Defaults.(annotation.NextUnboundArgumentProvider); !ok {
		t.Errorf("defaults = %T", p.Defaults)
	}
	if chain, ok := p.Resolver.(bind.ResolverChain); !ok || len(chain) != 2 {
		t.Errorf("resolver = %#v", p.Resolver)
	}
}

func TestPlanProcessor(t *testing.T) {
	p := loadPlan(t)
	processor, err := p.Processor()
	if err != nil {
		t.Fatalf("Processor: %v", err)
	}
	binding, err := processor.Process(context.Background(), p.Instrumented, p.Source, p.Targets)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if binding.Target().Name != "onDog" {
		t.Errorf("selected %s, want onDog", binding.Target())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown instrumented",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]",
			want: "symbol not found: a.B",
		},
		{
			name: "primitive instrumented",
			yaml: "instrumented: int\nsource: {name: run}\ntargets: [{name: h}]",
			want: "int is not a reference type",
		},
		{
			name: "unknown supertype",
			yaml: "types: [{name: a.B, extends: [a.C]}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]",
			want: "symbol not found: a.C",
		},
		{
			name: "cyclic supertypes",
			yaml: "types: [{name: a.B, extends: [a.C]}, {name: a.C, extends: [a.B]}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]",
			want: "extends itself",
		},
		{
			name: "declared array",
			yaml: "types: [{name: \"a.B[]\"}]\ninstrumented: lang.Object\nsource: {name: run}\ntargets: [{name: h}]",
			want: "array types are implicit",
		},
		{
			name: "void parameter",
			yaml: "types: [{name: a.B}]\ninstrumented: a.B\nsource: {name: run, params: [void]}\ntargets: [{name: h}]",
			want: "void is not a parameter type",
		},
		{
			name: "unknown parameter type",
			yaml: "types: [{name: a.B}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h, params: [a.C]}]",
			want: "targets[0] (h): params[0]: symbol not found: a.C",
		},
		{
			name: "bad marker",
			yaml: "types: [{name: a.B}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h, params: [{type: int, markers: [Argument]}]}]",
			want: "argument index is required",
		},
		{
			name: "primitive declaring type",
			yaml: "types: [{name: a.B}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h, declaring: int}]",
			want: "declaring type int is not a reference type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			_, err = Build(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBuildUnknownTypeIsTyped(t *testing.T) {
	cfg, err := ParseConfig([]byte("instrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]"), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(cfg)
	var notFound *typesystem.SymbolNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "a.B" {
		t.Errorf("expected SymbolNotFoundError for a.B, got %v", err)
	}
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		in      string
		want    typesystem.Marker
		wantErr bool
	}{
		{in: "This", want: annotation.This},
		{in: "AllArguments", want: annotation.AllArguments},
		{in: " RuntimeType ", want: annotation.RuntimeType},
		{in: "Argument(2)", want: annotation.Argument{Index: 2}},
		{in: "Argument( 0 )", want: annotation.Argument{Index: 0}},
		{in: "Custom", want: typesystem.Flag("Custom")},
		{in: "Argument", wantErr: true},
		{in: "Argument(x)", wantErr: true},
		{in: "Argument(1", wantErr: true},
		{in: "This(1)", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMarker(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMarker(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMarker(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMarker(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
