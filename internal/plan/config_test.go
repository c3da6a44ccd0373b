package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/delegator/internal/config"
)

func TestParseConfig_ValidMinimal(t *testing.T) {
	yaml := `
instrumented: demo.Proxy
types:
  - name: demo.Proxy
source:
  name: run
targets:
  - name: handle
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults != config.NoDefaults {
		t.Errorf("defaults = %q, want %q", cfg.Defaults, config.NoDefaults)
	}
	if len(cfg.Resolvers) != 1 || cfg.Resolvers[0] != config.MostSpecificTypeResolver {
		t.Errorf("resolvers = %v, want [%s]", cfg.Resolvers, config.MostSpecificTypeResolver)
	}
	if cfg.Source.Declaring != "demo.Proxy" {
		t.Errorf("source declaring = %q, want demo.Proxy", cfg.Source.Declaring)
	}
	if cfg.Targets[0].Returns != "void" {
		t.Errorf("target returns = %q, want void", cfg.Targets[0].Returns)
	}
}

func TestParseConfig_ParamShorthand(t *testing.T) {
	yaml := `
instrumented: demo.Proxy
source:
  name: run
  params: [int, "demo.Proxy[]"]
targets:
  - name: handle
    params:
      - long
      - type: int
        markers: [Argument(0)]
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Source.Params[1].Type; got != "demo.Proxy[]" {
		t.Errorf("source params[1] = %q", got)
	}
	target := cfg.Targets[0]
	if target.Params[0].Type != "long" || len(target.Params[0].Markers) != 0 {
		t.Errorf("params[0] = %+v", target.Params[0])
	}
	if target.Params[1].Type != "int" || len(target.Params[1].Markers) != 1 {
		t.Errorf("params[1] = %+v", target.Params[1])
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing instrumented",
			yaml: "source: {name: run}\ntargets: [{name: h}]",
			want: "instrumented is required",
		},
		{
			name: "missing source name",
			yaml: "instrumented: a.B\ntargets: [{name: h}]",
			want: "source: name is required",
		},
		{
			name: "no targets",
			yaml: "instrumented: a.B\nsource: {name: run}",
			want: "no targets defined",
		},
		{
			name: "unnamed target",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{returns: int}]",
			want: "targets[0]: name is required",
		},
		{
			name: "untyped parameter",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{name: h, params: [{markers: [This]}]}]",
			want: "params[0]: type is required",
		},
		{
			name: "duplicate type",
			yaml: "types: [{name: a.B}, {name: a.B}]\ninstrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]",
			want: "a.B declared twice",
		},
		{
			name: "unknown defaults",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]\ndefaults: all",
			want: `unknown provider "all"`,
		},
		{
			name: "unknown resolver",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]\nresolvers: [coin-flip]",
			want: `unknown resolver "coin-flip"`,
		},
		{
			name: "negative concurrency",
			yaml: "instrumented: a.B\nsource: {name: run}\ntargets: [{name: h}]\nconcurrency: -1",
			want: "concurrency must not be negative",
		},
		{
			name: "malformed yaml",
			yaml: "instrumented: [",
			want: "parsing test.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "delegator.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Types) != 3 || len(cfg.Targets) != 4 {
		t.Errorf("got %d types and %d targets", len(cfg.Types), len(cfg.Targets))
	}
	if cfg.Defaults != config.NextUnboundDefaults {
		t.Errorf("defaults = %q", cfg.Defaults)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if path != "" {
		// A plan above the temp dir would be found; nothing to assert then.
		t.Skipf("found unrelated plan %s", path)
	}

	want := filepath.Join(root, "a", "delegator.yml")
	if err := os.WriteFile(want, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err = FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if path != want {
		t.Errorf("FindConfig = %q, want %q", path, want)
	}

	preferred := filepath.Join(root, "a", "delegator.yaml")
	if err := os.WriteFile(preferred, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if path, _ = FindConfig(nested); path != preferred {
		t.Errorf("FindConfig = %q, want %q", path, preferred)
	}
}
