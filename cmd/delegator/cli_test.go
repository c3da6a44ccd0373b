package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/funvibe/delegator/internal/config"
	"github.com/funvibe/delegator/internal/vm"
)

var samplePlan = filepath.Join("..", "..", "internal", "plan", "testdata", "delegator.yaml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger = zap.NewNop()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResolveCmd(t *testing.T) {
	out, err := execute(t, "resolve", samplePlan)
	if err != nil {
		t.Fatalf("resolve failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Delegation", "zoo.Keeper.onDog", "LRETURN", "max stack:", " bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour codes written to a non-terminal")
	}
}

func TestCheckCmd(t *testing.T) {
	out, err := execute(t, "check", samplePlan)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "ok (4 targets)") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestResolveCmdMissingPlan(t *testing.T) {
	_, err := execute(t, "resolve", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing plan")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "delegator "+config.Version {
		t.Errorf("version output = %q", out)
	}
}

func TestPlanPathFromArgs(t *testing.T) {
	path, err := planPath([]string{"x.yaml"})
	if err != nil || path != "x.yaml" {
		t.Errorf("planPath = %q, %v", path, err)
	}
}

func TestResolveCmdWritesBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dog.dlgb")
	if _, err := execute(t, "resolve", samplePlan, "--out", path); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	bundle, err := vm.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if bundle.Type != "zoo/Dog" {
		t.Errorf("bundle type = %q", bundle.Type)
	}
	if m := bundle.Methods["speak(ILzoo/Dog;)J"]; m == nil || m.MaxStack == 0 {
		t.Errorf("speak missing from bundle: %+v", bundle.Methods)
	}
}
