package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "spark dev") {
		t.Errorf("output = %q", out)
	}
}

func TestRoutesCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "spark.yaml")
	yaml := "static:\n  root: /srv/www\nproxy:\n  allowed_hosts: [example.com]\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "routes", "--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("routes failed: %v", err)
	}
	for _, want := range []string{"/yourid/:id", "/barcode/:data", "redirect /", "/external/:host", "/srv/www recursive"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "spark.yaml")
	if err := os.WriteFile(cfgPath, []byte("server:\n  max_workers: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "serve", "--config", cfgPath, "--env-file", filepath.Join(dir, "none")); err == nil {
		t.Error("expected a validation error")
	}
}
