package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morozRed/linkshere/internal/cli"
)

func TestRootCommandGeneratesThenChecks(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "concepts", "foo", "index.md"), "---\ntitle: Foo\n---\nbody\n")
	mustWriteFile(t, filepath.Join(root, "concepts", "bar", "index.md"), "---\ntitle: Bar\n---\nsee {{< ref foo >}}\n")

	out, err := execute(t, root)
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}

	got, err := os.ReadFile(filepath.Join(root, "concepts", "foo", "links-here.md"))
	if err != nil {
		t.Fatalf("expected links-here.md to be written: %v", err)
	}
	if string(got) != "* [Bar](/concepts/bar)\n\n" {
		t.Fatalf("unexpected links-here.md content: %q", got)
	}

	if out, err := execute(t, "check", root); err != nil {
		t.Fatalf("check failed after generate: %v\n%s", err, out)
	}
}

func TestRootCommandVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "links-here "+version) {
		t.Fatalf("expected version output, got %q", out)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String() + stderr.String(), err
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
