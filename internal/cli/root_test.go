package cli

import (
	"strings"
	"testing"
)

func TestRootHelpShowsUnquotedMarkers(t *testing.T) {
	long := NewRootCommand("test").Long

	for _, expected := range []string{"{{< ref name >}}", "{{< note name >}}"} {
		if !strings.Contains(long, expected) {
			t.Fatalf("expected help text to contain %q, got:\n%s", expected, long)
		}
	}
	if strings.Contains(long, `ref "`) {
		t.Fatalf("expected help text to show unquoted targets, got:\n%s", long)
	}
}

func TestRootRegistersRunFlagsOnWatch(t *testing.T) {
	root := NewRootCommand("test")
	watch, _, err := root.Find([]string{"watch"})
	if err != nil {
		t.Fatalf("failed to find watch command: %v", err)
	}
	for _, name := range []string{"dry-run", "prune", "json", "verbose", "config"} {
		if watch.Flags().Lookup(name) == nil {
			t.Fatalf("expected watch to accept --%s", name)
		}
	}
}
