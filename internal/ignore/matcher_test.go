package ignore

import "testing"

func TestMatcher_UserRulesAndOverrides(t *testing.T) {
	m := NewMatcher([]string{
		"drafts/**",
		"!drafts/keep",
		"*-wip",
	})

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{path: ".git", isDir: true, ignored: false},
		{path: "concepts/.obsidian", isDir: true, ignored: false},
		{path: "node_modules/pkg", isDir: true, ignored: false},
		{path: "drafts/idea", isDir: true, ignored: true},
		{path: "drafts/keep", isDir: true, ignored: false},
		{path: "concepts/parser-wip", isDir: true, ignored: true},
		{path: "concepts/parser", isDir: true, ignored: false},
		{path: "concepts", isDir: true, ignored: false},
	}

	for _, tc := range cases {
		got := m.ShouldIgnore(tc.path, tc.isDir)
		if got != tc.ignored {
			t.Fatalf("path %s: expected ignored=%v, got %v", tc.path, tc.ignored, got)
		}
	}
}

func TestMatcher_NegatedDirectoryRule(t *testing.T) {
	m := NewMatcher([]string{
		"archive/",
		"!archive/current/",
	})

	if !m.ShouldIgnore("archive/old/leaf", true) {
		t.Fatalf("expected archive/old/leaf to be ignored")
	}
	if m.ShouldIgnore("archive/current/leaf", true) {
		t.Fatalf("expected archive/current/leaf to be included")
	}
}

func TestMatcher_AnchoredRuleOnlyMatchesFromRoot(t *testing.T) {
	m := NewMatcher([]string{"/index/"})

	if !m.ShouldIgnore("index/alpha", true) {
		t.Fatalf("expected top-level index/alpha to be ignored")
	}
	if m.ShouldIgnore("concepts/index", true) {
		t.Fatalf("did not expect nested concepts/index to match anchored rule")
	}
}

func TestMatcher_SkipsCommentsAndInvalidPatterns(t *testing.T) {
	m := NewMatcher([]string{"# comment", "", "[unclosed"})
	if len(m.rules) != 0 {
		t.Fatalf("expected no rules to survive, got %d", len(m.rules))
	}
}

func TestMatcher_HasNoBuiltInExcludes(t *testing.T) {
	m := NewMatcher(nil)
	for _, dir := range []string{".hidden", "node_modules", "concepts/.draft"} {
		if m.ShouldIgnore(dir, true) {
			t.Fatalf("expected %s to be walked without an explicit rule", dir)
		}
	}

	m = NewMatcher([]string{".*/", "node_modules/"})
	if !m.ShouldIgnore(".hidden", true) || !m.ShouldIgnore("node_modules/pkg", true) {
		t.Fatalf("expected explicit rules to exclude hidden and node_modules directories")
	}
}
