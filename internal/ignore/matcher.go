package ignore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFile holds extra exclusion rules at the content root.
const IgnoreFile = ".links-hereignore"

type rule struct {
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies gitignore-like rules with "last rule wins" behavior.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from user-provided rules. There are no built-in
// excludes: every directory takes part in the walk unless a rule names it.
func NewMatcher(userRules []string) *Matcher {
	rules := make([]rule, 0, len(userRules))
	for _, line := range userRules {
		if parsed, ok := parseRule(line); ok {
			rules = append(rules, parsed)
		}
	}

	return &Matcher{rules: rules}
}

// ShouldIgnore returns true when relPath should be excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	if relPath == "" {
		return false
	}
	ignored := false
	for _, rule := range m.rules {
		if ruleMatches(rule, relPath, isDir) {
			ignored = !rule.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" || !doublestar.ValidatePattern(line) {
		return rule{}, false
	}
	parsed.pattern = line
	return parsed, true
}

func ruleMatches(rule rule, relPath string, isDir bool) bool {
	if rule.dirOnly {
		if matchDirectoryPattern(rule, relPath) {
			return true
		}
		return isDir && !rule.anchored && match(rule.pattern, path.Base(relPath))
	}

	if rule.anchored {
		return match(rule.pattern, relPath)
	}

	if strings.Contains(rule.pattern, "/") {
		parts := strings.Split(relPath, "/")
		for i := range parts {
			if match(rule.pattern, strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	for _, segment := range strings.Split(relPath, "/") {
		if match(rule.pattern, segment) {
			return true
		}
	}
	return false
}

// matchDirectoryPattern reports whether relPath is the directory named by the
// rule or lies below it.
func matchDirectoryPattern(rule rule, relPath string) bool {
	parts := strings.Split(relPath, "/")
	for i := range parts {
		candidate := strings.Join(parts[:i+1], "/")
		if match(rule.pattern, candidate) {
			return true
		}
		if rule.anchored {
			continue
		}
		for j := 1; j <= i; j++ {
			if match(rule.pattern, strings.Join(parts[j:i+1], "/")) {
				return true
			}
		}
	}
	return false
}

func match(pattern, value string) bool {
	ok, err := doublestar.Match(pattern, value)
	return err == nil && ok
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}
