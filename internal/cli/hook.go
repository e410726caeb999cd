package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/morozRed/linkshere/internal/fileutil"
	"github.com/spf13/cobra"
)

const (
	HookStart = "# >>> links-here check hook >>>"
	HookEnd   = "# <<< links-here check hook <<<"
)

// RunInstallHook adds a pre-commit hook that refuses commits while the
// generated backlink files are stale or a reference is broken.
func RunInstallHook(cmd *cobra.Command, args []string) error {
	contentRoot, err := resolveRootPath(args)
	if err != nil {
		return err
	}

	repoRoot, gitDir, err := ResolveGitPaths(contentRoot)
	if err != nil {
		return err
	}

	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")
	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create hook directory: %w", err)
	}

	existing := ""
	if data, err := os.ReadFile(hookPath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing hook: %w", err)
	}

	relRoot, err := filepath.Rel(repoRoot, contentRoot)
	if err != nil || strings.HasPrefix(relRoot, "..") {
		relRoot = contentRoot
	}

	updated := UpsertCheckHook(existing, repoRoot, filepath.ToSlash(relRoot))
	if err := os.WriteFile(hookPath, []byte(updated), 0755); err != nil {
		return fmt.Errorf("failed to write hook: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed pre-commit hook at %s\n", hookPath)
	return nil
}

func ResolveGitPaths(workingDir string) (repoRoot string, gitDir string, err error) {
	repoRootOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", "", fmt.Errorf("not inside a git repository")
	}

	gitDirOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--git-dir").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve git directory: %w", err)
	}

	repoRoot = strings.TrimSpace(string(repoRootOut))
	gitDir = strings.TrimSpace(string(gitDirOut))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workingDir, gitDir)
	}
	return repoRoot, gitDir, nil
}

// UpsertCheckHook replaces the managed block in existingHook, or appends one
// when the hook has none. Content outside the block is preserved.
func UpsertCheckHook(existingHook, repoRoot, contentRoot string) string {
	block := BuildCheckHookBlock(repoRoot, contentRoot)

	if existingHook == "" {
		return "#!/bin/sh\n\n" + block + "\n"
	}

	start := strings.Index(existingHook, HookStart)
	end := strings.Index(existingHook, HookEnd)
	if start >= 0 && end >= start {
		end += len(HookEnd)
		updated := existingHook[:start] + block + existingHook[end:]
		return fileutil.EnsureTrailingNewline(updated)
	}

	base := fileutil.EnsureTrailingNewline(existingHook)
	if !strings.HasPrefix(base, "#!") {
		base = "#!/bin/sh\n" + base
	}
	return base + "\n" + block + "\n"
}

// BuildCheckHookBlock renders the managed hook block. contentRoot is either
// relative to repoRoot or absolute.
func BuildCheckHookBlock(repoRoot, contentRoot string) string {
	return fmt.Sprintf(
		"%s\nrepo_root=%q\ncontent_root=%q\nif command -v links-here >/dev/null 2>&1; then\n  (cd \"$repo_root\" && links-here check \"$content_root\") || {\n    echo \"links-here: backlinks are out of date, run links-here generate\" >&2\n    exit 1\n  }\nfi\n%s",
		HookStart,
		repoRoot,
		contentRoot,
		HookEnd,
	)
}
