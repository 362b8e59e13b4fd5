// Package vcs materializes the two revisions being compared. It shells out
// to git: the tool compares source history, it does not reimplement it.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveRange splits a comparison spec into (old, new) revisions.
// "a..b" compares a against b; a bare "a" compares a against HEAD.
func ResolveRange(spec string) (string, string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty comparison range")
	}
	if old, new, ok := strings.Cut(spec, ".."); ok {
		if old == "" || new == "" {
			return "", "", fmt.Errorf("invalid comparison range %q", spec)
		}
		return old, new, nil
	}
	return spec, "HEAD", nil
}

// RevParse resolves a revision to its full hash within repo.
func RevParse(ctx context.Context, repo, rev string) (string, error) {
	out, err := git(ctx, repo, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", rev, err)
	}
	return strings.TrimSpace(out), nil
}

// Checkout materializes rev into a detached temporary worktree and returns
// its path plus a cleanup func. The caller owns the cleanup.
func Checkout(ctx context.Context, repo, rev string) (string, func(), error) {
	hash, err := RevParse(ctx, repo, rev)
	if err != nil {
		return "", nil, err
	}
	dir, err := os.MkdirTemp("", "apidelta-"+hash[:12]+"-")
	if err != nil {
		return "", nil, err
	}
	if _, err := git(ctx, repo, "worktree", "add", "--detach", dir, hash); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, fmt.Errorf("checking out %s: %w", rev, err)
	}
	cleanup := func() {
		_, _ = git(context.Background(), repo, "worktree", "remove", "--force", dir)
		_ = os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

func git(ctx context.Context, repo string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repo

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}
