// Package extract invokes the external doc-extraction toolchain and decodes
// its output into a raw API tree. Cancellation and timeouts live here; once
// both trees are in memory the rest of the pipeline needs neither.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"apidelta/internal/tree"
)

// Run executes the extractor command in dir and decodes the JSON tree it
// prints on stdout. The command is split on whitespace; no shell is
// involved. Stderr is attached to the error on failure so extractor
// diagnostics are not lost.
func Run(ctx context.Context, command, dir string) (*tree.Tree, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty extractor command")
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("extractor timed out: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("extractor failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("extractor failed: %w", err)
	}

	t, err := tree.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("extractor output: %w", err)
	}
	return t, nil
}
