package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"apidelta/internal/advise"
	"apidelta/internal/api"
	"apidelta/internal/compare"
	"apidelta/internal/config"
	"apidelta/internal/extract"
	"apidelta/internal/manifest"
	"apidelta/internal/report"
	"apidelta/internal/translate"
	"apidelta/internal/tree"
	"apidelta/internal/vcs"
)

var checkCmd = &cobra.Command{
	Use:   "check [old-tree.json new-tree.json]",
	Short: "Compare two API snapshots and print the classified delta",
	Long: `With two file arguments, check compares pre-extracted API trees.
With no arguments it extracts both trees itself: the baseline revision is
taken from --against (a git rev or "rev..rev" range), materialized in a
temporary worktree, and the extractor command runs in each tree.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("config", ".apidelta.yaml", "path to the config file")
	checkCmd.Flags().String("manifest", "", "package manifest providing name and current version")
	checkCmd.Flags().String("against", "", "baseline git rev or rev..rev range")
	checkCmd.Flags().String("extractor", "", "command printing the raw API tree JSON on stdout")
	checkCmd.Flags().String("current-version", "", "current version (overrides the manifest)")
	checkCmd.Flags().Int("timeout", 0, "extraction timeout in seconds")
	checkCmd.Flags().Bool("verbose", false, "show signature diffs for modified items")
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	oldTree, newTree, err := obtainTrees(cmd.Context(), settings, args)
	if err != nil {
		return err
	}
	if err := tree.Validate(oldTree); err != nil {
		return fmt.Errorf("old snapshot: %w", err)
	}
	if err := tree.Validate(newTree); err != nil {
		return fmt.Errorf("new snapshot: %w", err)
	}

	// The two translations are independent pure functions; run them in
	// parallel and join before comparison.
	var oldAPI, newAPI *api.PublicApi
	g, _ := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		oldAPI, err = translate.Translate(oldTree)
		return err
	})
	g.Go(func() error {
		var err error
		newAPI, err = translate.Translate(newTree)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	diag := compare.Compare(oldAPI, newAPI)

	current, warnings, err := currentVersion(cmd, settings)
	if err != nil {
		return err
	}
	if !quiet {
		for _, w := range warnings {
			report.Warnf("%s", w)
		}
	}
	next := advise.Next(diag, current)

	return report.Render(os.Stdout, diag, next, report.Options{
		Verbose: verbose,
		Color:   colorEnabled(cmd),
	})
}

// resolveSettings layers flag > env > file, in that precedence.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	settings = config.MergeEnv(settings)
	if v, _ := cmd.Flags().GetString("manifest"); v != "" {
		settings.Manifest = v
	}
	if v, _ := cmd.Flags().GetString("against"); v != "" {
		settings.Against = v
	}
	if v, _ := cmd.Flags().GetString("extractor"); v != "" {
		settings.Extractor = v
	}
	if v, _ := cmd.Flags().GetInt("timeout"); v > 0 {
		settings.TimeoutSeconds = v
	}
	return settings, nil
}

// obtainTrees returns the (old, new) raw trees: from the two file arguments
// when given, otherwise by materializing the baseline revision and running
// the extractor in both source trees.
func obtainTrees(ctx context.Context, settings config.Settings, args []string) (*tree.Tree, *tree.Tree, error) {
	if len(args) == 2 {
		oldTree, err := tree.Load(args[0])
		if err != nil {
			return nil, nil, err
		}
		newTree, err := tree.Load(args[1])
		if err != nil {
			return nil, nil, err
		}
		return oldTree, newTree, nil
	}
	if len(args) == 1 {
		return nil, nil, fmt.Errorf("expected either two tree files or none")
	}
	if settings.Against == "" {
		return nil, nil, fmt.Errorf("no baseline: pass two tree files or set --against")
	}
	if settings.Extractor == "" {
		return nil, nil, fmt.Errorf("no extractor command configured (--extractor)")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(settings.Timeout())*time.Second)
	defer cancel()

	oldRev, newRev, err := vcs.ResolveRange(settings.Against)
	if err != nil {
		return nil, nil, err
	}
	repo, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	oldDir, cleanupOld, err := vcs.Checkout(ctx, repo, oldRev)
	if err != nil {
		return nil, nil, err
	}
	defer cleanupOld()
	newDir, cleanupNew, err := vcs.Checkout(ctx, repo, newRev)
	if err != nil {
		return nil, nil, err
	}
	defer cleanupNew()

	oldTree, err := extract.Run(ctx, settings.Extractor, oldDir)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting %s: %w", oldRev, err)
	}
	newTree, err := extract.Run(ctx, settings.Extractor, newDir)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting %s: %w", newRev, err)
	}
	return oldTree, newTree, nil
}

// currentVersion resolves the version to bump: the flag wins, then the
// manifest.
func currentVersion(cmd *cobra.Command, settings config.Settings) (advise.Version, []string, error) {
	if v, _ := cmd.Flags().GetString("current-version"); v != "" {
		return advise.Parse(v)
	}
	if settings.Manifest == "" {
		return advise.Version{}, nil, fmt.Errorf("no current version: pass --current-version or --manifest")
	}
	m, err := manifest.Load(settings.Manifest)
	if err != nil {
		return advise.Version{}, nil, err
	}
	return advise.Parse(m.Package.Version)
}

// colorEnabled resolves the --color tri-state. In auto mode fatih/color has
// already detected non-TTY output and NO_COLOR.
func colorEnabled(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return !color.NoColor
	}
}
