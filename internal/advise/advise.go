// Package advise maps a Diagnosis to a semantic-version bump.
package advise

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"apidelta/internal/compare"
)

// Version is a plain major.minor.patch triple. Pre-release identifiers and
// build metadata are stripped during parsing; the advisor does not handle
// them.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String renders "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse validates s as a semantic version and returns the triple. A leading
// "v" is accepted. Pre-release and build suffixes are dropped; each dropped
// suffix produces one warning string for the caller to surface.
func Parse(s string) (Version, []string, error) {
	canonical := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(canonical) {
		return Version{}, nil, fmt.Errorf("invalid semantic version %q", s)
	}

	var warnings []string
	if pre := semver.Prerelease(canonical); pre != "" {
		warnings = append(warnings, fmt.Sprintf("ignoring pre-release identifier %q", strings.TrimPrefix(pre, "-")))
	}
	if build := semver.Build(canonical); build != "" {
		warnings = append(warnings, fmt.Sprintf("ignoring build metadata %q", strings.TrimPrefix(build, "+")))
	}

	core := strings.TrimPrefix(semver.Canonical(canonical), "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version{}, nil, fmt.Errorf("invalid semantic version %q", s)
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, nil, fmt.Errorf("invalid semantic version %q", s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, nil, fmt.Errorf("invalid semantic version %q", s)
	}
	if v.Patch, err = strconv.Atoi(parts[2]); err != nil {
		return Version{}, nil, fmt.Errorf("invalid semantic version %q", s)
	}
	return v, warnings, nil
}

// Next derives the next version from a Diagnosis, in strict order:
//
//  1. any breaking entry   -> next major
//  2. else any addition    -> next minor
//  3. else                 -> next patch
//
// An empty Diagnosis is deliberately a patch bump: "nothing detected" is not
// distinguished from "trivial internal change".
func Next(d *compare.Diagnosis, current Version) Version {
	switch {
	case d.IsBreaking():
		return Version{Major: current.Major + 1}
	case d.HasAdditions():
		return Version{Major: current.Major, Minor: current.Minor + 1}
	default:
		return Version{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}
	}
}
