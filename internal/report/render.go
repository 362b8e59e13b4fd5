package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"apidelta/internal/advise"
	"apidelta/internal/compare"
)

// Options controls rendering behavior.
type Options struct {
	// Verbose appends a unified diff of the old/new signatures under each
	// modified entry.
	Verbose bool

	// Color enables ANSI colors on the change prefixes.
	Color bool
}

// Render writes the Diagnosis followed by the next-version line:
//
//	- old::gone (function)
//	≠ pkg::User (struct)
//	+ pkg::User::[impl Debug] (impl)
//	Next version is: 3.0.0
func Render(w io.Writer, d *compare.Diagnosis, next advise.Version, opt Options) error {
	for _, c := range d.Changes {
		line := fmt.Sprintf("%s %s (%s)", prefix(c, opt.Color), c.ID, c.Item().DisplayKind())
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if opt.Verbose && c.Class == compare.ClassModified && c.Old != nil && c.New != nil {
			if _, err := io.WriteString(w, indent(SignatureDiff(c.Old, c.New), "    ")); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Next version is: %s\n", next)
	return err
}

// prefix picks the glyph for one change. A non-breaking notable entry (a
// fresh deprecation) gets "⚠" instead of "≠".
func prefix(c compare.Change, colored bool) string {
	var glyph string
	var paint *color.Color
	switch {
	case c.Class == compare.ClassRemoved:
		glyph, paint = "-", color.New(color.FgRed)
	case c.Class == compare.ClassAdded:
		glyph, paint = "+", color.New(color.FgGreen)
	case c.Notable && !c.Breaking:
		glyph, paint = "⚠", color.New(color.FgYellow)
	default:
		glyph, paint = "≠", color.New(color.FgYellow)
	}
	if !colored {
		return glyph
	}
	return paint.Sprint(glyph)
}

func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, ln := range lines {
		lines[i] = pad + ln
	}
	return strings.Join(lines, "\n") + "\n"
}

// Warnf prints a non-fatal warning to stderr. The core never logs; glue
// code funnels its warnings through here so --quiet can silence them.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("warning: ")+fmt.Sprintf(format, args...))
}
