// Package report renders a Diagnosis as human-readable text: one prefixed
// line per change ("-" removed, "≠" modified, "+" added, "⚠" notable),
// optional unified diffs of the old and new signatures, and the trailing
// next-version line.
package report

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"apidelta/internal/api"
)

// Signature renders an item's declaration in a stable, diff-friendly form.
// Types with fields render one field per line so a signature diff points at
// the exact field that moved.
func Signature(it *api.Item) string {
	name := it.ID.Path
	if i := strings.LastIndex(name, api.PathSep); i >= 0 {
		name = name[i+len(api.PathSep):]
	}
	switch it.ID.Kind {
	case api.KindFunction, api.KindMethod:
		return fnSignature(name, it.Fn)
	case api.KindType:
		return typeSignature(name, it.Type)
	case api.KindField:
		return name + ": " + it.Field.Type
	case api.KindTraitDef:
		s := "trait " + name + generics(it.TraitDef.Generics)
		if it.TraitDef.Bounds != "" {
			s += ": " + it.TraitDef.Bounds
		}
		return s
	case api.KindTraitImpl:
		return "impl " + it.TraitImpl.Trait + " for " + it.TraitImpl.For
	case api.KindAssocType:
		s := "type " + name + generics(it.Assoc.Generics)
		if it.Assoc.Bounds != "" {
			s += ": " + it.Assoc.Bounds
		}
		if it.Assoc.Default != "" {
			s += " = " + it.Assoc.Default
		}
		return s
	case api.KindAssocConst:
		s := "const " + name + ": " + it.Assoc.Type
		if it.Assoc.Default != "" {
			s += " = " + it.Assoc.Default
		}
		return s
	}
	return name
}

func fnSignature(name string, sig *api.FnSig) string {
	params := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		if p.Name == "" {
			params = append(params, p.Type)
			continue
		}
		params = append(params, p.Name+": "+p.Type)
	}
	s := "fn " + name + generics(sig.Generics) + "(" + strings.Join(params, ", ") + ")"
	if sig.Returns != "" {
		s += " -> " + sig.Returns
	}
	return s
}

func typeSignature(name string, sig *api.TypeSig) string {
	head := name + generics(sig.Generics)
	switch sig.Shape {
	case "alias":
		return "type " + head + " = " + sig.Alias
	case "enum":
		lines := make([]string, 0, len(sig.Fields)+2)
		lines = append(lines, "enum "+head+" {")
		for _, f := range sig.Fields {
			lines = append(lines, "    "+f.Name+",")
		}
		return strings.Join(append(lines, "}"), "\n")
	default:
		if len(sig.Fields) == 0 {
			return sig.Shape + " " + head
		}
		lines := make([]string, 0, len(sig.Fields)+2)
		lines = append(lines, sig.Shape+" "+head+" {")
		for _, f := range sig.Fields {
			lines = append(lines, "    "+f.Name+": "+f.Type+",")
		}
		return strings.Join(append(lines, "}"), "\n")
	}
}

func generics(gs []string) string {
	if len(gs) == 0 {
		return ""
	}
	return "<" + strings.Join(gs, ", ") + ">"
}

// SignatureDiff produces a classic unified patch between the rendered old
// and new signatures of a modified item.
func SignatureDiff(oldIt, newIt *api.Item) string {
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(Signature(oldIt) + "\n"),
		B:        splitLinesKeepNL(Signature(newIt) + "\n"),
		FromFile: "old",
		ToFile:   "new",
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return fmt.Sprintf("--- old\n+++ new\n@@\n# diff unavailable for %s\n", oldIt.ID)
	}
	return s
}

// splitLinesKeepNL splits into lines keeping the trailing newline on each,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
