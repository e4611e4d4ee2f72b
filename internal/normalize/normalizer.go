// Package normalize rewrites raw product descriptions into the canonical
// vocabulary the mapping table and tariff index are keyed on.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

// compiledReplacement pairs a precompiled phrase pattern with its canonical
// token.
type compiledReplacement struct {
	re        *regexp.Regexp
	canonical string
	length    int
}

// Normalizer applies a fixed, ordered set of phrase substitutions and
// extracts a material token. It is pure over its static tables and safe for
// concurrent use.
type Normalizer struct {
	replacements []compiledReplacement
	materials    []*regexp.Regexp
	materialName []string
	whitespace   *regexp.Regexp
}

// New builds a Normalizer from a reference data snapshot. Replacements are
// applied longest-pattern-first so an embedded shorter phrase never corrupts
// a longer one.
func New(snap *refdata.Snapshot) *Normalizer {
	replacements := make([]compiledReplacement, 0, len(snap.Replacements))
	for _, r := range snap.Replacements {
		replacements = append(replacements, compiledReplacement{
			re:        phrasePattern(r.Pattern),
			canonical: r.Canonical,
			length:    len(r.Pattern),
		})
	}
	sort.SliceStable(replacements, func(i, j int) bool {
		return replacements[i].length > replacements[j].length
	})

	materials := make([]*regexp.Regexp, 0, len(snap.Materials))
	names := make([]string, 0, len(snap.Materials))
	for _, m := range snap.Materials {
		materials = append(materials, phrasePattern(m))
		names = append(names, m)
	}

	return &Normalizer{
		replacements: replacements,
		materials:    materials,
		materialName: names,
		whitespace:   regexp.MustCompile(`\s+`),
	}
}

// phrasePattern compiles a case-insensitive whole-phrase matcher. Internal
// spaces tolerate arbitrary whitespace in the input.
func phrasePattern(phrase string) *regexp.Regexp {
	words := strings.Fields(strings.ToLower(phrase))
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(quoted, `\s+`) + `\b`)
}

// Normalize rewrites raw text into its canonical form and extracts a
// material token if one is present. A supplied material hint takes
// precedence over extraction. Normalize never fails; unmatched text passes
// through unchanged.
func (n *Normalizer) Normalize(raw, materialHint string) model.NormalizedQuery {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range n.replacements {
		text = r.re.ReplaceAllString(text, r.canonical)
	}
	text = strings.TrimSpace(n.whitespace.ReplaceAllString(text, " "))

	material := n.canonicalMaterial(materialHint)
	if material == "" {
		material = n.extractMaterial(text)
	}

	return model.NormalizedQuery{
		CanonicalText: text,
		Material:      material,
	}
}

// canonicalMaterial normalizes an explicit hint into the canonical material
// vocabulary. Unknown hints are kept verbatim, lowercased, so rules keyed on
// custom materials still have a chance to match.
func (n *Normalizer) canonicalMaterial(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return ""
	}
	for _, r := range n.replacements {
		if r.re.MatchString(hint) && r.re.FindString(hint) == hint {
			return r.canonical
		}
	}
	return hint
}

// extractMaterial returns the first known material token appearing in
// canonical text, or "" when none is present.
func (n *Normalizer) extractMaterial(text string) string {
	for i, re := range n.materials {
		if re.MatchString(text) {
			return n.materialName[i]
		}
	}
	return ""
}
