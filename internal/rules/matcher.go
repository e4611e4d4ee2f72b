// Package rules implements the deterministic mapping-table lookup that runs
// ahead of semantic retrieval. A hit narrows the later vector search to the
// matched code prefixes.
package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

// resolved is a product term found in the text together with the rule it
// selects.
type resolved struct {
	term     string
	rule     model.MappingRule
	specific bool
}

// Matcher scans normalized text for known product terms and resolves them
// against the mapping table. It is built once per reference data snapshot
// and is safe for concurrent use.
type Matcher struct {
	automaton *ahocorasick.Matcher
	terms     []string
	wordRe    map[string]*regexp.Regexp
	byKey     map[model.RuleKey]model.MappingRule
}

// NewMatcher builds the term automaton and rule index from a snapshot.
func NewMatcher(snap *refdata.Snapshot) *Matcher {
	byKey := make(map[model.RuleKey]model.MappingRule, len(snap.Rules))
	termSet := make(map[string]bool)
	for _, rule := range snap.Rules {
		key := model.RuleKey{
			Term:     strings.ToLower(rule.Key.Term),
			Material: strings.ToLower(rule.Key.Material),
		}
		byKey[key] = rule
		termSet[key.Term] = true
	}

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	wordRe := make(map[string]*regexp.Regexp, len(terms))
	for _, term := range terms {
		wordRe[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}

	return &Matcher{
		automaton: ahocorasick.NewStringMatcher(terms),
		terms:     terms,
		wordRe:    wordRe,
		byKey:     byKey,
	}
}

// Match returns the candidate code prefixes for the best rule matching the
// normalized text and extracted material. An empty result is the expected
// no-match path that hands off to unrestricted semantic retrieval.
//
// When several product terms appear in the same text, the longest term wins;
// on a length tie, a rule keyed on a concrete material beats a
// material-agnostic one.
func (m *Matcher) Match(normalizedText, material string) []string {
	text := strings.ToLower(normalizedText)
	material = strings.ToLower(material)

	var found []resolved
	for _, idx := range m.automaton.Match([]byte(text)) {
		term := m.terms[idx]
		// The automaton matches substrings; require whole-word hits so
		// "reactor" does not fire inside "reactors-unrelated" tokens.
		if !m.wordRe[term].MatchString(text) {
			continue
		}
		if r, ok := m.resolve(term, material); ok {
			found = append(found, r)
		}
	}

	if len(found) == 0 {
		return nil
	}

	sort.SliceStable(found, func(i, j int) bool {
		if len(found[i].term) != len(found[j].term) {
			return len(found[i].term) > len(found[j].term)
		}
		if found[i].specific != found[j].specific {
			return found[i].specific
		}
		return found[i].term < found[j].term
	})

	winner := found[0]
	candidates := make([]string, len(winner.rule.Candidates))
	copy(candidates, winner.rule.Candidates)
	return candidates
}

// resolve picks the rule for a term: the material-specific rule when the
// query carries a matching material, otherwise the material-agnostic rule.
func (m *Matcher) resolve(term, material string) (resolved, bool) {
	if material != "" {
		if rule, ok := m.byKey[model.RuleKey{Term: term, Material: material}]; ok {
			return resolved{term: term, rule: rule, specific: true}, true
		}
	}
	if rule, ok := m.byKey[model.RuleKey{Term: term}]; ok {
		return resolved{term: term, rule: rule}, true
	}
	return resolved{}, false
}
