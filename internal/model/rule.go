package model

// RuleKey identifies a mapping rule by product term and material. Material
// is empty for rules that apply regardless of material.
type RuleKey struct {
	Term     string
	Material string
}

// MappingRule maps a (product term, material) pair to one or more candidate
// HTS code prefixes. Candidate order is a tie-break preference, most
// preferred first. Rules are static reference data, loaded once and
// read-only thereafter.
type MappingRule struct {
	Key        RuleKey
	Candidates []string
}

// Specific reports whether the rule is keyed on a concrete material. When
// two rules match the same (term, material) pair, the specific rule wins.
func (r MappingRule) Specific() bool {
	return r.Key.Material != ""
}
