package refdata

import (
	"time"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

// DefaultVersion names the compiled-in reference data.
const DefaultVersion = "builtin-2026.1"

// defaultReplacements rewrites trade shorthand and spelling variants into
// the canonical vocabulary the mapping table and index are keyed on.
// Longest-match-first ordering is enforced by the normalizer, not here.
var defaultReplacements = []Replacement{
	{Pattern: `stainless steel`, Canonical: "ss"},
	{Pattern: `carbon steel`, Canonical: "cs"},
	{Pattern: `aluminium`, Canonical: "aluminum"},
	{Pattern: `polyethylene`, Canonical: "pe"},
	{Pattern: `polypropylene`, Canonical: "pp"},
	{Pattern: `polyvinyl chloride`, Canonical: "pvc"},
	{Pattern: `poly vinyl chloride`, Canonical: "pvc"},
}

// defaultMaterials are the canonical material tokens recognized during
// extraction, checked in order.
var defaultMaterials = []string{
	"aluminum", "leather", "cotton", "wool", "knit", "industrial",
	"ss", "cs", "pe", "pp", "pvc",
}

var defaultRules = []model.MappingRule{
	// Resale products
	{Key: model.RuleKey{Term: "reactor"}, Candidates: []string{"8504.50.80.00"}},
	{Key: model.RuleKey{Term: "coil inductor"}, Candidates: []string{"8504.50.80.00"}},
	{Key: model.RuleKey{Term: "transformer"}, Candidates: []string{"8504.21.00"}},
	{Key: model.RuleKey{Term: "bushings"}, Candidates: []string{"8535.90.80"}},

	// Aluminum building components (chapter 76)
	{Key: model.RuleKey{Term: "window", Material: "aluminum"}, Candidates: []string{"7610.10"}},
	{Key: model.RuleKey{Term: "door", Material: "aluminum"}, Candidates: []string{"7610.10"}},
	{Key: model.RuleKey{Term: "frame", Material: "aluminum"}, Candidates: []string{"7610.10"}},

	// Leather goods (chapter 42)
	{Key: model.RuleKey{Term: "wallet", Material: "leather"}, Candidates: []string{"4202.31", "4202.32"}},
	{Key: model.RuleKey{Term: "handbag", Material: "leather"}, Candidates: []string{"4202.21", "4202.22"}},
	{Key: model.RuleKey{Term: "briefcase", Material: "leather"}, Candidates: []string{"4202.11", "4202.12"}},
	{Key: model.RuleKey{Term: "suitcase", Material: "leather"}, Candidates: []string{"4202.11", "4202.12"}},

	// Apparel (chapter 61)
	{Key: model.RuleKey{Term: "t-shirt", Material: "cotton"}, Candidates: []string{"6109.10"}},
	{Key: model.RuleKey{Term: "t-shirt", Material: "knit"}, Candidates: []string{"6109.90"}},
	{Key: model.RuleKey{Term: "sweater", Material: "cotton"}, Candidates: []string{"6110.20"}},
	{Key: model.RuleKey{Term: "sweater", Material: "wool"}, Candidates: []string{"6110.11"}},

	// Electronics and machinery
	{Key: model.RuleKey{Term: "solar panel"}, Candidates: []string{"8541.43"}},
	{Key: model.RuleKey{Term: "coffee maker"}, Candidates: []string{"8516.71"}},
	{Key: model.RuleKey{Term: "robot", Material: "industrial"}, Candidates: []string{"8428.70"}},
}

var defaultChapters = map[string]model.ChapterContext{
	"01": {CodePrefix: "01", Description: "Live animals"},
	"02": {CodePrefix: "02", Description: "Meat and edible meat offal"},
	"03": {CodePrefix: "03", Description: "Fish and crustaceans"},
	"04": {CodePrefix: "04", Description: "Dairy, eggs, honey, and other edible animal products"},
	"41": {CodePrefix: "41", Description: "Raw hides, skins and leather"},
	"42": {CodePrefix: "42", Description: "Articles of leather; handbags, wallets, cases, similar containers"},
	"43": {CodePrefix: "43", Description: "Furskins and artificial fur"},
	"61": {CodePrefix: "61", Description: "Articles of apparel and clothing accessories, knitted or crocheted"},
	"62": {CodePrefix: "62", Description: "Articles of apparel and clothing accessories, not knitted or crocheted"},
	"63": {CodePrefix: "63", Description: "Other made up textile articles"},
	"71": {CodePrefix: "71", Description: "Natural or cultured pearls, precious stones, precious metals"},
	"72": {CodePrefix: "72", Description: "Iron and steel"},
	"73": {CodePrefix: "73", Description: "Articles of iron or steel"},
	"74": {CodePrefix: "74", Description: "Copper and articles thereof"},
	"76": {CodePrefix: "76", Description: "Aluminum and articles thereof"},
	"84": {CodePrefix: "84", Description: "Machinery and mechanical appliances"},
	"85": {CodePrefix: "85", Description: "Electrical machinery and equipment"},
}

var defaultSubchapters = map[string]model.SubchapterContext{
	"4202": {CodePrefix: "4202", Description: "Trunks, suitcases, handbags, wallets, similar containers"},
	"4203": {CodePrefix: "4203", Description: "Articles of apparel and accessories of leather"},
	"4205": {CodePrefix: "4205", Description: "Other articles of leather or composition leather"},
	"6109": {CodePrefix: "6109", Description: "T-shirts, singlets, tank tops, knitted or crocheted"},
	"6110": {CodePrefix: "6110", Description: "Sweaters, pullovers, sweatshirts, knitted or crocheted"},
	"6205": {CodePrefix: "6205", Description: "Men's or boys' shirts, not knitted or crocheted"},
	"7318": {CodePrefix: "7318", Description: "Screws, bolts, nuts, washers of iron or steel"},
	"7324": {CodePrefix: "7324", Description: "Sanitary ware and parts of iron or steel"},
	"7610": {CodePrefix: "7610", Description: "Aluminum structures and parts (doors, windows, frames)"},
	"8516": {CodePrefix: "8516", Description: "Electric heating equipment and appliances"},
	"8541": {CodePrefix: "8541", Description: "Semiconductor devices, LEDs, solar cells"},
	"8428": {CodePrefix: "8428", Description: "Lifting, handling, loading machinery; industrial robots"},
}

// defaultCategoryMinimums maps high-scrutiny chapters to the minimum top
// score required for AUTO_ACCEPT in that chapter. The upstream configuration
// left this mapping undocumented; these values are deliberate choices and
// are overridable via configuration.
var defaultCategoryMinimums = map[string]float64{
	"42": 0.90, // leather goods
	"61": 0.90, // knitted apparel
	"62": 0.90, // woven apparel
	"76": 0.85, // aluminum structures
}

// DefaultSnapshot returns the compiled-in reference data. Tables are copied
// so no two snapshots alias the same maps.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Version:      DefaultVersion,
		Replacements: append([]Replacement(nil), defaultReplacements...),
		Materials:    append([]string(nil), defaultMaterials...),
		Rules:        append([]model.MappingRule(nil), defaultRules...),
		Chapters:     cloneMap(defaultChapters),
		Subchapters:  cloneMap(defaultSubchapters),
		Thresholds: Thresholds{
			Semantic:           0.50,
			High:               0.70,
			VeryHigh:           0.80,
			FeedbackSimilarity: 0.50,
		},
		CategoryMinimums: cloneMap(defaultCategoryMinimums),
		Limits: Limits{
			RetrievalTopK: 5,
			FeedbackTopK:  5,
			BatchWorkers:  8,
			MaxRetries:    3,
			BaseDelay:     time.Second,
			CacheTTL:      5 * time.Minute,
			QueryTimeout:  30 * time.Second,
		},
	}
}

func cloneMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
