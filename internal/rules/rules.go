package rules

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"tvschema/internal/taxonomy"
	"tvschema/internal/textutil"
)

//go:embed marketing.yaml
var defaultTable []byte

// Rule is one ordered entry in a brand's label list.
type Rule struct {
	Label         string                       `yaml:"label"`
	ContainsAny   []string                     `yaml:"contains_any,omitempty"`
	ContainsAll   []string                     `yaml:"contains_all,omitempty"`
	Excludes      []string                     `yaml:"excludes,omitempty"`
	Prefix        string                       `yaml:"prefix,omitempty"`
	Architectures []taxonomy.ColorArchitecture `yaml:"architectures,omitempty"`
}

// Matches reports whether every condition of the rule holds.
func (r Rule) Matches(name string, arch taxonomy.ColorArchitecture) bool {
	if r.Prefix != "" && !strings.HasPrefix(name, r.Prefix) {
		return false
	}
	for _, fragment := range r.ContainsAll {
		if !strings.Contains(name, fragment) {
			return false
		}
	}
	if len(r.ContainsAny) > 0 {
		found := false
		for _, fragment := range r.ContainsAny {
			if strings.Contains(name, fragment) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, fragment := range r.Excludes {
		if strings.Contains(name, fragment) {
			return false
		}
	}
	if len(r.Architectures) > 0 {
		for _, candidate := range r.Architectures {
			if candidate == arch {
				return true
			}
		}
		return false
	}
	return true
}

// BrandRules is the ordered rule list for one brand.
type BrandRules struct {
	Brand string `yaml:"brand"`
	Rules []Rule `yaml:"rules"`
}

// Table maps brands to their rule lists.
type Table struct {
	Brands []BrandRules `yaml:"brands"`
	index  map[string]int
}

// Match is the outcome of a label lookup.
type Match struct {
	Label string
	// Rule is the index of the winning rule, or -1 when nothing matched.
	Rule int
	// KnownBrand is false when the brand has no rule list at all.
	KnownBrand bool
}

// Lookup finds the first matching rule for the product.
func (t *Table) Lookup(brand, name string, arch taxonomy.ColorArchitecture) Match {
	if t == nil {
		return Match{Rule: -1}
	}
	pos, ok := t.index[textutil.BrandKey(brand)]
	if !ok {
		return Match{Rule: -1}
	}
	for i, rule := range t.Brands[pos].Rules {
		if rule.Matches(name, arch) {
			return Match{Label: rule.Label, Rule: i, KnownBrand: true}
		}
	}
	return Match{Rule: -1, KnownBrand: true}
}

// Label returns the marketing label, or "" when no rule applies.
func (t *Table) Label(brand, name string, arch taxonomy.ColorArchitecture) string {
	return t.Lookup(brand, name, arch).Label
}

// RuleCount returns the total number of rules across brands.
func (t *Table) RuleCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, b := range t.Brands {
		n += len(b.Rules)
	}
	return n
}

// Parse decodes and validates a YAML rule table.
func Parse(data []byte) (*Table, error) {
	var table Table
	dec := yaml.NewDecoder(strings.NewReader(string(trimBOM(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("decode marketing rules: %w", err)
	}
	if err := table.normalize(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Default returns the embedded rule table.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// DefaultYAML returns the embedded table source.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

func (t *Table) normalize() error {
	t.index = make(map[string]int, len(t.Brands))
	for i := range t.Brands {
		entry := &t.Brands[i]
		entry.Brand = strings.TrimSpace(entry.Brand)
		if entry.Brand == "" {
			return fmt.Errorf("marketing rules: brands[%d].brand is required", i)
		}
		key := textutil.BrandKey(entry.Brand)
		if prev, dup := t.index[key]; dup {
			return fmt.Errorf("marketing rules: brand %q listed twice (brands[%d] and brands[%d])", entry.Brand, prev, i)
		}
		t.index[key] = i
		for j := range entry.Rules {
			rule := &entry.Rules[j]
			rule.Label = strings.TrimSpace(rule.Label)
			rule.ContainsAny = cleanFragments(rule.ContainsAny)
			rule.ContainsAll = cleanFragments(rule.ContainsAll)
			rule.Excludes = cleanFragments(rule.Excludes)
			for _, arch := range rule.Architectures {
				if !arch.Known() {
					return fmt.Errorf("marketing rules: %s rule %d: unknown architecture %q", entry.Brand, j, arch)
				}
			}
		}
	}
	return nil
}

func cleanFragments(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		cleaned = append(cleaned, value)
	}
	return cleaned
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
