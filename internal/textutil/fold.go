package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// BrandKey folds a brand name into a comparison key. "LG", "lg" and " Lg "
// produce the same key.
func BrandKey(brand string) string {
	return cases.Fold().String(strings.TrimSpace(brand))
}

// BrandSet is a case-insensitive set of brand names. Each folded key maps to
// the spelling it was configured with.
type BrandSet map[string]string

// NewBrandSet builds a set from brand names, ignoring blanks.
func NewBrandSet(brands ...string) BrandSet {
	set := make(BrandSet, len(brands))
	for _, brand := range brands {
		key := BrandKey(brand)
		if key == "" {
			continue
		}
		if _, dup := set[key]; !dup {
			set[key] = strings.TrimSpace(brand)
		}
	}
	return set
}

// Contains reports whether brand is in the set.
func (s BrandSet) Contains(brand string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[BrandKey(brand)]
	return ok
}

// Configured returns the spelling brand matched in the set.
func (s BrandSet) Configured(brand string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	name, ok := s[BrandKey(brand)]
	return name, ok
}
