package nutrition

import (
	"sort"
	"strings"
)

var aliases = map[string]string{
	"eggs":    "egg",
	"slice":   "toast",
	"bread":   "bread",
	"toasts":  "toast",
	"coffees": "coffee",
	"cup":     "coffee",
	"cups":    "coffee",
	"pb":      "peanut butter",
	"chicken": "chicken",
	"breast":  "chicken breast",
}

var unitNames = map[string]string{
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"oz":          "oz",
	"ounce":       "oz",
	"ounces":      "oz",
	"cup":         "cup",
	"cups":        "cup",
	"tbsp":        "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tsp":         "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"slice":       "slice",
	"slices":      "slice",
	"unit":        "unit",
	"units":       "unit",
	"piece":       "unit",
	"pieces":      "unit",
}

// Alias returns the canonical key for an informal food name.
func Alias(name string) (string, bool) {
	key, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return key, ok
}

// Aliases returns a copy of the alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// NormalizeUnit maps a unit spelling to its canonical token.
func NormalizeUnit(unit string) (string, bool) {
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(unit))]
	return u, ok
}

// UnitSpellings returns every accepted unit spelling, longest first, so a
// regular expression alternation built from it never stops at a prefix.
func UnitSpellings() []string {
	out := make([]string, 0, len(unitNames))
	for k := range unitNames {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
