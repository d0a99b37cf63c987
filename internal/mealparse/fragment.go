package mealparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dukerupert/macrolog/internal/nutrition"
)

// Fragment is the quantity, unit and food name read from one fragment.
type Fragment struct {
	Quantity float64
	Unit     string
	Name     string
}

// The unit must end on a word boundary so "grapes" is not read as "g rapes".
var fragmentPattern = regexp.MustCompile(
	`(?s)^(?:(\d+\.?\d*|\.\d+)\s*)?(?:(` + strings.Join(nutrition.UnitSpellings(), "|") + `)\b)?\s*(.*)$`,
)

// ParseFragment reads an optional leading number, an optional unit and the
// remaining food name. A missing or unreadable number means a quantity of 1.
func ParseFragment(fragment string) Fragment {
	f := strings.ToLower(strings.TrimSpace(fragment))
	m := fragmentPattern.FindStringSubmatch(f)
	if m == nil {
		return Fragment{Quantity: 1, Name: f}
	}

	qty := 1.0
	if m[1] != "" {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			qty = v
		}
	}

	unit := m[2]
	if u, ok := nutrition.NormalizeUnit(unit); ok {
		unit = u
	}

	return Fragment{Quantity: qty, Unit: unit, Name: strings.TrimSpace(m[3])}
}
