// Package nutrition holds the static food reference table and the rules for
// resolving food names and converting quantities into macros.
package nutrition

import "github.com/dukerupert/macrolog/internal/model"

// Basis describes how an entry's macros are measured. It is either PerMass
// or PerUnit.
type Basis interface {
	basis()
}

// PerMass entries list macros per GramsPerBasis grams (always 100 in the
// table). GramsPerUnit is zero when no serving weight is known.
type PerMass struct {
	GramsPerBasis float64
	GramsPerUnit  float64
	Macros        model.Macro
}

// PerUnit entries list macros per native Unit. GramsPerUnit is an
// approximate weight of one unit, used only to convert other units.
type PerUnit struct {
	Unit         string
	GramsPerUnit float64
	Macros       model.Macro
}

func (PerMass) basis() {}
func (PerUnit) basis() {}

// Entry is one reference food.
type Entry struct {
	Key   string
	Basis Basis
}

// NativeUnit returns the unit the entry's macros are listed in.
func (e Entry) NativeUnit() string {
	switch b := e.Basis.(type) {
	case PerMass:
		return "g"
	case PerUnit:
		return b.Unit
	}
	return ""
}

func perUnit(unit string, grams float64, m model.Macro) PerUnit {
	return PerUnit{Unit: unit, GramsPerUnit: grams, Macros: m}
}

func per100g(m model.Macro) PerMass {
	return PerMass{GramsPerBasis: 100, Macros: m}
}

// Declaration order matters: substring matching walks the table in this order.
var table = []Entry{
	// Counted or served foods
	{"egg", perUnit("unit", 50, model.Macro{Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5})},
	{"banana", perUnit("unit", 118, model.Macro{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4})},
	{"apple", perUnit("unit", 182, model.Macro{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3})},
	{"toast", perUnit("slice", 28, model.Macro{Calories: 80, Protein: 3, Carbs: 14, Fat: 1})},
	{"bread", perUnit("slice", 28, model.Macro{Calories: 80, Protein: 3, Carbs: 14, Fat: 1})},
	{"coffee", perUnit("cup", 240, model.Macro{Calories: 2, Protein: 0.3, Carbs: 0, Fat: 0})},
	{"oatmeal", perUnit("cup", 234, model.Macro{Calories: 154, Protein: 6, Carbs: 27, Fat: 3})},
	{"milk", perUnit("cup", 244, model.Macro{Calories: 122, Protein: 8, Carbs: 12, Fat: 5})},
	{"yogurt", perUnit("cup", 245, model.Macro{Calories: 149, Protein: 8.5, Carbs: 11.4, Fat: 8})},

	// Bulk foods, per 100 g
	{"chicken", per100g(model.Macro{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6})},
	{"chicken breast", per100g(model.Macro{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6})},
	{"rice", per100g(model.Macro{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3})},
	{"beef", per100g(model.Macro{Calories: 250, Protein: 26, Carbs: 0, Fat: 15})},
	{"salmon", per100g(model.Macro{Calories: 208, Protein: 20, Carbs: 0, Fat: 13})},
	{"potato", per100g(model.Macro{Calories: 77, Protein: 2, Carbs: 17, Fat: 0.1})},

	// Spoon-measured fats
	{"butter", perUnit("tbsp", 14, model.Macro{Calories: 102, Protein: 0.1, Carbs: 0, Fat: 12})},
	{"peanut butter", perUnit("tbsp", 16, model.Macro{Calories: 95, Protein: 3.5, Carbs: 3.2, Fat: 8})},
	{"oil", perUnit("tbsp", 14, model.Macro{Calories: 119, Protein: 0, Carbs: 0, Fat: 14})},
	{"olive oil", perUnit("tbsp", 14, model.Macro{Calories: 119, Protein: 0, Carbs: 0, Fat: 14})},
}

var byKey = func() map[string]Entry {
	m := make(map[string]Entry, len(table))
	for _, e := range table {
		m[e.Key] = e
	}
	return m
}()

// Lookup returns the reference entry for a canonical key.
func Lookup(key string) (Entry, bool) {
	e, ok := byKey[key]
	return e, ok
}

// Entries returns a copy of the reference table in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Keys returns the reference keys in declaration order.
func Keys() []string {
	keys := make([]string, len(table))
	for i, e := range table {
		keys[i] = e.Key
	}
	return keys
}
