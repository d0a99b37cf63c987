package handler

import (
	"net/http"
	"sort"

	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/nutrition"
)

type foodResponse struct {
	Key           string      `json:"key"`
	Basis         string      `json:"basis"`
	Unit          string      `json:"unit"`
	GramsPerBasis float64     `json:"grams_per_basis,omitempty"`
	GramsPerUnit  float64     `json:"grams_per_unit,omitempty"`
	Macros        model.Macro `json:"macros"`
	Aliases       []string    `json:"aliases,omitempty"`
}

// ListFoods returns the reference table with the aliases that resolve to
// each entry, in table order.
func ListFoods(w http.ResponseWriter, r *http.Request) {
	aliasesByKey := make(map[string][]string)
	for alias, key := range nutrition.Aliases() {
		aliasesByKey[key] = append(aliasesByKey[key], alias)
	}

	entries := nutrition.Entries()
	out := make([]foodResponse, 0, len(entries))
	for _, e := range entries {
		f := foodResponse{Key: e.Key, Unit: e.NativeUnit()}
		switch b := e.Basis.(type) {
		case nutrition.PerMass:
			f.Basis = "per_mass"
			f.GramsPerBasis = b.GramsPerBasis
			f.GramsPerUnit = b.GramsPerUnit
			f.Macros = b.Macros
		case nutrition.PerUnit:
			f.Basis = "per_unit"
			f.GramsPerUnit = b.GramsPerUnit
			f.Macros = b.Macros
		}
		f.Aliases = aliasesByKey[e.Key]
		sort.Strings(f.Aliases)
		out = append(out, f)
	}

	writeJSON(w, http.StatusOK, out)
}
