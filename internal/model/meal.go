package model

import "time"

// ParsedItem is one food mention from a meal description. Unit, Note and
// MatchedAs are empty when absent.
type ParsedItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
	Macros    Macro   `json:"macros"`
	Note      string  `json:"note,omitempty"`
	MatchedAs string  `json:"matched_as,omitempty"`
}

// Resolved reports whether the item matched a reference food.
func (p ParsedItem) Resolved() bool {
	return p.MatchedAs != ""
}

// MealEntry is one logged meal. Totals are fixed when the entry is created.
type MealEntry struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Input     string       `json:"input"`
	Items     []ParsedItem `json:"items"`
	Totals    Macro        `json:"totals"`
}
