package mealparse

import (
	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/nutrition"
)

const noteUnrecognized = "Unrecognized item"

// Parser runs the segment, parse, resolve and convert pipeline.
type Parser struct {
	resolver *nutrition.Resolver
}

func NewParser(resolver *nutrition.Resolver) *Parser {
	if resolver == nil {
		resolver = nutrition.NewResolver(nutrition.MatchLeftmostLongest)
	}
	return &Parser{resolver: resolver}
}

var defaultParser = NewParser(nil)

// ParseMeal parses input with the default resolver.
func ParseMeal(input string) []model.ParsedItem {
	return defaultParser.ParseMeal(input)
}

// ParseMeal returns one item per fragment of input, in input order.
// Unrecognized foods are kept with zero macros and a note.
func (p *Parser) ParseMeal(input string) []model.ParsedItem {
	fragments := Segment(input)
	items := make([]model.ParsedItem, 0, len(fragments))

	for _, part := range fragments {
		frag := ParseFragment(part)
		candidate := frag.Name
		if candidate == "" {
			candidate = part
		}

		item := model.ParsedItem{
			Name:     candidate,
			Quantity: frag.Quantity,
			Unit:     frag.Unit,
		}

		key, ok := p.resolver.Resolve(candidate)
		if !ok {
			item.Note = noteUnrecognized
			items = append(items, item)
			continue
		}

		conv, err := nutrition.Convert(key, frag.Quantity, frag.Unit)
		if err != nil {
			// Resolve only returns table keys.
			item.Note = noteUnrecognized
			items = append(items, item)
			continue
		}
		item.Macros = conv.Macros
		item.Note = conv.Note
		item.MatchedAs = key
		items = append(items, item)
	}
	return items
}

// SumItems totals the macros of items.
func SumItems(items []model.ParsedItem) model.Macro {
	var total model.Macro
	for _, it := range items {
		total = total.Add(it.Macros)
	}
	return total
}
