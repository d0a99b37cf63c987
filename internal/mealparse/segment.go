// Package mealparse turns free-text meal descriptions into parsed items.
package mealparse

import (
	"regexp"
	"strings"
)

var separator = regexp.MustCompile(`(?i),|\band\b`)

// Segment splits a meal description into food fragments on commas and the
// word "and". Fragments are trimmed and empty ones dropped.
func Segment(input string) []string {
	parts := separator.Split(input, -1)
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fragments = append(fragments, p)
		}
	}
	return fragments
}
