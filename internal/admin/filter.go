package admin

import (
	"strings"

	"landora/internal/models"

	"golang.org/x/text/cases"
)

// MatchMode selects which fields a search query is compared against.
type MatchMode int

const (
	// MatchAny matches name, location or description.
	MatchAny MatchMode = iota
	// MatchName matches the name only.
	MatchName
)

// Filter returns the properties whose fields contain query, ignoring case.
// An empty query returns every property. The input slice is not modified.
func Filter(list []models.Property, query string, mode MatchMode) []models.Property {
	out := make([]models.Property, 0, len(list))
	if query == "" {
		return append(out, list...)
	}

	// Casers keep state and are not shared.
	folder := cases.Fold()
	needle := folder.String(query)
	contains := func(s string) bool {
		return strings.Contains(folder.String(s), needle)
	}

	for _, p := range list {
		matched := contains(p.Name)
		if !matched && mode == MatchAny {
			matched = contains(p.Location) || contains(p.Description)
		}
		if matched {
			out = append(out, p)
		}
	}
	return out
}
