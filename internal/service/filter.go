package service

import (
	"github.com/pageza/recetas/backend/internal/model"
)

// KeepAllMatching returns the recipes whose used ingredients include every
// requested ingredient (case-insensitive). A recipe matching only some of
// them is dropped even if the provider ranked it first.
func KeepAllMatching(recipes []model.RecipeResult, requested []string) []model.RecipeResult {
	kept := make([]model.RecipeResult, 0, len(recipes))
	for _, r := range recipes {
		if usesAll(r, requested) {
			kept = append(kept, r)
		}
	}
	return kept
}

func usesAll(r model.RecipeResult, requested []string) bool {
	for _, name := range requested {
		if !r.Uses(name) {
			return false
		}
	}
	return true
}
