package model

import (
	"fmt"
	"strings"
)

// Ingredient pairs what the user typed with its translation used for search.
// Translated is always lowercase.
type Ingredient struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// RecipeResult is a recipe returned by the search provider. It is not mutated
// once it has been appended to a session's result list.
type RecipeResult struct {
	ID                    int      `json:"id"`
	Title                 string   `json:"title"`
	TranslatedTitle       string   `json:"translated_title"`
	Image                 string   `json:"image"`
	UsedIngredients       []string `json:"used_ingredients"`
	MissedIngredientCount int      `json:"missed_ingredient_count"`
	Likes                 int      `json:"likes"`
	URL                   string   `json:"url"`
}

// Uses reports whether name (case-insensitive) is among the used ingredients
func (r RecipeResult) Uses(name string) bool {
	for _, used := range r.UsedIngredients {
		if strings.EqualFold(used, name) {
			return true
		}
	}
	return false
}

// RecipePageURL builds the provider's public page for a recipe, e.g.
// https://spoonacular.com/recipes/tomato-soup-123
func RecipePageURL(siteURL, title string, id int) string {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	return fmt.Sprintf("%s/recipes/%s-%d", strings.TrimRight(siteURL, "/"), slug, id)
}

// Cursor is the pagination state of one ingredient set
type Cursor struct {
	Page    int  `json:"page"`
	HasMore bool `json:"has_more"`
}

// InitialCursor is the cursor every new ingredient set starts from
func InitialCursor() Cursor {
	return Cursor{Page: 0, HasMore: true}
}
