package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recetas/backend/internal/model"
	"github.com/pageza/recetas/backend/internal/service"
)

func TestKeepAllMatching(t *testing.T) {
	soup := model.RecipeResult{ID: 1, Title: "Tomato Soup", UsedIngredients: []string{"tomato", "onion"}}
	salad := model.RecipeResult{ID: 2, Title: "Caprese", UsedIngredients: []string{"Tomato", "Mozzarella"}}
	bread := model.RecipeResult{ID: 3, Title: "Bread", UsedIngredients: nil}

	tests := []struct {
		name      string
		requested []string
		want      []int
	}{
		{name: "single ingredient", requested: []string{"tomato"}, want: []int{1, 2}},
		{name: "all must match", requested: []string{"tomato", "onion"}, want: []int{1}},
		{name: "case insensitive", requested: []string{"TOMATO", "mozzarella"}, want: []int{2}},
		{name: "nothing matches", requested: []string{"garlic"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := service.KeepAllMatching([]model.RecipeResult{soup, salad, bread}, tt.requested)
			ids := make([]int, 0, len(kept))
			for _, r := range kept {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestKeepAllMatchingPreservesOrder(t *testing.T) {
	recipes := []model.RecipeResult{
		{ID: 9, UsedIngredients: []string{"egg"}},
		{ID: 4, UsedIngredients: []string{"egg"}},
		{ID: 7, UsedIngredients: []string{"egg"}},
	}

	kept := service.KeepAllMatching(recipes, []string{"egg"})
	assert.Equal(t, recipes, kept)
}
