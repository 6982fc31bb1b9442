package service

import (
	"context"

	"github.com/pageza/recetas/backend/internal/model"
	"github.com/pageza/recetas/backend/internal/types"
)

// Translator converts text between two languages. Implementations never fail:
// on any error they return the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// RecipeSearcher queries the recipe provider for one page of results
type RecipeSearcher interface {
	FindByIngredients(ctx context.Context, ingredients []string, offset, number int) ([]model.RecipeResult, error)
}

// TranslationCache stores translations keyed by language pair and source text.
// A miss is reported as ("", false, nil).
type TranslationCache interface {
	Get(ctx context.Context, source, target, text string) (string, bool, error)
	Set(ctx context.Context, source, target, text, translated string) error
}

// ITokenService issues and validates session tokens
type ITokenService interface {
	GenerateToken(sessionID string) (string, error)
	ValidateToken(token string) (*types.SessionClaims, error)
}
