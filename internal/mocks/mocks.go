package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recetas/backend/internal/model"
	"github.com/pageza/recetas/backend/internal/types"
)

// MockTranslator is a mock implementation of the Translator interface
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text, source, target string) string {
	args := m.Called(ctx, text, source, target)
	return args.String(0)
}

// MockRecipeSearcher is a mock implementation of the RecipeSearcher interface
type MockRecipeSearcher struct {
	mock.Mock
}

func (m *MockRecipeSearcher) FindByIngredients(ctx context.Context, ingredients []string, offset, number int) ([]model.RecipeResult, error) {
	args := m.Called(ctx, ingredients, offset, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeResult), args.Error(1)
}

// MockTokenService is a mock implementation of the ITokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(sessionID string) (string, error) {
	args := m.Called(sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(token string) (*types.SessionClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SessionClaims), args.Error(1)
}
