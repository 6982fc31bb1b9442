package finder

import (
	"time"

	"github.com/pageza/recetas/backend/internal/model"
)

// User-facing status lines
const (
	StatusLoading       = "Cargando recetas..."
	StatusNoIngredients = "Añade ingredientes para comenzar a descubrir recetas."
	StatusNoResults     = "No tenemos recetas con esos ingredientes, lo sentimos."
	StatusNoMoreRecipes = "No hay más recetas con esos ingredientes."
)

// View is a point-in-time copy of a session
type View struct {
	SessionID   string               `json:"session_id"`
	Ingredients []model.Ingredient   `json:"ingredients"`
	Recipes     []model.RecipeResult `json:"recipes"`
	Cursor      model.Cursor         `json:"cursor"`
	Loading     bool                 `json:"loading"`
	NoResults   bool                 `json:"no_results"`
	State       State                `json:"state"`
	Status      string               `json:"status"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// View returns a snapshot of the session
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:   s.ID.String(),
		Ingredients: append([]model.Ingredient{}, s.ingredients...),
		Recipes:     append([]model.RecipeResult{}, s.recipes...),
		Cursor:      s.cursor,
		Loading:     s.loading,
		NoResults:   s.noResults,
		State:       s.state,
		UpdatedAt:   s.updatedAt,
	}
	v.Status = statusMessage(v)
	return v
}

func statusMessage(v View) string {
	switch {
	case v.Loading:
		return StatusLoading
	case len(v.Ingredients) == 0:
		return StatusNoIngredients
	case v.NoResults && len(v.Recipes) == 0:
		return StatusNoResults
	case len(v.Recipes) > 0 && !v.Cursor.HasMore:
		return StatusNoMoreRecipes
	case v.NoResults:
		return StatusNoResults
	default:
		return ""
	}
}
