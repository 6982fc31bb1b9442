package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/recetas/backend/internal/httpclient"
	"github.com/pageza/recetas/backend/internal/model"
)

// ErrMalformedResponse is returned when the provider does not answer with a
// list of recipes.
var ErrMalformedResponse = errors.New("unexpected recipe search response")

// APIError is a non-2xx answer from the recipe provider
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("recipe search failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("recipe search failed with status %d: %s", e.StatusCode, e.Message)
}

// spoonacularRecipe is one element of the findByIngredients array
type spoonacularRecipe struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	Image                 string `json:"image"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
	Likes                 int    `json:"likes"`
	UsedIngredients       []struct {
		Name string `json:"name"`
	} `json:"usedIngredients"`
}

// spoonacularError is the object Spoonacular returns instead of a list on failure
type spoonacularError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RecipeSearchService queries Spoonacular's findByIngredients endpoint
type RecipeSearchService struct {
	apiKey  string
	apiURL  string
	siteURL string
	client  *httpclient.Client
}

// NewRecipeSearchService creates a new RecipeSearchService instance
func NewRecipeSearchService(apiKey, apiURL, siteURL string, client *httpclient.Client) *RecipeSearchService {
	return &RecipeSearchService{
		apiKey:  apiKey,
		apiURL:  strings.TrimRight(apiURL, "/"),
		siteURL: siteURL,
		client:  client,
	}
}

// FindByIngredients fetches one page of recipes using the given (English)
// ingredient names. Results are returned unfiltered, in provider order.
func (s *RecipeSearchService) FindByIngredients(ctx context.Context, ingredients []string, offset, number int) ([]model.RecipeResult, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(ingredients, ","))
	params.Set("number", strconv.Itoa(number))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("ranking", "1")
	params.Set("ignorePantry", "true")
	params.Set("apiKey", s.apiKey)

	status, body, err := s.client.Get(ctx, s.apiURL+"/recipes/findByIngredients?"+params.Encode())
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		apiErr := &APIError{StatusCode: status}
		var payload spoonacularError
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Message
		}
		return nil, apiErr
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var payload spoonacularError
		if json.Unmarshal(trimmed, &payload) == nil && payload.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, payload.Message)
		}
		return nil, ErrMalformedResponse
	}

	var raw []spoonacularRecipe
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	recipes := make([]model.RecipeResult, 0, len(raw))
	for _, r := range raw {
		used := make([]string, 0, len(r.UsedIngredients))
		for _, u := range r.UsedIngredients {
			used = append(used, u.Name)
		}
		recipes = append(recipes, model.RecipeResult{
			ID:                    r.ID,
			Title:                 r.Title,
			Image:                 r.Image,
			UsedIngredients:       used,
			MissedIngredientCount: r.MissedIngredientCount,
			Likes:                 r.Likes,
			URL:                   model.RecipePageURL(s.siteURL, r.Title, r.ID),
		})
	}
	return recipes, nil
}
