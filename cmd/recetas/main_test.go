package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetas/backend/internal/finder"
)

// setupProviders points the configuration at stub providers and returns the
// number of recipe searches served.
func setupProviders(t *testing.T) *atomic.Int32 {
	t.Helper()
	var searches atomic.Int32

	translator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		translated := q.Get("q")
		switch q.Get("langpair") + ":" + translated {
		case "es|en:tomate":
			translated = "tomato"
		case "es|en:queso":
			translated = "cheese"
		case "en|es:Caprese Salad":
			translated = "Ensalada caprese"
		case "es|en:error":
			_, _ = w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":"403","responseDetails":"bad pair"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]string{"translatedText": translated},
			"responseStatus": 200,
		})
	}))
	t.Cleanup(translator.Close)

	spoonacular := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		switch r.URL.Query().Get("offset") {
		case "0":
			_, _ = w.Write([]byte(`[
				{"id": 5, "title": "Caprese Salad", "usedIngredients": [{"name": "tomato"}, {"name": "cheese"}]},
				{"id": 6, "title": "Tomato Juice", "usedIngredients": [{"name": "tomato"}]}
			]`))
		case "10":
			_, _ = w.Write([]byte(`[{"id": 8, "title": "Pizza", "usedIngredients": [{"name": "tomato"}, {"name": "cheese"}]}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(spoonacular.Close)

	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("TRANSLATOR_API_URL", translator.URL)
	t.Setenv("SPOONACULAR_API_URL", spoonacular.URL)
	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("OUTBOUND_INTERVAL", "0s")
	t.Setenv("SOURCE_LANG", "")
	t.Setenv("TARGET_LANG", "")
	t.Setenv("PAGE_SIZE", "")
	return &searches
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	searches := setupProviders(t)

	out, err := run(t, "search", "tomate", "queso")
	require.NoError(t, err)

	assert.Contains(t, out, "· tomate (tomato)")
	assert.Contains(t, out, "Ensalada caprese")
	assert.Contains(t, out, "https://spoonacular.com/recipes/caprese-salad-5")
	assert.NotContains(t, out, "Tomato Juice")
	assert.NotContains(t, out, "Pizza")
	assert.Equal(t, int32(1), searches.Load())
}

func TestSearchCommandPagesAndJSON(t *testing.T) {
	setupProviders(t)

	out, err := run(t, "search", "tomate", "queso", "--pages", "5", "--json")
	require.NoError(t, err)

	var view finder.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Recipes, 2)
	assert.Equal(t, 5, view.Recipes[0].ID)
	assert.Equal(t, 8, view.Recipes[1].ID)
	assert.Equal(t, finder.StateExhausted, view.State)
	assert.Equal(t, finder.StatusNoMoreRecipes, view.Status)
	assert.Equal(t, 2, view.Cursor.Page)
}

func TestSearchCommandRequiresIngredients(t *testing.T) {
	setupProviders(t)

	_, err := run(t, "search")
	assert.Error(t, err)

	_, err = run(t, "search", "tomate", "--pages", "0")
	assert.Error(t, err)
}

func TestTranslateCommand(t *testing.T) {
	setupProviders(t)

	out, err := run(t, "translate", "tomate")
	require.NoError(t, err)
	assert.Equal(t, "tomato\n", out)

	out, err = run(t, "translate", "Caprese", "Salad", "--from", "en", "--to", "es")
	require.NoError(t, err)
	assert.Equal(t, "Ensalada caprese\n", out)

	_, err = run(t, "translate", "error")
	assert.Error(t, err)
}
