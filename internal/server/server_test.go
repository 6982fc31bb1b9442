package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/api"
	"github.com/pageza/recetas/backend/internal/finder"
	"github.com/pageza/recetas/backend/internal/middleware"
	"github.com/pageza/recetas/backend/internal/testhelpers"
	"github.com/pageza/recetas/backend/internal/types"
)

func newProviderStubs(t *testing.T) (translatorURL, spoonacularURL string) {
	t.Helper()

	dictionary := map[string]string{
		"es|en:tomate":      "Tomato",
		"en|es:Tomato Soup": "Sopa de tomate",
	}
	translator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		translated, ok := dictionary[q.Get("langpair")+":"+q.Get("q")]
		if !ok {
			translated = q.Get("q")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]string{"translatedText": translated},
			"responseStatus": 200,
		})
	}))
	t.Cleanup(translator.Close)

	spoonacular := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Tomato Soup", "image": "https://img.test/1.jpg", "usedIngredients": [{"name": "tomato"}], "missedIngredientCount": 1, "likes": 3},
			{"id": 2, "title": "Cheese Toast", "image": "https://img.test/2.jpg", "usedIngredients": [{"name": "cheese"}], "missedIngredientCount": 1, "likes": 1}
		]`))
	}))
	t.Cleanup(spoonacular.Close)

	return translator.URL, spoonacular.URL
}

func testConfig(t *testing.T) *config.Config {
	translatorURL, spoonacularURL := newProviderStubs(t)
	mr, _ := testhelpers.SetupRedis(t)

	return &config.Config{
		ServerHost:         "localhost",
		ServerPort:         "0",
		CORSOrigins:        []string{"*"},
		DBDriver:           "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "recetas.db"),
		MigrationsDir:      "../../migrations",
		RedisURL:           "redis://" + mr.Addr(),
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		MaxSessions:        10,
		RateLimitPerMinute: 1000,
		SpoonacularAPIKey:  "test-key",
		SpoonacularURL:     spoonacularURL,
		SpoonacularSiteURL: "https://spoonacular.com",
		PageSize:           10,
		TranslatorURL:      translatorURL,
		SourceLang:         "es",
		TargetLang:         "en",
		TranslationTTL:     time.Hour,
		TranslationLRUSize: 16,
		TitleConcurrency:   2,
		HTTPTimeout:        5 * time.Second,
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	c := &client{t: t, handler: srv.Handler()}

	w := c.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", health["status"])

	w = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestSessionFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	c := &client{t: t, handler: srv.Handler()}

	// protected routes need a token
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/session", nil).Code)

	w := c.do(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[api.CreateSessionResponse](t, w)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, created.SessionID, created.View.SessionID)
	assert.Equal(t, finder.StatusNoIngredients, created.View.Status)
	c.token = created.Token

	w = c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "tomate"})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decode[finder.View](t, w)
	require.Len(t, view.Recipes, 1)
	assert.Equal(t, 1, view.Recipes[0].ID)
	assert.Equal(t, "Sopa de tomate", view.Recipes[0].TranslatedTitle)
	assert.Equal(t, "https://spoonacular.com/recipes/tomato-soup-1", view.Recipes[0].URL)
	assert.Equal(t, "tomato", view.Ingredients[0].Translated)
	assert.Equal(t, finder.StateAppended, view.State)

	w = c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "tomate"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/v1/session/ingredients", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/v1/session/scroll", nil)
	require.Equal(t, http.StatusOK, w.Code)
	scroll := decode[api.ScrollResponse](t, w)
	assert.True(t, scroll.Advanced)
	assert.Equal(t, finder.StateExhausted, scroll.View.State)
	assert.Equal(t, finder.StatusNoMoreRecipes, scroll.View.Status)

	scroll = decode[api.ScrollResponse](t, c.do(http.MethodPost, "/api/v1/session/scroll", nil))
	assert.False(t, scroll.Advanced)

	w = c.do(http.MethodGet, "/api/v1/translate?q=tomate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	translated := decode[types.TranslateResponse](t, w)
	assert.Equal(t, "Tomato", translated.Translated)
	assert.Equal(t, "es", translated.From)
	assert.Equal(t, "en", translated.To)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/translate", nil).Code)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/v1/session/ingredients/ajo", nil).Code)

	w = c.do(http.MethodDelete, "/api/v1/session/ingredients/tomate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[finder.View](t, w)
	assert.Empty(t, view.Ingredients)
	assert.Empty(t, view.Recipes)

	c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "tomate"})
	w = c.do(http.MethodDelete, "/api/v1/session/ingredients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[finder.View](t, w)
	assert.Empty(t, view.Ingredients)
	assert.Equal(t, finder.StatusNoIngredients, view.Status)

	w = c.do(http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.SessionID, decode[finder.View](t, w).SessionID)

	w = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recetas_translations_total")
}

func TestExpiredSessionIsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	c := &client{t: t, handler: srv.Handler()}
	created := decode[api.CreateSessionResponse](t, c.do(http.MethodPost, "/api/v1/sessions", nil))
	c.token = created.Token

	srv.store.Close()

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/session", nil).Code)
}

func TestActiveSessionOutlivesFirstToken(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the first token to expire")
	}
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	cfg.SessionTTL = 3 * time.Second
	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	c := &client{t: t, handler: srv.Handler()}
	created := decode[api.CreateSessionResponse](t, c.do(http.MethodPost, "/api/v1/sessions", nil))
	c.token = created.Token
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "tomate"}).Code)

	time.Sleep(2 * time.Second)
	w := c.do(http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	renewed := w.Header().Get(middleware.SessionTokenHeader)
	require.NotEmpty(t, renewed)
	assert.NotEqual(t, created.Token, renewed)

	// past the first token's expiry, but the session was used since
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/session", nil).Code)

	c.token = renewed
	w = c.do(http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[finder.View](t, w)
	assert.Equal(t, created.SessionID, view.SessionID)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "tomate", view.Ingredients[0].Original)
}

func TestRemoveIngredientContainingSlash(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	c := &client{t: t, handler: srv.Handler()}
	c.token = decode[api.CreateSessionResponse](t, c.do(http.MethodPost, "/api/v1/sessions", nil)).Token

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "sal/pimienta"}).Code)
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/session/ingredients", types.AddIngredientRequest{Text: "tomate"}).Code)

	w := c.do(http.MethodDelete, "/api/v1/session/ingredients/sal%2Fpimienta", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[finder.View](t, w)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "tomate", view.Ingredients[0].Original)

	w = c.do(http.MethodDelete, "/api/v1/session/ingredients/pimiento%20rojo", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
