package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetas/backend/internal/service"
	"github.com/pageza/recetas/backend/internal/types"
)

// TranslateHandler exposes the translation gateway
type TranslateHandler struct {
	translator service.Translator
	source     string
	target     string
}

// NewTranslateHandler creates a handler; source and target are the defaults
// for the from and to query parameters.
func NewTranslateHandler(translator service.Translator, source, target string) *TranslateHandler {
	return &TranslateHandler{
		translator: translator,
		source:     source,
		target:     target,
	}
}

func (h *TranslateHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/translate", h.Translate)
}

func (h *TranslateHandler) Translate(c *gin.Context) {
	text := c.Query("q")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	from := c.DefaultQuery("from", h.source)
	to := c.DefaultQuery("to", h.target)

	c.JSON(http.StatusOK, types.TranslateResponse{
		Text:       text,
		Translated: h.translator.Translate(c.Request.Context(), text, from, to),
		From:       from,
		To:         to,
	})
}
