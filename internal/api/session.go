package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recetas/backend/internal/finder"
	"github.com/pageza/recetas/backend/internal/middleware"
	"github.com/pageza/recetas/backend/internal/service"
	"github.com/pageza/recetas/backend/internal/types"
)

// SessionHandler exposes finder sessions over HTTP
type SessionHandler struct {
	store  *finder.Store
	tokens service.ITokenService
}

func NewSessionHandler(store *finder.Store, tokens service.ITokenService) *SessionHandler {
	return &SessionHandler{
		store:  store,
		tokens: tokens,
	}
}

// RegisterRoutes mounts the public session route on router and the
// session-scoped routes on protected.
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup, protected *gin.RouterGroup) {
	router.POST("/sessions", h.CreateSession)

	session := protected.Group("/session")
	{
		session.GET("", h.GetSession)
		session.POST("/ingredients", h.AddIngredient)
		session.DELETE("/ingredients", h.ClearIngredients)
		session.DELETE("/ingredients/:original", h.RemoveIngredient)
		session.POST("/scroll", h.Scroll)
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	s := h.store.Create()

	token, err := h.tokens.GenerateToken(s.ID.String())
	if err != nil {
		log.Printf("[SessionHandler] failed to issue token: %v", err)
		h.store.Delete(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: s.ID.String(),
		Token:     token,
		View:      s.View(),
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) AddIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req types.AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if s.AddIngredient(c.Request.Context(), req.Text) {
		status = http.StatusCreated
	}
	c.JSON(status, s.View())
}

func (h *SessionHandler) RemoveIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if !s.RemoveIngredient(c.Request.Context(), c.Param("original")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) ClearIngredients(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.ClearAll()
	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) Scroll(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	advanced := s.NearBottom(c.Request.Context())
	c.JSON(http.StatusOK, ScrollResponse{Advanced: advanced, View: s.View()})
}

// session resolves the authenticated session, answering the request itself
// when it cannot. A resolved session gets a renewed token header.
func (h *SessionHandler) session(c *gin.Context) (*finder.Session, bool) {
	id, err := uuid.Parse(c.GetString(middleware.SessionIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return nil, false
	}

	s, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session expired"})
		return nil, false
	}

	// the store just renewed the session; renew the token with it
	if token, err := h.tokens.GenerateToken(s.ID.String()); err == nil {
		c.Header(middleware.SessionTokenHeader, token)
	} else {
		log.Printf("[SessionHandler] failed to renew token for session %s: %v", s.ID, err)
	}
	return s, true
}
