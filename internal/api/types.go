package api

import "github.com/pageza/recetas/backend/internal/finder"

// CreateSessionResponse is returned when a visitor starts a session
type CreateSessionResponse struct {
	SessionID string      `json:"session_id"`
	Token     string      `json:"token"`
	View      finder.View `json:"view"`
}

// ScrollResponse reports whether the scroll signal fetched another page
type ScrollResponse struct {
	Advanced bool        `json:"advanced"`
	View     finder.View `json:"view"`
}
