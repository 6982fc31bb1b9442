package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseRecorder is a custom ResponseWriter to capture status and body
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       string
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	if statusCode < 400 {
		r.ResponseWriter.WriteHeader(statusCode)
	}
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode >= 400 {
		r.body = strings.TrimSpace(string(b))
		// the JSON body is written once the handler returns
		return len(b), nil
	}
	return r.ResponseWriter.Write(b)
}

// ErrorHandler wraps plain net/http handlers (metrics, static files) so that
// error statuses and panics come back as JSON like the rest of the API.
// Bodies that are already JSON are passed through unchanged.
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[ErrorHandler] panic serving %s: %v", r.URL.Path, err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error"})
				return
			}
			if rec.statusCode < 400 {
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.statusCode)
			if json.Valid([]byte(rec.body)) {
				_, _ = w.Write([]byte(rec.body + "\n"))
				return
			}
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: rec.body})
		}()

		next.ServeHTTP(rec, r)
	})
}

// Recovery is the gin counterpart of ErrorHandler for panics
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("[Recovery] panic serving %s: %v", c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}
