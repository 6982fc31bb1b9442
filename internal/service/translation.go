package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pageza/recetas/backend/internal/httpclient"
	"github.com/pageza/recetas/backend/internal/metrics"
)

// ErrTranslationUnavailable is returned by TranslateStrict when the provider
// answered but produced no usable translation.
var ErrTranslationUnavailable = errors.New("translation unavailable")

// myMemoryResponse is the subset of the MyMemory /get payload we read
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

// TranslationService talks to the MyMemory translation API
type TranslationService struct {
	apiURL string
	email  string
	client *httpclient.Client
	cache  TranslationCache
}

// NewTranslationService creates a TranslationService. cache may be nil.
func NewTranslationService(apiURL, email string, client *httpclient.Client, cache TranslationCache) *TranslationService {
	return &TranslationService{
		apiURL: apiURL,
		email:  email,
		client: client,
		cache:  cache,
	}
}

// Translate returns the translation of text, or text itself when anything
// goes wrong. Failures are logged and never surfaced.
func (s *TranslationService) Translate(ctx context.Context, text, source, target string) string {
	translated, err := s.TranslateStrict(ctx, text, source, target)
	if err != nil {
		log.Printf("[TranslationService] falling back to original text %q (%s|%s): %v", text, source, target, err)
		metrics.RecordTranslation("fallback")
		return text
	}
	return translated
}

// TranslateStrict is Translate without the fallback
func (s *TranslationService) TranslateStrict(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" || source == target {
		metrics.RecordTranslation("skipped")
		return text, nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, source, target, text)
		if err != nil {
			log.Printf("[TranslationService] cache lookup failed: %v", err)
		} else if ok {
			metrics.RecordTranslation("cache_hit")
			return cached, nil
		}
	}

	translated, err := s.fetch(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	metrics.RecordTranslation("remote")

	if s.cache != nil {
		if err := s.cache.Set(ctx, source, target, text, translated); err != nil {
			log.Printf("[TranslationService] cache store failed: %v", err)
		}
	}

	return translated, nil
}

func (s *TranslationService) fetch(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", source+"|"+target)
	if s.email != "" {
		params.Set("de", s.email)
	}

	status, body, err := s.client.Get(ctx, s.apiURL+"?"+params.Encode())
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("translation request failed with status %d", status)
	}

	var result myMemoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	// responseStatus is a number on success and sometimes a string on errors
	if providerStatus := strings.Trim(string(result.ResponseStatus), `"`); providerStatus != "" && providerStatus != "200" {
		return "", fmt.Errorf("%w: provider status %s: %s", ErrTranslationUnavailable, providerStatus, result.ResponseDetails)
	}

	translated := strings.TrimSpace(result.ResponseData.TranslatedText)
	if translated == "" {
		return "", ErrTranslationUnavailable
	}
	return translated, nil
}
