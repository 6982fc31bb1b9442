package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recetas/backend/internal/model"
)

func cacheKey(source, target, text string) string {
	return source + "|" + target + "|" + text
}

// LRUTranslationCache keeps recent translations in process memory
type LRUTranslationCache struct {
	entries *lru.Cache[string, string]
}

// NewLRUTranslationCache creates an in-process cache holding up to size entries
func NewLRUTranslationCache(size int) (*LRUTranslationCache, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUTranslationCache{entries: entries}, nil
}

func (c *LRUTranslationCache) Get(_ context.Context, source, target, text string) (string, bool, error) {
	v, ok := c.entries.Get(cacheKey(source, target, text))
	return v, ok, nil
}

func (c *LRUTranslationCache) Set(_ context.Context, source, target, text, translated string) error {
	c.entries.Add(cacheKey(source, target, text), translated)
	return nil
}

// RedisTranslationCache shares translations between instances through Redis
type RedisTranslationCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisTranslationCache creates a Redis-backed cache; entries expire after ttl
func NewRedisTranslationCache(client *redis.Client, ttl time.Duration) *RedisTranslationCache {
	return &RedisTranslationCache{redis: client, ttl: ttl}
}

func (c *RedisTranslationCache) key(source, target, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("translation:%s:%s:%s", source, target, hex.EncodeToString(sum[:]))
}

func (c *RedisTranslationCache) Get(ctx context.Context, source, target, text string) (string, bool, error) {
	v, err := c.redis.Get(ctx, c.key(source, target, text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get translation from Redis: %w", err)
	}
	return v, true, nil
}

func (c *RedisTranslationCache) Set(ctx context.Context, source, target, text, translated string) error {
	if err := c.redis.Set(ctx, c.key(source, target, text), translated, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save translation to Redis: %w", err)
	}
	return nil
}

// TranslationMemory is the durable tier, one row per language pair and text
type TranslationMemory struct {
	db *gorm.DB
}

// NewTranslationMemory creates a TranslationMemory over db
func NewTranslationMemory(db *gorm.DB) *TranslationMemory {
	return &TranslationMemory{db: db}
}

func (m *TranslationMemory) Get(ctx context.Context, source, target, text string) (string, bool, error) {
	var entry model.TranslationEntry
	err := m.db.WithContext(ctx).
		Where("source_lang = ? AND target_lang = ? AND source_text = ?", source, target, text).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read translation memory: %w", err)
	}
	return entry.TranslatedText, true, nil
}

func (m *TranslationMemory) Set(ctx context.Context, source, target, text, translated string) error {
	entry := model.TranslationEntry{
		SourceLang:     source,
		TargetLang:     target,
		SourceText:     text,
		TranslatedText: translated,
	}
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_lang"}, {Name: "target_lang"}, {Name: "source_text"}},
		DoUpdates: clause.AssignmentColumns([]string{"translated_text", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write translation memory: %w", err)
	}
	return nil
}

// TieredCache consults its tiers in order and back-fills the faster tiers
// on a hit further down. Tier errors are logged and count as misses.
type TieredCache struct {
	tiers []TranslationCache
}

// NewTieredCache composes caches, fastest first. Nil tiers are skipped.
func NewTieredCache(tiers ...TranslationCache) *TieredCache {
	c := &TieredCache{}
	for _, t := range tiers {
		if t != nil {
			c.tiers = append(c.tiers, t)
		}
	}
	return c
}

func (c *TieredCache) Get(ctx context.Context, source, target, text string) (string, bool, error) {
	for i, tier := range c.tiers {
		v, ok, err := tier.Get(ctx, source, target, text)
		if err != nil {
			log.Printf("[TieredCache] tier %d lookup failed: %v", i, err)
			continue
		}
		if !ok {
			continue
		}
		for _, upper := range c.tiers[:i] {
			if err := upper.Set(ctx, source, target, text, v); err != nil {
				log.Printf("[TieredCache] back-fill failed: %v", err)
			}
		}
		return v, true, nil
	}
	return "", false, nil
}

func (c *TieredCache) Set(ctx context.Context, source, target, text, translated string) error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Set(ctx, source, target, text, translated); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
