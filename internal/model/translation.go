package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TranslationEntry is one remembered translation
type TranslationEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SourceLang     string    `gorm:"size:16;not null;uniqueIndex:idx_translation_key" json:"source_lang"`
	TargetLang     string    `gorm:"size:16;not null;uniqueIndex:idx_translation_key" json:"target_lang"`
	SourceText     string    `gorm:"size:512;not null;uniqueIndex:idx_translation_key" json:"source_text"`
	TranslatedText string    `gorm:"type:text;not null" json:"translated_text"`
}

// TableName pins the table name shared with the SQL migrations
func (TranslationEntry) TableName() string {
	return "translation_memory"
}

// BeforeCreate assigns an ID when the caller did not
func (e *TranslationEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
