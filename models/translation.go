package models

import (
	"strings"
	"time"
)

// Supported target languages. "pt" is European Portuguese.
const (
	LangEnglish    = "en"
	LangPortuguese = "pt"
)

// Translation statuses as stored in the status column.
const (
	StatusPending       = "pending"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusPendingReview = "pending_review"
)

// Sentinel values for the producing model column when the entry did not
// come from the generative API.
const (
	ModelManualRule = "manual"
	ModelHumanEdit  = "human"
)

type Translation struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SourceText     string    `json:"source_text" gorm:"type:text;uniqueIndex:idx_translations_source_lang;not null"`
	TargetLang     string    `json:"target_lang" gorm:"size:5;uniqueIndex:idx_translations_source_lang;not null"`
	TranslatedText string    `json:"translated_text" gorm:"type:text;not null"`
	Model          string    `json:"model" gorm:"size:64"`
	Status         string    `json:"status" gorm:"size:20;default:'pending'"`
	NeedsReview    bool      `json:"needs_review" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastUsedAt     time.Time `json:"last_used_at" gorm:"index"`
}

// IsSupportedLang reports whether lang is one of the enumerated target languages.
func IsSupportedLang(lang string) bool {
	switch strings.ToLower(lang) {
	case LangEnglish, LangPortuguese:
		return true
	}
	return false
}
