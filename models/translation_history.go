package models

import "time"

// TranslationHistory is an append-only audit record of a change applied
// to a Translation. Rows are never updated after creation and are
// removed only when the owning translation is deleted.
type TranslationHistory struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	TranslationID uint         `json:"translation_id" gorm:"index;not null"`
	Translation   *Translation `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	PreviousValue string       `json:"previous_value" gorm:"type:text"`
	NewValue      string       `json:"new_value" gorm:"type:text"`
	Actor         string       `json:"actor" gorm:"size:100"`
	Reason        string       `json:"reason" gorm:"size:255"`
	CreatedAt     time.Time    `json:"created_at"`
}
