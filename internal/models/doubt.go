package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doubt is one answered student question. Doubts are not memoized: free-text
// questions effectively never repeat verbatim.
type Doubt struct {
	gorm.Model
	StudentID  uuid.UUID `gorm:"type:uuid;index"`
	Subject    string    `gorm:"size:128"`
	GradeLevel string    `gorm:"size:32"`
	Question   string    `gorm:"type:text;not null"`
	Answer     string    `gorm:"type:text"`
}
