package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter holds the extracted text of an uploaded textbook chapter. The text
// is sent to the generation service as source context when a request names
// the chapter.
type Chapter struct {
	gorm.Model
	Title      string `gorm:"size:255;not null"`
	Subject    string `gorm:"size:128;not null;index"`
	GradeLevel string `gorm:"size:32;not null"`
	Content    string `gorm:"type:text"`
	PageCount  int
	UploadedBy uuid.UUID  `gorm:"type:uuid;index"`
	SchoolID   *uuid.UUID `gorm:"type:uuid;index"`
}
