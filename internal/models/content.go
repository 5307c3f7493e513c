package models

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentTypeDeck       ContentType = "deck"
	ContentTypeLessonPlan ContentType = "lesson_plan"
	ContentTypeActivity   ContentType = "activity"
	ContentTypeTopic      ContentType = "topic"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeDeck, ContentTypeLessonPlan, ContentTypeActivity, ContentTypeTopic:
		return true
	}
	return false
}

// ContentArtifact is one successful generation: a deck, lesson plan,
// activity or topic note together with its ordered items. Rows are
// append-only on generation; only the explicit revise operation mutates one.
type ContentArtifact struct {
	gorm.Model
	Title         string        `gorm:"not null"`
	ContentType   ContentType   `gorm:"size:32;not null;index:idx_artifact_lookup,priority:3"`
	Subject       string        `gorm:"size:128;not null;index:idx_artifact_lookup,priority:4"`
	GradeLevel    string        `gorm:"size:32;not null;index:idx_artifact_lookup,priority:5"`
	TopicKey      string        `gorm:"size:512;not null;index:idx_artifact_lookup,priority:6"`
	SourceTopics  []string      `gorm:"serializer:json"`
	SourceChapter string        `gorm:"size:255"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;index:idx_artifact_lookup,priority:1"`
	SchoolID      *uuid.UUID    `gorm:"type:uuid;index:idx_artifact_lookup,priority:2"`
	Items         []ContentItem `gorm:"foreignKey:ArtifactID;constraint:OnDelete:CASCADE"`
}

// ContentItem is one slide, plan section, activity step or topic point.
// Position is the explicit display order.
type ContentItem struct {
	gorm.Model
	ArtifactID uint   `gorm:"not null;index"`
	Title      string `gorm:"not null"`
	Body       string `gorm:"type:text"`
	Position   int    `gorm:"not null"`
}

// TopicKey derives the single lookup key used by the generation cache.
// A chapter wins over loose topics; topics are sorted and lowercased so the
// key is order- and case-insensitive.
func TopicKey(chapter string, topics []string) string {
	if c := strings.TrimSpace(chapter); c != "" {
		return "chapter:" + strings.ToLower(c)
	}
	normalized := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			normalized = append(normalized, strings.ToLower(t))
		}
	}
	sort.Strings(normalized)
	return "topics:" + strings.Join(normalized, "|")
}
