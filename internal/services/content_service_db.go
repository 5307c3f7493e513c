package services

import (
	"errors"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultContentStore implements ContentStore on GORM.
type DefaultContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) ContentStore {
	return &DefaultContentStore{db: db}
}

// FindLatestMatch returns the newest artifact for the exact lookup tuple, or
// nil when nothing matches. Read-only: a concurrent identical request racing
// past this point is accepted and ends up creating a second artifact.
func (s *DefaultContentStore) FindLatestMatch(createdBy uuid.UUID, schoolID *uuid.UUID, contentType models.ContentType, subject, gradeLevel, topicKey string) (*models.ContentArtifact, error) {
	q := s.db.Where("created_by = ? AND content_type = ? AND subject = ? AND grade_level = ? AND topic_key = ?",
		createdBy, contentType, subject, gradeLevel, topicKey)
	if schoolID != nil {
		q = q.Where("school_id = ?", *schoolID)
	} else {
		q = q.Where("school_id IS NULL")
	}

	var artifact models.ContentArtifact
	err := q.Order("created_at DESC").First(&artifact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadItems(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// CreateArtifact inserts the artifact and its items in one transaction.
func (s *DefaultContentStore) CreateArtifact(artifact *models.ContentArtifact) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		items := artifact.Items
		artifact.Items = nil
		if err := tx.Create(artifact).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ArtifactID = artifact.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		artifact.Items = items
		return nil
	})
}

// ReplaceItems swaps the artifact's item set and title atomically. A failed
// replacement leaves the previous items untouched.
func (s *DefaultContentStore) ReplaceItems(artifactID uint, title string, items []models.ContentItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("artifact_id = ?", artifactID).Delete(&models.ContentItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ArtifactID = artifactID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.ContentArtifact{}).Where("id = ?", artifactID).
			Update("title", title).Error
	})
}

// scoped narrows a query to the caller's visibility: the requester's own
// rows, or the whole school when the caller is an admin with a school.
func scoped(q *gorm.DB, scope AccessScope) *gorm.DB {
	if scope.Admin && scope.SchoolID != nil {
		return q.Where("school_id = ?", *scope.SchoolID)
	}
	return q.Where("created_by = ?", scope.UserID)
}

// GetArtifact fetches one artifact with ordered items within the caller's scope.
func (s *DefaultContentStore) GetArtifact(id uint, scope AccessScope) (*models.ContentArtifact, error) {
	var artifact models.ContentArtifact
	err := scoped(s.db.Where("id = ?", id), scope).First(&artifact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (s *DefaultContentStore) ListArtifacts(scope AccessScope, filter ArtifactFilter) ([]models.ContentArtifact, int64, error) {
	base := func() *gorm.DB {
		q := scoped(s.db.Model(&models.ContentArtifact{}), scope)
		if filter.ContentType != "" {
			q = q.Where("content_type = ?", filter.ContentType)
		}
		if filter.Subject != "" {
			q = q.Where("subject = ?", filter.Subject)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var artifacts []models.ContentArtifact
	err := base().Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&artifacts).Error
	if err != nil {
		return nil, 0, err
	}
	return artifacts, total, nil
}

func (s *DefaultContentStore) DeleteArtifact(id uint, scope AccessScope) error {
	result := scoped(s.db.Where("id = ?", id), scope).Delete(&models.ContentArtifact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *DefaultContentStore) loadItems(artifact *models.ContentArtifact) error {
	return s.db.Where("artifact_id = ?", artifact.ID).
		Order("position ASC").
		Find(&artifact.Items).Error
}
