package services

import (
	"context"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
)

// ContentGenerator is the external AI microservice boundary. Implementations
// decode the upstream response exactly once and surface failures through the
// internal/errors taxonomy.
type ContentGenerator interface {
	Generate(ctx context.Context, params GenerateParams) (*GeneratedContent, error)
	Modify(ctx context.Context, contentType models.ContentType, current *GeneratedContent, feedback string) (*GeneratedContent, error)
	SolveDoubt(ctx context.Context, question, subject, gradeLevel string) (string, error)
}

// AccessScope is the caller's view over stored artifacts: owners see what
// they created, admins see their whole school. Cache lookups stay keyed to
// the requester and never use it.
type AccessScope struct {
	UserID   uuid.UUID
	SchoolID *uuid.UUID
	Admin    bool
}

// ScopeFor derives the access scope from an authenticated user.
func ScopeFor(user *models.User) AccessScope {
	return AccessScope{
		UserID:   user.ID,
		SchoolID: user.SchoolID,
		Admin:    user.Role == models.RoleAdmin,
	}
}

// ContentStore is the persistence boundary for artifacts and their items.
type ContentStore interface {
	FindLatestMatch(createdBy uuid.UUID, schoolID *uuid.UUID, contentType models.ContentType, subject, gradeLevel, topicKey string) (*models.ContentArtifact, error)
	CreateArtifact(artifact *models.ContentArtifact) error
	ReplaceItems(artifactID uint, title string, items []models.ContentItem) error
	GetArtifact(id uint, scope AccessScope) (*models.ContentArtifact, error)
	ListArtifacts(scope AccessScope, filter ArtifactFilter) ([]models.ContentArtifact, int64, error)
	DeleteArtifact(id uint, scope AccessScope) error
}

// ArtifactFilter narrows and pages artifact listings.
type ArtifactFilter struct {
	ContentType models.ContentType
	Subject     string
	Page        int
	PageSize    int
}
