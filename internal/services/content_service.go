package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GenerationRequest is built per call from the authenticated user and the
// request body; it is never persisted as its own row.
type GenerationRequest struct {
	RequesterID     uuid.UUID
	SchoolID        *uuid.UUID
	ContentType     models.ContentType
	Subject         string
	GradeLevel      string
	SourceTopics    []string
	SourceChapter   string
	ForceRegenerate bool
}

// ChapterLookup resolves a stored chapter so its extracted text can seed the
// generation context. Optional; generation works without one.
type ChapterLookup interface {
	FindByTitle(subject, title string, schoolID *uuid.UUID) (*models.Chapter, error)
}

// ContentService owns the memoized-generation and revision flows.
type ContentService struct {
	store     ContentStore
	generator ContentGenerator
	chapters  ChapterLookup
}

func NewContentService(store ContentStore, generator ContentGenerator, chapters ChapterLookup) *ContentService {
	return &ContentService{store: store, generator: generator, chapters: chapters}
}

// GetOrGenerate serves an equivalent prior generation when one exists,
// otherwise calls the generation service and persists the result under the
// same lookup key. Idempotent for unchanged inputs with ForceRegenerate off.
// Two identical concurrent misses both generate; that race is accepted and
// not deduplicated.
func (s *ContentService) GetOrGenerate(ctx context.Context, req GenerationRequest) (*models.ContentArtifact, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	topicKey := models.TopicKey(req.SourceChapter, req.SourceTopics)

	if !req.ForceRegenerate {
		cached, err := s.store.FindLatestMatch(req.RequesterID, req.SchoolID, req.ContentType, req.Subject, req.GradeLevel, topicKey)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if cached != nil {
			log.Info().
				Uint("artifact_id", cached.ID).
				Str("content_type", string(req.ContentType)).
				Msg("serving cached artifact")
			return cached, nil
		}
	}

	generated, err := s.generator.Generate(ctx, GenerateParams{
		ContentType:    req.ContentType,
		Subject:        req.Subject,
		GradeLevel:     req.GradeLevel,
		Chapter:        req.SourceChapter,
		Topics:         req.SourceTopics,
		ChapterContent: s.chapterContext(req),
	})
	if err != nil {
		return nil, err
	}

	artifact := &models.ContentArtifact{
		Title:         generated.Title,
		ContentType:   req.ContentType,
		Subject:       req.Subject,
		GradeLevel:    req.GradeLevel,
		TopicKey:      topicKey,
		SourceTopics:  req.SourceTopics,
		SourceChapter: req.SourceChapter,
		CreatedBy:     req.RequesterID,
		SchoolID:      req.SchoolID,
		Items:         toContentItems(generated.Items),
	}
	if err := s.store.CreateArtifact(artifact); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info().
		Uint("artifact_id", artifact.ID).
		Str("content_type", string(req.ContentType)).
		Bool("forced", req.ForceRegenerate).
		Msg("generated new artifact")
	return artifact, nil
}

// UpdateWithFeedback routes free-text feedback on an existing artifact
// through the generation service's modify endpoint and replaces the item set
// with whatever comes back. Nothing is mutated unless the upstream call
// succeeds.
func (s *ContentService) UpdateWithFeedback(ctx context.Context, scope AccessScope, artifactID uint, feedback string) (*models.ContentArtifact, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, errors.NewValidationError("feedback is required")
	}

	artifact, err := s.store.GetArtifact(artifactID, scope)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if artifact == nil {
		return nil, errors.NewNotFoundError("artifact not found")
	}

	current := &GeneratedContent{Title: artifact.Title}
	for _, item := range artifact.Items {
		current.Items = append(current.Items, GeneratedItem{
			Title:   item.Title,
			Content: item.Body,
			Order:   item.Position,
		})
	}

	revised, err := s.generator.Modify(ctx, artifact.ContentType, current, feedback)
	if err != nil {
		return nil, err
	}

	items := toContentItems(revised.Items)
	if err := s.store.ReplaceItems(artifact.ID, revised.Title, items); err != nil {
		return nil, errors.NewInternalError(err)
	}

	artifact.Title = revised.Title
	artifact.Items = items

	log.Info().
		Uint("artifact_id", artifact.ID).
		Int("items", len(items)).
		Msg("revised artifact")
	return artifact, nil
}

func (s *ContentService) GetArtifact(scope AccessScope, id uint) (*models.ContentArtifact, error) {
	artifact, err := s.store.GetArtifact(id, scope)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if artifact == nil {
		return nil, errors.NewNotFoundError("artifact not found")
	}
	return artifact, nil
}

func (s *ContentService) ListArtifacts(scope AccessScope, filter ArtifactFilter) ([]models.ContentArtifact, int64, error) {
	if filter.ContentType != "" && !filter.ContentType.Valid() {
		return nil, 0, errors.NewValidationError("unknown content type")
	}
	artifacts, total, err := s.store.ListArtifacts(scope, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	return artifacts, total, nil
}

func (s *ContentService) DeleteArtifact(scope AccessScope, id uint) error {
	err := s.store.DeleteArtifact(id, scope)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NewNotFoundError("artifact not found")
	}
	return errors.NewInternalError(err)
}

// chapterContext fetches stored chapter text when the request names a
// chapter. Lookup failures only lose context, never the generation.
func (s *ContentService) chapterContext(req GenerationRequest) string {
	if s.chapters == nil || req.SourceChapter == "" {
		return ""
	}
	chapter, err := s.chapters.FindByTitle(req.Subject, req.SourceChapter, req.SchoolID)
	if err != nil {
		log.Warn().Err(err).Str("chapter", req.SourceChapter).Msg("chapter lookup failed")
		return ""
	}
	if chapter == nil {
		return ""
	}
	return chapter.Content
}

func (r GenerationRequest) validate() error {
	if !r.ContentType.Valid() {
		return errors.NewValidationError("content_type must be one of deck, lesson_plan, activity, topic")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.NewValidationError("subject is required")
	}
	if strings.TrimSpace(r.GradeLevel) == "" {
		return errors.NewValidationError("grade_level is required")
	}
	if strings.TrimSpace(r.SourceChapter) == "" && len(nonEmpty(r.SourceTopics)) == 0 {
		return errors.NewValidationError("at least one topic or a chapter is required")
	}
	return nil
}

func toContentItems(items []GeneratedItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for i, item := range items {
		out = append(out, models.ContentItem{
			Title:    item.Title,
			Body:     item.Content,
			Position: i + 1,
		})
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
