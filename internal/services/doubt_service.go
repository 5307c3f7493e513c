package services

import (
	"context"
	"strings"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoubtService answers student questions through the generation service and
// keeps a per-student history. Answers are not memoized.
type DoubtService struct {
	db        *gorm.DB
	generator ContentGenerator
}

func NewDoubtService(db *gorm.DB, generator ContentGenerator) *DoubtService {
	return &DoubtService{db: db, generator: generator}
}

func (s *DoubtService) Ask(ctx context.Context, studentID uuid.UUID, question, subject, gradeLevel string) (*models.Doubt, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.NewValidationError("question is required")
	}

	answer, err := s.generator.SolveDoubt(ctx, question, subject, gradeLevel)
	if err != nil {
		return nil, err
	}

	doubt := &models.Doubt{
		StudentID:  studentID,
		Subject:    subject,
		GradeLevel: gradeLevel,
		Question:   question,
		Answer:     answer,
	}
	if err := s.db.Create(doubt).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return doubt, nil
}

func (s *DoubtService) History(studentID uuid.UUID, limit int) ([]models.Doubt, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var doubts []models.Doubt
	err := s.db.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&doubts).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return doubts, nil
}
