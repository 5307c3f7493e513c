package services

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"
)

// ChapterService stores teacher-uploaded chapter PDFs as extracted text so
// generation requests naming the chapter can carry its content upstream.
type ChapterService struct {
	db *gorm.DB
}

func NewChapterService(db *gorm.DB) *ChapterService {
	return &ChapterService{db: db}
}

// ChapterUpload describes one uploaded chapter PDF.
type ChapterUpload struct {
	Title      string
	Subject    string
	GradeLevel string
	UploadedBy uuid.UUID
	SchoolID   *uuid.UUID
}

// ImportPDF extracts the text of the uploaded PDF and persists it as a
// chapter. The raw PDF is not kept.
func (s *ChapterService) ImportPDF(upload ChapterUpload, content io.Reader) (*models.Chapter, error) {
	if strings.TrimSpace(upload.Title) == "" || strings.TrimSpace(upload.Subject) == "" {
		return nil, errors.NewValidationError("chapter title and subject are required")
	}

	tempFile, err := os.CreateTemp("", "chapter-*.pdf")
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("failed to create temporary file: %w", err))
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, content); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("failed to save PDF content: %w", err))
	}

	text, pages, err := extractTextFromPDF(tempFile.Name())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	chapter := &models.Chapter{
		Title:      upload.Title,
		Subject:    upload.Subject,
		GradeLevel: upload.GradeLevel,
		Content:    text,
		PageCount:  pages,
		UploadedBy: upload.UploadedBy,
		SchoolID:   upload.SchoolID,
	}
	if err := s.db.Create(chapter).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return chapter, nil
}

// FindByTitle implements ChapterLookup for the content service. Matching is
// case-insensitive on title within the subject and school scope.
func (s *ChapterService) FindByTitle(subject, title string, schoolID *uuid.UUID) (*models.Chapter, error) {
	q := s.db.Where("subject = ? AND LOWER(title) = ?", subject, strings.ToLower(title))
	if schoolID != nil {
		q = q.Where("school_id = ?", *schoolID)
	} else {
		q = q.Where("school_id IS NULL")
	}

	var chapter models.Chapter
	err := q.Order("created_at DESC").First(&chapter).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *ChapterService) ListBySubject(subject string, schoolID *uuid.UUID) ([]models.Chapter, error) {
	q := s.db.Select("id", "created_at", "updated_at", "title", "subject", "grade_level", "page_count", "uploaded_by", "school_id")
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	if schoolID != nil {
		q = q.Where("school_id = ?", *schoolID)
	} else {
		q = q.Where("school_id IS NULL")
	}

	var chapters []models.Chapter
	if err := q.Order("title ASC").Find(&chapters).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return chapters, nil
}

func extractTextFromPDF(pdfPath string) (string, int, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %v", err)
	}
	defer f.Close()

	var content strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		content.WriteString(text)
		content.WriteString("\n\n")
	}

	if content.Len() == 0 {
		return "", 0, fmt.Errorf("no text content extracted from PDF")
	}

	return content.String(), totalPage, nil
}
