package services

import (
	"bytes"
	"testing"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePDF(t *testing.T, pages ...string) *bytes.Buffer {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return &buf
}

func TestImportPDFExtractsText(t *testing.T) {
	db := newTestDB(t)
	service := NewChapterService(db)
	teacher := uuid.New()

	chapter, err := service.ImportPDF(ChapterUpload{
		Title:      "Optics",
		Subject:    "Physics",
		GradeLevel: "10",
		UploadedBy: teacher,
	}, fixturePDF(t, "Light travels in straight lines", "Lenses bend light"))

	require.NoError(t, err)
	assert.Equal(t, 2, chapter.PageCount)
	assert.Contains(t, chapter.Content, "Light travels in straight lines")
	assert.Contains(t, chapter.Content, "Lenses bend light")

	var stored models.Chapter
	require.NoError(t, db.First(&stored, chapter.ID).Error)
	assert.Equal(t, teacher, stored.UploadedBy)
}

func TestImportPDFRequiresTitleAndSubject(t *testing.T) {
	service := NewChapterService(newTestDB(t))

	_, err := service.ImportPDF(ChapterUpload{Subject: "Physics"}, fixturePDF(t, "text"))
	assert.Error(t, err)

	_, err = service.ImportPDF(ChapterUpload{Title: "Optics"}, fixturePDF(t, "text"))
	assert.Error(t, err)
}

func TestImportPDFRejectsNonPDF(t *testing.T) {
	service := NewChapterService(newTestDB(t))

	_, err := service.ImportPDF(ChapterUpload{Title: "Optics", Subject: "Physics"},
		bytes.NewBufferString("this is not a pdf"))
	assert.Error(t, err)
}

func TestFindByTitleIsCaseInsensitiveAndScoped(t *testing.T) {
	db := newTestDB(t)
	service := NewChapterService(db)

	_, err := service.ImportPDF(ChapterUpload{
		Title:   "Optics",
		Subject: "Physics",
	}, fixturePDF(t, "chapter text"))
	require.NoError(t, err)

	found, err := service.FindByTitle("Physics", "OPTICS", nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Contains(t, found.Content, "chapter text")

	school := uuid.New()
	found, err = service.FindByTitle("Physics", "Optics", &school)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = service.FindByTitle("Math", "Optics", nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListBySubjectIsSchoolScoped(t *testing.T) {
	db := newTestDB(t)
	service := NewChapterService(db)

	schoolA := uuid.New()
	schoolB := uuid.New()
	seed := func(title string, schoolID *uuid.UUID) {
		require.NoError(t, db.Create(&models.Chapter{
			Title:    title,
			Subject:  "Physics",
			Content:  "text",
			SchoolID: schoolID,
		}).Error)
	}
	seed("Optics A", &schoolA)
	seed("Optics B", &schoolB)
	seed("Optics Shared", nil)

	chapters, err := service.ListBySubject("Physics", &schoolA)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Optics A", chapters[0].Title)

	// a caller without a school sees only unscoped chapters
	chapters, err = service.ListBySubject("Physics", nil)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Optics Shared", chapters[0].Title)
}
