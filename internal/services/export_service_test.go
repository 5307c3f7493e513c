package services

import (
	"testing"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactPDF(t *testing.T) {
	service := NewExportService()

	artifact := &models.ContentArtifact{
		Title:       "Light and Optics",
		ContentType: models.ContentTypeDeck,
		Subject:     "Physics",
		GradeLevel:  "10",
		Items: []models.ContentItem{
			{Title: "Reflection", Body: "Mirrors reflect light.", Position: 1},
			{Title: "Refraction", Body: "Lenses bend light.", Position: 2},
		},
	}

	pdfBytes, err := service.ArtifactPDF(artifact)
	require.NoError(t, err)
	assert.True(t, len(pdfBytes) > 0)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))

	artifact.ContentType = models.ContentTypeLessonPlan
	pdfBytes, err = service.ArtifactPDF(artifact)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
