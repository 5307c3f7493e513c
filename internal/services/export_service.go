package services

import (
	"bytes"
	"fmt"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ExportService renders artifacts to PDF. Decks get one page per slide,
// everything else flows as a titled document.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

func (s *ExportService) ArtifactPDF(artifact *models.ContentArtifact) ([]byte, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetTitle(artifact.Title, true)

	if artifact.ContentType == models.ContentTypeDeck {
		s.renderDeck(doc, artifact)
	} else {
		s.renderDocument(doc, artifact)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("rendering PDF: %w", err))
	}
	return buf.Bytes(), nil
}

func (s *ExportService) renderDeck(doc *gofpdf.Fpdf, artifact *models.ContentArtifact) {
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 28)
	doc.MultiCell(0, 14, artifact.Title, "", "C", false)
	doc.SetFont("Helvetica", "", 14)
	doc.MultiCell(0, 8, fmt.Sprintf("%s - Grade %s", artifact.Subject, artifact.GradeLevel), "", "C", false)

	for _, item := range artifact.Items {
		doc.AddPage()
		doc.SetFont("Helvetica", "B", 22)
		doc.MultiCell(0, 12, item.Title, "", "L", false)
		doc.Ln(4)
		doc.SetFont("Helvetica", "", 14)
		doc.MultiCell(0, 8, item.Body, "", "L", false)
	}
}

func (s *ExportService) renderDocument(doc *gofpdf.Fpdf, artifact *models.ContentArtifact) {
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 20)
	doc.MultiCell(0, 10, artifact.Title, "", "L", false)
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, fmt.Sprintf("%s - Grade %s", artifact.Subject, artifact.GradeLevel), "", "L", false)
	doc.Ln(6)

	for _, item := range artifact.Items {
		doc.SetFont("Helvetica", "B", 14)
		doc.MultiCell(0, 8, item.Title, "", "L", false)
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, item.Body, "", "L", false)
		doc.Ln(4)
	}
}
