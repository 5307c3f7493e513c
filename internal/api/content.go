package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
)

type generatePayload struct {
	ContentType     string   `json:"content_type" binding:"required"`
	Subject         string   `json:"subject" binding:"required"`
	GradeLevel      string   `json:"grade_level" binding:"required"`
	Topics          []string `json:"topics"`
	Chapter         string   `json:"chapter"`
	ForceRegenerate bool     `json:"force_regenerate"`
}

func generateContentHandler(content *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var payload generatePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			errors.HandleError(c, errors.NewValidationError(err.Error()))
			return
		}

		contentType := models.ContentType(payload.ContentType)

		// Students generate their own study aids only; decks and lesson
		// plans are staff material.
		if user.Role == models.RoleStudent &&
			(contentType == models.ContentTypeDeck || contentType == models.ContentTypeLessonPlan) {
			errors.HandleError(c, errors.NewForbiddenError())
			return
		}

		artifact, err := content.GetOrGenerate(c.Request.Context(), services.GenerationRequest{
			RequesterID:     user.ID,
			SchoolID:        user.SchoolID,
			ContentType:     contentType,
			Subject:         payload.Subject,
			GradeLevel:      payload.GradeLevel,
			SourceTopics:    payload.Topics,
			SourceChapter:   payload.Chapter,
			ForceRegenerate: payload.ForceRegenerate,
		})
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, artifact)
	}
}

type revisePayload struct {
	Feedback string `json:"feedback" binding:"required"`
}

func reviseContentHandler(content *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		id, err := artifactID(c)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		var payload revisePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			errors.HandleError(c, errors.NewValidationError(err.Error()))
			return
		}

		artifact, err := content.UpdateWithFeedback(c.Request.Context(), services.ScopeFor(user), id, payload.Feedback)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, artifact)
	}
}

func listContentHandler(content *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		artifacts, total, err := content.ListArtifacts(services.ScopeFor(user), services.ArtifactFilter{
			ContentType: models.ContentType(c.Query("content_type")),
			Subject:     c.Query("subject"),
			Page:        page,
			PageSize:    pageSize,
		})
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"artifacts": artifacts,
			"total":     total,
			"page":      page,
		})
	}
}

func getContentHandler(content *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		id, err := artifactID(c)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		artifact, err := content.GetArtifact(services.ScopeFor(user), id)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, artifact)
	}
}

func deleteContentHandler(content *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		id, err := artifactID(c)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		if err := content.DeleteArtifact(services.ScopeFor(user), id); err != nil {
			errors.HandleError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func exportContentHandler(content *services.ContentService, export *services.ExportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		id, err := artifactID(c)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		artifact, err := content.GetArtifact(services.ScopeFor(user), id)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		pdfBytes, err := export.ArtifactPDF(artifact)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		filename := fmt.Sprintf("%s-%d.pdf", artifact.ContentType, artifact.ID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

func artifactID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("id must be a positive integer")
	}
	return uint(id), nil
}
