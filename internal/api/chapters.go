package api

import (
	"net/http"

	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
)

// uploadChapterHandler accepts a multipart form with a "file" PDF plus
// title/subject/grade_level fields.
func uploadChapterHandler(chapters *services.ChapterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		file, err := c.FormFile("file")
		if err != nil {
			errors.HandleError(c, errors.NewValidationError("a PDF file upload is required"))
			return
		}

		reader, err := file.Open()
		if err != nil {
			errors.HandleError(c, errors.NewInternalError(err))
			return
		}
		defer reader.Close()

		chapter, err := chapters.ImportPDF(services.ChapterUpload{
			Title:      c.PostForm("title"),
			Subject:    c.PostForm("subject"),
			GradeLevel: c.PostForm("grade_level"),
			UploadedBy: user.ID,
			SchoolID:   user.SchoolID,
		}, reader)
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         chapter.ID,
			"title":      chapter.Title,
			"subject":    chapter.Subject,
			"page_count": chapter.PageCount,
		})
	}
}

func listChaptersHandler(chapters *services.ChapterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		result, err := chapters.ListBySubject(c.Query("subject"), user.SchoolID)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chapters": result})
	}
}
