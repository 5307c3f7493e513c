package api

import (
	"net/http"

	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
)

type createSchoolPayload struct {
	Name string `json:"name" binding:"required"`
	City string `json:"city"`
}

func createSchoolHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload createSchoolPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			errors.HandleError(c, errors.NewValidationError(err.Error()))
			return
		}

		school, err := users.CreateSchool(payload.Name, payload.City)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, school)
	}
}

type createUserPayload struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
	GradeLevel string `json:"grade_level"`
}

// createUserHandler creates teacher and student accounts inside the admin's
// own school.
func createUserHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := auth.CurrentUser(c)

		var payload createUserPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			errors.HandleError(c, errors.NewValidationError(err.Error()))
			return
		}

		user, err := users.CreateUser(services.NewUserInput{
			Email:      payload.Email,
			Name:       payload.Name,
			Password:   payload.Password,
			Role:       models.Role(payload.Role),
			SchoolID:   admin.SchoolID,
			GradeLevel: payload.GradeLevel,
		})
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func listUsersHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := auth.CurrentUser(c)
		if admin.SchoolID == nil {
			errors.HandleError(c, errors.NewValidationError("admin account has no school"))
			return
		}

		result, err := users.ListBySchool(*admin.SchoolID, models.Role(c.Query("role")))
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": result})
	}
}

// importRosterHandler takes a multipart form with a "file" CSV of students.
func importRosterHandler(roster *services.RosterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := auth.CurrentUser(c)
		if admin.SchoolID == nil {
			errors.HandleError(c, errors.NewValidationError("admin account has no school"))
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			errors.HandleError(c, errors.NewValidationError("a CSV file upload is required"))
			return
		}

		reader, err := file.Open()
		if err != nil {
			errors.HandleError(c, errors.NewInternalError(err))
			return
		}
		defer reader.Close()

		result, err := roster.ImportStudents(*admin.SchoolID, reader)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
