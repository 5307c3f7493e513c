package api

import (
	"net/http"
	"strconv"

	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
)

type doubtPayload struct {
	Question   string `json:"question" binding:"required"`
	Subject    string `json:"subject"`
	GradeLevel string `json:"grade_level"`
}

func askDoubtHandler(doubts *services.DoubtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var payload doubtPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			errors.HandleError(c, errors.NewValidationError(err.Error()))
			return
		}

		grade := payload.GradeLevel
		if grade == "" {
			grade = user.GradeLevel
		}

		doubt, err := doubts.Ask(c.Request.Context(), user.ID, payload.Question, payload.Subject, grade)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, doubt)
	}
}

func doubtHistoryHandler(doubts *services.DoubtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		history, err := doubts.History(user.ID, limit)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"doubts": history})
	}
}
