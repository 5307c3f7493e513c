package services

import (
	"strings"
	"testing"

	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStudents(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	roster := NewRosterService(users)
	schoolID := uuid.New()

	csv := strings.NewReader(
		"name,email,grade_level,password\n" +
			"Asha,asha@school.example,9,long-enough\n" +
			"Bilal,bilal@school.example,10,long-enough\n" +
			"Broken,bad-row,10,short\n")

	result, err := roster.ImportStudents(schoolID, csv)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 4")

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("school_id = ? AND role = ?", schoolID, models.RoleStudent).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportStudentsHeaderValidation(t *testing.T) {
	roster := NewRosterService(NewUserService(newTestDB(t)))

	_, err := roster.ImportStudents(uuid.New(), strings.NewReader("name,email\nAsha,a@b.c\n"))
	assert.Error(t, err)

	_, err = roster.ImportStudents(uuid.New(), strings.NewReader(""))
	assert.Error(t, err)
}
