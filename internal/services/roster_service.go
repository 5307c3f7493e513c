package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RosterService bulk-imports student accounts from CSV files exported by
// school administration systems. Expected header: name,email,grade_level,password.
type RosterService struct {
	users *UserService
}

func NewRosterService(users *UserService) *RosterService {
	return &RosterService{users: users}
}

// ImportResult reports per-row outcomes; a bad row never aborts the import.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *RosterService) ImportStudents(schoolID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewValidationError("empty or unreadable CSV file")
	}
	cols, err := rosterColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		sid := schoolID
		_, err = s.users.CreateUser(NewUserInput{
			Name:       record[cols.name],
			Email:      record[cols.email],
			Password:   record[cols.password],
			Role:       models.RoleStudent,
			SchoolID:   &sid,
			GradeLevel: record[cols.grade],
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Created++
	}

	log.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Str("school_id", schoolID.String()).
		Msg("roster import finished")
	return result, nil
}

type rosterCols struct {
	name, email, grade, password int
}

func rosterColumns(header []string) (*rosterCols, error) {
	cols := &rosterCols{name: -1, email: -1, grade: -1, password: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			cols.name = i
		case "email":
			cols.email = i
		case "grade_level", "grade":
			cols.grade = i
		case "password":
			cols.password = i
		}
	}
	if cols.name < 0 || cols.email < 0 || cols.grade < 0 || cols.password < 0 {
		return nil, errors.NewValidationError("CSV header must contain name, email, grade_level and password columns")
	}
	return cols, nil
}
