package services

import (
	stderrors "errors"
	"strings"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages accounts and credentials.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NewUserInput is the account shape accepted from registration and from
// admin user creation.
type NewUserInput struct {
	Email      string
	Name       string
	Password   string
	Role       models.Role
	SchoolID   *uuid.UUID
	GradeLevel string
}

func (s *UserService) CreateUser(input NewUserInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return nil, errors.NewValidationError("email is required")
	}
	if len(input.Password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}
	if !input.Role.Valid() {
		return nil, errors.NewValidationError("role must be one of student, teacher, admin")
	}

	var existing models.User
	err := s.db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, errors.NewValidationError("email is already registered")
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewInternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         input.Role,
		SchoolID:     input.SchoolID,
		GradeLevel:   input.GradeLevel,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the account. The same
// unauthorized error covers unknown email and bad password.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewUnauthorizedError()
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.NewUnauthorizedError()
	}
	return &user, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &user, nil
}

func (s *UserService) ListBySchool(schoolID uuid.UUID, role models.Role) ([]models.User, error) {
	q := s.db.Where("school_id = ?", schoolID)
	if role != "" {
		if !role.Valid() {
			return nil, errors.NewValidationError("unknown role")
		}
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *UserService) CreateSchool(name, city string) (*models.School, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewValidationError("school name is required")
	}
	school := &models.School{Name: name, City: city}
	if err := s.db.Create(school).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return school, nil
}
