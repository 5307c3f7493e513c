package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

// TokenIssuer signs and verifies the HS256 session tokens.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject claim")
	}
	return id, nil
}

// AuthMiddleware resolves the bearer token to a user row and stores it in
// the request context.
func AuthMiddleware(issuer *TokenIssuer, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}

		userID, err := issuer.verify(bearerToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		apperrors.HandleError(c, apperrors.NewForbiddenError())
		c.Abort()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetupRoutes registers the public auth endpoints.
func SetupRoutes(r *gin.Engine, issuer *TokenIssuer, users *services.UserService) {
	group := r.Group("/auth")
	{
		group.POST("/register", registerHandler(issuer, users))
		group.POST("/login", loginHandler(issuer, users))
		group.GET("/me", AuthMiddleware(issuer, users), getMe)
	}
}

type registerPayload struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required"`
	GradeLevel string `json:"grade_level"`
	SchoolID   string `json:"school_id"`
}

// registerHandler self-registers a student account. Teachers and admins are
// created by an admin.
func registerHandler(issuer *TokenIssuer, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload registerPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError(err.Error()))
			return
		}

		var schoolID *uuid.UUID
		if payload.SchoolID != "" {
			id, err := uuid.Parse(payload.SchoolID)
			if err != nil {
				apperrors.HandleError(c, apperrors.NewValidationError("school_id must be a UUID"))
				return
			}
			schoolID = &id
		}

		user, err := users.CreateUser(services.NewUserInput{
			Email:      payload.Email,
			Name:       payload.Name,
			Password:   payload.Password,
			Role:       models.RoleStudent,
			SchoolID:   schoolID,
			GradeLevel: payload.GradeLevel,
		})
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		token, err := issuer.Issue(user)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewInternalError(err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(issuer *TokenIssuer, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload loginPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError(err.Error()))
			return
		}

		user, err := users.Authenticate(payload.Email, payload.Password)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		token, err := issuer.Issue(user)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewInternalError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func getMe(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	c.JSON(http.StatusOK, user)
}
