package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EDU-jjkr/EDUAI/internal/models"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) (*TokenIssuer, *services.UserService, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	users := services.NewUserService(db)
	user, err := users.CreateUser(services.NewUserInput{
		Email:    "teacher@school.example",
		Name:     "Teacher",
		Password: "long-enough",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)

	return NewTokenIssuer("test-secret"), users, user
}

func protectedRouter(issuer *TokenIssuer, users *services.UserService, roles ...models.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(issuer, users)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddlewareAcceptsIssuedToken(t *testing.T) {
	issuer, users, user := setupAuthTest(t)

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(issuer, users).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teacher@school.example")
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	issuer, users, user := setupAuthTest(t)
	router := protectedRouter(issuer, users)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token signed with a different secret
	otherToken, err := NewTokenIssuer("other-secret").Issue(user)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	issuer, users, teacher := setupAuthTest(t)

	token, err := issuer.Issue(teacher)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(issuer, users, models.RoleAdmin).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(issuer, users, models.RoleTeacher, models.RoleAdmin).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
