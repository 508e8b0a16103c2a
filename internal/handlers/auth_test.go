package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	authService  *services.AuthService
	tokenService *services.TokenService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(tokenRepo, "test-secret", 30*time.Minute, 24*time.Hour)
	handler := NewAuthHandler(authService, tokenService)

	r := gin.New()
	r.POST("/api/user/register", handler.Register)
	r.POST("/api/token", handler.Token)
	r.POST("/api/token/refresh", handler.TokenRefresh)
	r.GET("/api/user/me", middleware.RequireAuth(tokenService), handler.Me)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:           db,
		router:       r,
		authService:  authService,
		tokenService: tokenService,
	}
}

func (env authTestEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/user/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "Passw0rd!",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.Equal(t, "a@x.com", response.Email)
	require.NotZero(t, response.ID)
	require.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_RegisterDuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	first := env.postJSON(t, "/api/user/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.postJSON(t, "/api/user/register", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestAuthHandler_RegisterInvalidEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/user/register", map[string]string{
		"username": "alice",
		"email":    "not-an-email",
		"password": "Passw0rd!",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response.Details, "email")
}

func TestAuthHandler_RegisterWeakPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	for _, password := range []string{"short", "123456789"} {
		w := env.postJSON(t, "/api/user/register", map[string]string{
			"username": "alice",
			"email":    "a@x.com",
			"password": password,
		})

		require.Equal(t, http.StatusBadRequest, w.Code, "password %q should be rejected", password)

		var response struct {
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Contains(t, response.Details, "password")
	}
}

func TestAuthHandler_Token(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/token", map[string]string{
		"username": "alice",
		"password": "Passw0rd!",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var pair services.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
}

func TestAuthHandler_TokenBadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/token", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var response struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, apierrors.ErrCodeInvalidCredentials, response.Code)

	w = env.postJSON(t, "/api/token", map[string]string{
		"username": "nobody",
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_TokenRefreshRotation(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	pair, err := env.tokenService.IssuePair(user.ID)
	require.NoError(t, err)

	first := env.postJSON(t, "/api/token/refresh", map[string]string{
		"refresh": pair.Refresh,
	})
	require.Equal(t, http.StatusOK, first.Code)

	var rotated services.TokenPair
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &rotated))
	require.NotEmpty(t, rotated.Access)
	require.NotEmpty(t, rotated.Refresh)
	require.NotEqual(t, pair.Refresh, rotated.Refresh)

	// The consumed token must never be accepted again.
	second := env.postJSON(t, "/api/token/refresh", map[string]string{
		"refresh": pair.Refresh,
	})
	require.Equal(t, http.StatusUnauthorized, second.Code)

	// The rotated replacement still works.
	third := env.postJSON(t, "/api/token/refresh", map[string]string{
		"refresh": rotated.Refresh,
	})
	require.Equal(t, http.StatusOK, third.Code)
}

func TestAuthHandler_TokenRefreshMalformed(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/token/refresh", map[string]string{
		"refresh": "not-a-token",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	pair, err := env.tokenService.IssuePair(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
}

func TestAuthHandler_MeWithoutToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeWithRefreshToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	pair, err := env.tokenService.IssuePair(user.ID)
	require.NoError(t, err)

	// A refresh token must not pass as an access token.
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
