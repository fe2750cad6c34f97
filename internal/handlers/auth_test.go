package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brdiniz/blower-maintenance/internal/auth"
	"github.com/brdiniz/blower-maintenance/internal/models"
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func TestAuthHandler_Login(t *testing.T) {
	authService, err := auth.NewService()
	assert.NoError(t, err)
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	passwordHash, _ := authService.HashPassword("validpassword")
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     "planner",
		PasswordHash: passwordHash,
		Role:         models.RoleSupervisor,
		IsActive:     true,
	}
	users.On("FindUserByUsername", mock.Anything, "planner").Return(user, nil)
	users.On("UpdateRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything).Return(nil)
	users.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)

	body, _ := json.Marshal(models.LoginRequest{Username: "planner", Password: "validpassword"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "planner", resp.User.Username)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	authService, _ := auth.NewService()
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	passwordHash, _ := authService.HashPassword("validpassword")
	user := &models.User{Username: "planner", PasswordHash: passwordHash, IsActive: true}
	users.On("FindUserByUsername", mock.Anything, "planner").Return(user, nil)

	body, _ := json.Marshal(models.LoginRequest{Username: "planner", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_InactiveUser(t *testing.T) {
	authService, _ := auth.NewService()
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	user := &models.User{Username: "planner", IsActive: false}
	users.On("FindUserByUsername", mock.Anything, "planner").Return(user, nil)

	body, _ := json.Marshal(models.LoginRequest{Username: "planner", Password: "whatever"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	authService, _ := auth.NewService()
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	users.On("FindUserByUsername", mock.Anything, "newtech").Return(nil, assert.AnError)
	users.On("FindUserByEmail", mock.Anything, "tech@plant.example").Return(nil, assert.AnError)
	users.On("InsertUser", mock.Anything, mock.Anything).Return(nil)
	users.On("UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(models.RegisterRequest{
		Username: "newtech",
		Email:    "tech@plant.example",
		Password: "validpassword",
		Role:     models.RoleTechnician,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	users.AssertExpectations(t)
}

func TestAuthHandler_Refresh(t *testing.T) {
	authService, _ := auth.NewService()
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     "planner",
		Role:         models.RoleSupervisor,
		IsActive:     true,
		RefreshToken: "old-refresh-token",
	}
	users.On("FindUserByRefreshToken", mock.Anything, "old-refresh-token").Return(user, nil)
	users.On("UpdateRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything).Return(nil)

	body, _ := json.Marshal(models.RefreshRequest{RefreshToken: "old-refresh-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	// Rotation: the old token must not come back.
	assert.NotEqual(t, "old-refresh-token", resp.RefreshToken)
	users.AssertExpectations(t)
}

func TestAuthHandler_Refresh_UnknownToken(t *testing.T) {
	authService, _ := auth.NewService()
	users := new(MockUserCollection)
	handler := NewAuthHandler(authService, users)

	users.On("FindUserByRefreshToken", mock.Anything, "bogus").Return(nil, assert.AnError)

	body, _ := json.Marshal(models.RefreshRequest{RefreshToken: "bogus"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	authService, _ := auth.NewService()
	handler := NewAuthHandler(authService, new(MockUserCollection))

	body, _ := json.Marshal(models.RefreshRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_InvalidRole(t *testing.T) {
	authService, _ := auth.NewService()
	handler := NewAuthHandler(authService, new(MockUserCollection))

	body, _ := json.Marshal(models.RegisterRequest{
		Username: "newtech",
		Email:    "tech@plant.example",
		Password: "validpassword",
		Role:     "mechanic",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
