package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/service/auth"
	"github.com/aibrochure/brochure-api/internal/store"
)

type mockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(_ *sql.Tx) store.UserStore { return m }

type mockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "access-token", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return "refresh-token", nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

type mockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Parallel()

	var created *domain.User
	users := &mockUserStore{
		CreateFn: func(_ context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	handler := NewAuthHandler(users, &mockJWTService{}, &mockPasswordVerifier{}, nil)

	body := bytes.NewBufferString(`{"email":"guest@example.com","password":"a-long-enough-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "guest@example.com", created.Email)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.UserID)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
}

func TestRegister_ValidationError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"email":`},
		{name: "missing email", body: `{"password":"a-long-enough-password"}`},
		{name: "invalid email", body: `{"email":"nope","password":"a-long-enough-password"}`},
		{name: "short password", body: `{"email":"guest@example.com","password":"short"}`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_EmailExists(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{
		CreateFn: func(_ context.Context, _ *domain.User) error {
			return store.ErrEmailExists
		},
	}
	handler := NewAuthHandler(users, &mockJWTService{}, &mockPasswordVerifier{}, nil)

	body := bytes.NewBufferString(`{"email":"guest@example.com","password":"a-long-enough-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &mockUserStore{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: email, HashedPassword: "hashed"}, nil
		},
	}
	verifier := &mockPasswordVerifier{
		CompareFn: func(hashedPassword, password string) error {
			assert.Equal(t, "hashed", hashedPassword)
			assert.Equal(t, "a-long-enough-password", password)
			return nil
		},
	}
	handler := NewAuthHandler(users, &mockJWTService{}, verifier, nil)

	body := bytes.NewBufferString(`{"email":"guest@example.com","password":"a-long-enough-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{}, nil)

		body := bytes.NewBufferString(`{"email":"guest@example.com","password":"whatever-pass"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		users := &mockUserStore{
			GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
				return &domain.User{ID: uuid.New(), Email: email, HashedPassword: "hashed"}, nil
			},
		}
		verifier := &mockPasswordVerifier{
			CompareFn: func(_, _ string) error {
				return auth.ErrInvalidToken // any non-nil error
			},
		}
		handler := NewAuthHandler(users, &mockJWTService{}, verifier, nil)

		body := bytes.NewBufferString(`{"email":"guest@example.com","password":"wrong-password"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &mockJWTService{
		ValidateRefreshTokenFn: func(_ context.Context, tokenString string) (*auth.Claims, error) {
			assert.Equal(t, "old-refresh", tokenString)
			return &auth.Claims{UserID: userID, TokenType: "refresh"}, nil
		},
	}
	handler := NewAuthHandler(&mockUserStore{}, jwt, &mockPasswordVerifier{}, nil)

	body := bytes.NewBufferString(`{"refresh_token":"old-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", body)
	rec := httptest.NewRecorder()
	handler.RefreshToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
}

func TestRefreshToken_Invalid(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{}, nil)

	body := bytes.NewBufferString(`{"refresh_token":"expired"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", body)
	rec := httptest.NewRecorder()
	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
