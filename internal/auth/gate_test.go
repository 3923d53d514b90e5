package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockUserFinder is a mock implementation of UserFinder.
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type gateFixture struct {
	tokens *JWTService
	store  *MockTokenStore
	users  *MockUserFinder
	gate   *Gate
	user   *model.User
	token  string
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{
		tokens: NewJWTService("test-secret", time.Hour),
		store:  new(MockTokenStore),
		users:  new(MockUserFinder),
		user:   &model.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", Role: model.RoleStandard},
	}
	f.gate = NewGate(f.tokens, f.store, f.users)
	token, _, err := f.tokens.Issue(f.user.ID)
	require.NoError(t, err)
	f.token = token
	return f
}

func serve(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestGate_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		request    func(f *gateFixture) *http.Request
		setup      func(f *gateFixture)
		wantErr    error
		wantCalled bool
	}{
		{
			name: "no token",
			request: func(f *gateFixture) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/", nil)
			},
			wantErr: apperrors.ErrUnauthenticated,
		},
		{
			name: "bearer header",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
				return req
			},
			setup: func(f *gateFixture) {
				f.store.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(false, nil)
				f.users.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
			},
			wantCalled: true,
		},
		{
			name: "cookie",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: CookieName, Value: f.token})
				return req
			},
			setup: func(f *gateFixture) {
				f.store.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(false, nil)
				f.users.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
			},
			wantCalled: true,
		},
		{
			name: "logout cookie wins over valid header",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: CookieName, Value: LogoutSentinel})
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
				return req
			},
			wantErr: apperrors.ErrUnauthenticated,
		},
		{
			name: "logout sentinel as bearer",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+LogoutSentinel)
				return req
			},
			wantErr: apperrors.ErrUnauthenticated,
		},
		{
			name: "header without bearer scheme",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, f.token)
				return req
			},
			wantErr: apperrors.ErrUnauthenticated,
		},
		{
			name: "expired token",
			request: func(f *gateFixture) *http.Request {
				expired, _, _ := NewJWTService("test-secret", -time.Minute).Issue(f.user.ID)
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
				return req
			},
			wantErr: apperrors.ErrTokenExpired,
		},
		{
			name: "foreign signature",
			request: func(f *gateFixture) *http.Request {
				foreign, _, _ := NewJWTService("other", time.Hour).Issue(f.user.ID)
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+foreign)
				return req
			},
			wantErr: apperrors.ErrTokenSignature,
		},
		{
			name: "malformed token",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc.def"})
				return req
			},
			wantErr: apperrors.ErrTokenMalformed,
		},
		{
			name: "revoked token",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
				return req
			},
			setup: func(f *gateFixture) {
				f.store.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(true, nil)
			},
			wantErr: apperrors.ErrUnauthenticated,
		},
		{
			name: "subject deleted",
			request: func(f *gateFixture) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
				return req
			},
			setup: func(f *gateFixture) {
				f.store.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(false, nil)
				f.users.On("FindByID", mock.Anything, f.user.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			c, called, err := serve(t, f.gate.Authenticate(), tt.request(f))

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, CurrentUser(c))
			} else {
				require.NoError(t, err)
				assert.Equal(t, f.user, CurrentUser(c))
				require.NotNil(t, CurrentClaims(c))
				assert.Equal(t, f.user.ID.String(), CurrentClaims(c).Subject)
			}
			f.users.AssertExpectations(t)
		})
	}
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	f := newGateFixture(t)
	f.store.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByID", mock.Anything, f.user.ID).Return(nil, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
	_, called, err := serve(t, f.gate.Authenticate(), req)

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, apperrors.MapErrorToHTTP(err).StatusCode)
}

func TestAuthorize(t *testing.T) {
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	standard := &model.User{ID: uuid.New(), Role: model.RoleStandard}

	tests := []struct {
		name       string
		user       *model.User
		wantErr    error
		wantCalled bool
	}{
		{"admin allowed", admin, nil, true},
		{"standard forbidden", standard, apperrors.ErrForbidden, false},
		{"without authentication", nil, apperrors.ErrUnauthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.user != nil {
				c.Set(userContextKey, tt.user)
			}
			called := false
			err := Authorize(model.RoleAdmin)(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCookies(t *testing.T) {
	session := SessionCookie("tok", 24*time.Hour, true)
	assert.Equal(t, CookieName, session.Name)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.True(t, session.Expires.After(time.Now().Add(23*time.Hour)))

	logout := LogoutCookie(false)
	assert.Equal(t, LogoutSentinel, logout.Value)
	assert.False(t, logout.Expires.After(time.Now()))
}
