package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
)

const (
	// CookieName is the cookie carrying the session token.
	CookieName = "jwt"
	// LogoutSentinel replaces the cookie value on logout and never authenticates.
	LogoutSentinel = "logout"

	claimsContextKey = "auth.claims"
	userContextKey   = "auth.user"
)

var errNoToken = errors.New("no token in cookie or authorization header")

// UserFinder resolves the subject of a verified token.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Gate authenticates requests and attaches the caller to the echo context.
type Gate struct {
	tokens *JWTService
	store  TokenStoreInterface
	users  UserFinder
}

// NewGate builds an authentication gate.
func NewGate(tokens *JWTService, store TokenStoreInterface, users UserFinder) *Gate {
	return &Gate{tokens: tokens, store: store, users: users}
}

// Authenticate returns middleware that requires a valid token whose subject
// still exists.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		// extractToken already prefers the cookie; the trailing cookie lookup
		// keeps echo-jwt from falling back to the header when the cookie
		// holds a rejected token such as the logout sentinel.
		TokenLookupFuncs: []middleware.ValuesExtractor{extractToken},
		TokenLookup:      "cookie:" + CookieName,
		ParseTokenFunc:   g.parseToken,
		ErrorHandler:     authError,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(g.resolveUser(next))
	}
}

func extractToken(c echo.Context) ([]string, error) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return []string{cookie.Value}, nil
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
		return []string{strings.TrimSpace(token)}, nil
	}
	return nil, errNoToken
}

func (g *Gate) parseToken(c echo.Context, raw string) (interface{}, error) {
	if raw == LogoutSentinel {
		return nil, apperrors.ErrUnauthenticated
	}
	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := g.store.IsTokenRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrUnauthenticated
	}
	return claims, nil
}

func authError(c echo.Context, err error) error {
	for _, known := range []error{
		apperrors.ErrTokenExpired,
		apperrors.ErrTokenSignature,
		apperrors.ErrTokenMalformed,
		apperrors.ErrUnauthenticated,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	return apperrors.ErrUnauthenticated
}

func (g *Gate) resolveUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsContextKey).(*Claims)
		if !ok {
			return apperrors.ErrUnauthenticated
		}
		userID, err := claims.UserID()
		if err != nil {
			return apperrors.ErrTokenMalformed
		}

		user, err := g.users.FindByID(c.Request().Context(), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("resolve user %s: %w", userID, err)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// Authorize returns middleware admitting only users holding one of roles.
// It must run after Authenticate.
func Authorize(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.ErrUnauthenticated
			}
			if !slices.Contains(roles, user.Role) {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil outside the gate.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// CurrentClaims returns the verified token claims, or nil outside the gate.
func CurrentClaims(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}

// SessionCookie builds the httpOnly cookie set on login.
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// LogoutCookie overwrites the session cookie with the sentinel and expires it.
func LogoutCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    LogoutSentinel,
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
