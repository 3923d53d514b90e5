package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"linkboard/internal/auth"
	"linkboard/internal/model"
	"linkboard/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   service.AuthService
	cookieTTL     time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. Cookies are marked Secure when
// secureCookies is set, which the server does in production.
func NewAuthHandler(authService service.AuthService, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Limit    int    `json:"limit" validate:"gte=0"`
	Role     int    `json:"role" validate:"oneof=0 1"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserEnvelope wraps a public user.
type UserEnvelope struct {
	User model.PublicUser `json:"user"`
}

// LoginResponse carries the public user and the issued token.
type LoginResponse struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Description Admin only. Creates an account with a post limit and role.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ApiResponse{data=UserEnvelope}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req, ""); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Limit:    req.Limit,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, UserEnvelope{User: user.Public()}, "User registered successfully")
}

// Login godoc
// @Summary Login user
// @Description Sets the httpOnly jwt cookie and also returns the token for bearer use.
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} ApiResponse{data=LoginResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req, "Please provide email and password"); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(auth.SessionCookie(token, h.cookieTTL, h.secureCookies))
	return respond(c, http.StatusOK, LoginResponse{User: user.Public(), Token: token}, "User logged in successfully")
}

// Logout godoc
// @Summary Logout user
// @Description Overwrites the jwt cookie with an expired sentinel and revokes the presented token.
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.LogoutCookie(h.secureCookies))
	if err := h.authService.Logout(c.Request().Context(), auth.CurrentClaims(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "User logged out successfully")
}
