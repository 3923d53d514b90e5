package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"linkboard/internal/auth"
	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
	"linkboard/internal/service"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a partial user update. Omitted fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Limit    *int    `json:"limit" validate:"omitempty,gte=0"`
	Role     *int    `json:"role" validate:"omitempty,oneof=0 1"`
}

// UserList is the admin listing of every user.
type UserList struct {
	UserCount int          `json:"userCount"`
	Users     []model.User `json:"users"`
}

// ListUsers godoc
// @Summary List users
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse{data=UserList}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, UserList{UserCount: len(users), Users: users}, "Users fetched successfully")
}

// GetUser godoc
// @Summary Get a user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} ApiResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/getSpecificUser/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User fetched successfully")
}

// UpdateUser godoc
// @Summary Update a user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} ApiResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req, ""); err != nil {
		return err
	}

	in := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Limit:    req.Limit,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser godoc
// @Summary Delete a user and their posts
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} ApiResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "User deleted successfully")
}

// UserPosts godoc
// @Summary The caller's posts and post limit
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse{data=service.UserPosts}
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/userPost [get]
func (h *UserHandler) UserPosts(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperrors.ErrUnauthenticated
	}
	posts, err := h.userService.UserPosts(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, posts, "User posts fetched successfully")
}
