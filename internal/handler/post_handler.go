package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"linkboard/internal/auth"
	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
	"linkboard/internal/service"
	"linkboard/internal/storage"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostForm is the multipart form accepted by create and update.
type PostForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	URLName     string `form:"url_name"`
	URL         string `form:"url"`
}

func (f PostForm) input() service.PostInput {
	return service.PostInput{
		Title:       f.Title,
		Description: f.Description,
		URLName:     f.URLName,
		URL:         f.URL,
	}
}

// CreatePost godoc
// @Summary Create a post
// @Description Uploads the image to the asset host and stores an unapproved post. Fails once the caller reaches their post limit.
// @Tags post
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param url_name formData string true "Link label"
// @Param url formData string true "Link target"
// @Param image formData file true "Image"
// @Success 201 {object} ApiResponse{data=model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /post/ [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperrors.ErrUnauthenticated
	}
	var form PostForm
	if err := c.Bind(&form); err != nil {
		return apperrors.Validation("invalid form body")
	}
	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	post, err := h.postService.Create(c.Request().Context(), user.ID, form.input(), image)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, post, "Post created successfully")
}

// ListPosts godoc
// @Summary List every post with its owner
// @Tags post
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse{data=service.PostList}
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/ [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	list, err := h.postService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Posts fetched successfully")
}

// ListSummaries godoc
// @Summary List post titles and descriptions
// @Tags post
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse{data=service.PostSummaryList}
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/summaries [get]
func (h *PostHandler) ListSummaries(c echo.Context) error {
	list, err := h.postService.ListProjection(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Posts fetched successfully")
}

// GetPost godoc
// @Summary Get a post
// @Tags post
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} ApiResponse{data=model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/specificId/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "post")
	if err != nil {
		return err
	}
	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post, "Post fetched successfully")
}

// UpdatePost godoc
// @Summary Update a post
// @Description Owner or admin. Empty fields are kept; a new image replaces the old one.
// @Tags post
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param url_name formData string false "Link label"
// @Param url formData string false "Link target"
// @Param image formData file false "Image"
// @Success 200 {object} ApiResponse{data=model.Post}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := pathID(c, "post")
	if err != nil {
		return err
	}
	var form PostForm
	if err := c.Bind(&form); err != nil {
		return apperrors.Validation("invalid form body")
	}
	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	post, err := h.postService.Update(c.Request().Context(), auth.CurrentUser(c), id, form.input(), image)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post, "Post updated successfully")
}

// DeletePost godoc
// @Summary Delete a post
// @Description Owner or admin. Releases the image from the asset host.
// @Tags post
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} ApiResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := pathID(c, "post")
	if err != nil {
		return err
	}
	if err := h.postService.Delete(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Post deleted successfully")
}

// ApprovePost godoc
// @Summary Approve a post
// @Tags post
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} ApiResponse{data=model.Post}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/userPostApproved/{id} [put]
func (h *PostHandler) ApprovePost(c echo.Context) error {
	return h.setApproval(c, model.ApprovalApproved, "Post approval updated to approved")
}

// UnapprovePost godoc
// @Summary Unapprove a post
// @Tags post
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} ApiResponse{data=model.Post}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/userPostUnapproved/{id} [put]
func (h *PostHandler) UnapprovePost(c echo.Context) error {
	return h.setApproval(c, model.ApprovalUnapproved, "Post unapproved successfully")
}

func (h *PostHandler) setApproval(c echo.Context, approval model.Approval, message string) error {
	id, err := pathID(c, "post")
	if err != nil {
		return err
	}
	post, err := h.postService.SetApproval(c.Request().Context(), id, approval)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post, message)
}

// formImage returns the optional "image" upload. The returned func closes
// the opened file and is always safe to call.
func formImage(c echo.Context) (*storage.Asset, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperrors.Validation("invalid image upload")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperrors.Validation("invalid image upload")
	}
	return &storage.Asset{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
