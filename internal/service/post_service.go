package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/logging"
	"linkboard/internal/model"
	"linkboard/internal/repository"
	"linkboard/internal/storage"
)

// PostInput carries the editable text fields of a post.
type PostInput struct {
	Title       string
	Description string
	URLName     string
	URL         string
}

// PostList is every post with its owner and the total.
type PostList struct {
	TotalPosts int          `json:"totalPosts"`
	Posts      []model.Post `json:"posts"`
}

// PostSummaryList is the title/description projection of every post.
type PostSummaryList struct {
	TotalPosts int                 `json:"totalPosts"`
	Posts      []model.PostSummary `json:"posts"`
}

// PostService manages the post lifecycle and its approval state.
type PostService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in PostInput, image *storage.Asset) (*model.Post, error)
	List(ctx context.Context) (*PostList, error)
	ListProjection(ctx context.Context) (*PostSummaryList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, in PostInput, image *storage.Asset) (*model.Post, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	SetApproval(ctx context.Context, id uuid.UUID, approval model.Approval) (*model.Post, error)
}

type postService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	assets storage.AssetHost
	log    logging.Logger
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, assets storage.AssetHost, log logging.Logger) PostService {
	return &postService{
		posts:  posts,
		users:  users,
		assets: assets,
		log:    log.With("component", "posts"),
	}
}

// Create stores the image and inserts a new unapproved post for ownerID.
// The quota is checked up front to avoid a pointless upload and again,
// atomically, when the row is inserted.
func (s *postService) Create(ctx context.Context, ownerID uuid.UUID, in PostInput, image *storage.Asset) (*model.Post, error) {
	count, err := s.posts.CountByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if count >= int64(owner.Limit) {
		return nil, apperrors.ErrQuotaExceeded
	}

	if err := validateNewPost(in, image); err != nil {
		return nil, err
	}

	url, err := s.upload(ctx, image)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:       in.Title,
		Description: in.Description,
		Image:       url,
		URLName:     in.URLName,
		URL:         in.URL,
		UserID:      ownerID,
		Approval:    model.ApprovalUnapproved,
	}
	if err := s.posts.CreateWithinQuota(ctx, post); err != nil {
		releaseAsset(ctx, s.assets, s.log, post.ID, url)
		if errors.Is(err, apperrors.ErrQuotaExceeded) || errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info(ctx, "post created", "post_id", post.ID, "user_id", ownerID)
	return post, nil
}

// List fails with ErrNoPosts when there is nothing to list.
func (s *postService) List(ctx context.Context) (*PostList, error) {
	posts, err := s.posts.ListWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, apperrors.ErrNoPosts
	}
	return &PostList{TotalPosts: len(posts), Posts: posts}, nil
}

// ListProjection fails with ErrNoPosts when there is nothing to list.
func (s *postService) ListProjection(ctx context.Context) (*PostSummaryList, error) {
	summaries, err := s.posts.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list post summaries: %w", err)
	}
	if len(summaries) == 0 {
		return nil, apperrors.ErrNoPosts
	}
	return &PostSummaryList{TotalPosts: len(summaries), Posts: summaries}, nil
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// Update applies the non-empty fields of in. A new image replaces the old
// one, which is released from the asset host first.
func (s *postService) Update(ctx context.Context, actor *model.User, id uuid.UUID, in PostInput, image *storage.Asset) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, post) {
		return nil, apperrors.ErrForbidden
	}

	if image != nil {
		if err := validateImage(image); err != nil {
			return nil, err
		}
		releaseAsset(ctx, s.assets, s.log, post.ID, post.Image)
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Description != "" {
		post.Description = in.Description
	}
	if in.URLName != "" {
		post.URLName = in.URLName
	}
	if in.URL != "" {
		post.URL = in.URL
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete releases the post image and removes the post.
func (s *postService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, post) {
		return apperrors.ErrForbidden
	}

	releaseAsset(ctx, s.assets, s.log, post.ID, post.Image)

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info(ctx, "post deleted", "post_id", id)
	return nil
}

// SetApproval moves a post between approved and unapproved. Setting the
// status a post already has is a successful no-op.
func (s *postService) SetApproval(ctx context.Context, id uuid.UUID, approval model.Approval) (*model.Post, error) {
	if !approval.Valid() {
		return nil, apperrors.Validation("approval must be approved or unapproved")
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Approval == approval {
		return post, nil
	}

	post.Approval = approval
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("set approval: %w", err)
	}
	s.log.Info(ctx, "post approval changed", "post_id", id, "approval", approval)
	return post, nil
}

func (s *postService) upload(ctx context.Context, image *storage.Asset) (string, error) {
	url, err := s.assets.Upload(ctx, image)
	if err != nil {
		s.log.Error(ctx, "image upload failed", "image", image.Name, "error", err)
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	if url == "" {
		return "", apperrors.ErrUploadFailed
	}
	return url, nil
}

func canModify(actor *model.User, post *model.Post) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == post.UserID
}

func validateNewPost(in PostInput, image *storage.Asset) error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if image == nil {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(in.URLName) == "" {
		missing = append(missing, "url_name")
	}
	if strings.TrimSpace(in.URL) == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return apperrors.Validation("Please provide all required fields: " + strings.Join(missing, ", "))
	}
	return validateImage(image)
}

func validateImage(image *storage.Asset) error {
	if image.ContentType != "" && !strings.HasPrefix(image.ContentType, "image/") {
		return apperrors.Validation("image must be an image file")
	}
	return nil
}
