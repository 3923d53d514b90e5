package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/logging"
	"linkboard/internal/model"
	"linkboard/internal/repository"
	"linkboard/internal/storage"
)

// UpdateUserInput holds the fields an admin may change. Nil fields are left alone.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Limit    *int
	Role     *model.Role
}

// UserPosts is a user's own posts together with their quota.
type UserPosts struct {
	UserLimit int          `json:"userLimit"`
	PostCount int          `json:"postCount"`
	Posts     []model.Post `json:"usersPost"`
}

// UserService exposes user administration operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UserPosts(ctx context.Context, id uuid.UUID) (*UserPosts, error)
}

type userService struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	assets storage.AssetHost
	log    logging.Logger
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, posts repository.PostRepository, assets storage.AssetHost, log logging.Logger) UserService {
	return &userService{users: users, posts: posts, assets: assets, log: log}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		user.Name = *in.Name
	}
	if in.Email != nil && normalizeEmail(*in.Email) != "" && normalizeEmail(*in.Email) != user.Email {
		email := normalizeEmail(*in.Email)
		other, err := s.users.FindByEmail(ctx, email)
		if err == nil && other != nil && other.ID != user.ID {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if in.Limit != nil {
		if *in.Limit < 0 {
			return nil, apperrors.Validation("limit must not be negative")
		}
		user.Limit = *in.Limit
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.Validation("role must be 0 or 1")
		}
		user.Role = *in.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user and their posts, releasing every post image first.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	posts, err := s.posts.ListByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("list user posts: %w", err)
	}
	for _, p := range posts {
		releaseAsset(ctx, s.assets, s.log, p.ID, p.Image)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) UserPosts(ctx context.Context, id uuid.UUID) (*UserPosts, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return &UserPosts{
		UserLimit: user.Limit,
		PostCount: len(posts),
		Posts:     posts,
	}, nil
}

// releaseAsset deletes an image from the asset host. Failures are logged and
// otherwise ignored so a broken asset host never blocks record removal.
func releaseAsset(ctx context.Context, assets storage.AssetHost, log logging.Logger, postID uuid.UUID, url string) {
	if url == "" {
		return
	}
	if err := assets.Delete(ctx, url); err != nil {
		log.Warn(ctx, "release asset failed", "post_id", postID, "image", url, "error", err)
	}
}
