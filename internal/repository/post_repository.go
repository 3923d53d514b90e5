package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	// CreateWithinQuota inserts post only if its owner is still below their
	// limit. The owner row is locked for the duration of the check.
	CreateWithinQuota(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListWithOwner(ctx context.Context) ([]model.Post, error)
	ListSummaries(ctx context.Context) ([]model.PostSummary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Post, error)
	ListByApproval(ctx context.Context, approval model.Approval) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreateWithinQuota(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", post.UserID).
			First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Post{}).Where("user_id = ?", post.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(owner.Limit) {
			return apperrors.ErrQuotaExceeded
		}

		return tx.Create(post).Error
	})
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListWithOwner returns every post with its owner loaded.
func (r *postRepository) ListWithOwner(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListSummaries(ctx context.Context) ([]model.PostSummary, error) {
	var summaries []model.PostSummary
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Select("id", "title", "description").
		Order("created_at").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByApproval(ctx context.Context, approval model.Approval) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("approval = ?", approval).Order("created_at").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
