package service

import (
	"context"
	"fmt"

	"linkboard/internal/model"
	"linkboard/internal/repository"
)

// ApprovedFeed is the public projection of approved posts.
type ApprovedFeed struct {
	PostCount int          `json:"postCount"`
	Posts     []model.Post `json:"post"`
}

// PluginService serves the unauthenticated feed embedded by third-party sites.
type PluginService interface {
	AllApproved(ctx context.Context) (*ApprovedFeed, error)
}

type pluginService struct {
	posts repository.PostRepository
}

// NewPluginService creates a new plugin service.
func NewPluginService(posts repository.PostRepository) PluginService {
	return &pluginService{posts: posts}
}

// AllApproved never fails on an empty feed.
func (s *pluginService) AllApproved(ctx context.Context) (*ApprovedFeed, error) {
	posts, err := s.posts.ListByApproval(ctx, model.ApprovalApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return &ApprovedFeed{PostCount: len(posts), Posts: posts}, nil
}
