package category

import (
	"context"
	"net/url"

	"buildmart-gateway/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for categories.
type Service interface {
	ListCategories(ctx context.Context, query url.Values, auth string) ([]Node, error)
	GetCategoryBySlug(ctx context.Context, slug string, query url.Values, auth string) (*SlugResult, error)
	GetCategory(ctx context.Context, id string, auth string) (*Passthrough, error)
	CreateCategory(ctx context.Context, body Payload, auth string) (*Passthrough, error)
	UpdateCategory(ctx context.Context, id string, body Payload, auth string) (*Passthrough, error)
	DeleteCategory(ctx context.Context, id string, auth string) (*Passthrough, error)
}

type service struct {
	repo      Repository
	hierarchy Hierarchy
}

// NewService creates a category service grouping listings by h. h is only
// read, so one value may back many services.
func NewService(repo Repository, h Hierarchy) Service {
	return &service{repo: repo, hierarchy: h}
}

// ListCategories fetches the flat list and returns it as a display tree.
func (s *service) ListCategories(ctx context.Context, query url.Values, auth string) ([]Node, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListCategories"),
	)
	log.Info("ListCategories started")

	records, err := s.repo.ListCategories(ctx, query, auth)
	if err != nil {
		log.Error("failed to list categories", zap.Error(err))
		return nil, err
	}

	nodes := BuildTree(records, s.hierarchy)

	log.Info("ListCategories success",
		zap.Int("records", len(records)),
		zap.Int("roots", len(nodes)),
	)
	return nodes, nil
}

// GetCategoryBySlug finds a category anywhere in the display tree. Roots
// come back with their subcategories.
func (s *service) GetCategoryBySlug(ctx context.Context, slug string, query url.Values, auth string) (*SlugResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCategoryBySlug"),
		zap.String("slug", slug),
	)
	log.Info("GetCategoryBySlug started")

	if slug == "" {
		return nil, ErrSlugRequired
	}

	nodes, err := s.ListCategories(ctx, query, auth)
	if err != nil {
		return nil, err
	}

	for _, n := range nodes {
		if n.Slug == slug {
			// orphans are listed at the top level but still have a parent
			if n.ParentID != nil {
				log.Info("GetCategoryBySlug success", zap.Bool("is_root", false))
				return &SlugResult{Category: n.Record, Subcategories: []Record{}}, nil
			}
			log.Info("GetCategoryBySlug success", zap.Bool("is_root", true))
			return &SlugResult{Category: n.Record, IsRoot: true, Subcategories: n.Subcategories}, nil
		}
		for _, sub := range n.Subcategories {
			if sub.Slug == slug {
				log.Info("GetCategoryBySlug success", zap.Bool("is_root", false))
				return &SlugResult{Category: sub, Subcategories: []Record{}}, nil
			}
		}
	}

	log.Warn("category slug not found")
	return nil, ErrCategoryNotFound
}

func (s *service) GetCategory(ctx context.Context, id string, auth string) (*Passthrough, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCategory"),
		zap.String("category_id", id),
	)

	res, err := s.repo.GetCategory(ctx, id, auth)
	if err != nil {
		log.Error("failed to get category", zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (s *service) CreateCategory(ctx context.Context, body Payload, auth string) (*Passthrough, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCategory"),
		zap.String("content_type", body.ContentType),
	)
	log.Info("CreateCategory started")

	res, err := s.repo.CreateCategory(ctx, body, auth)
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	log.Info("CreateCategory success", zap.Int("status", res.Status))
	return res, nil
}

func (s *service) UpdateCategory(ctx context.Context, id string, body Payload, auth string) (*Passthrough, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateCategory"),
		zap.String("category_id", id),
	)
	log.Info("UpdateCategory started")

	res, err := s.repo.UpdateCategory(ctx, id, body, auth)
	if err != nil {
		log.Error("failed to update category", zap.Error(err))
		return nil, err
	}

	log.Info("UpdateCategory success", zap.Int("status", res.Status))
	return res, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string, auth string) (*Passthrough, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCategory"),
		zap.String("category_id", id),
	)
	log.Info("DeleteCategory started")

	res, err := s.repo.DeleteCategory(ctx, id, auth)
	if err != nil {
		log.Error("failed to delete category", zap.Error(err))
		return nil, err
	}

	log.Info("DeleteCategory success", zap.Int("status", res.Status))
	return res, nil
}
