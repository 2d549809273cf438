package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
)

// CategoryInput carries validated category fields.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// UpdateCategoryInput carries a partial category update.
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
}

// CategoryService handles category CRUD. Role gating happens in routing; the
// service enforces uniqueness and the in-use deletion guard.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uint, in UpdateCategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperr.Internal()
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "category not found")
	}
	return category, nil
}

// Create inserts a category. Name and slug must both be unused.
func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := s.checkNameFree(ctx, in.Name); err != nil {
		return nil, err
	}
	if err := s.checkSlugFree(ctx, in.Slug); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperr.FromStore(err, "category not found")
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, in UpdateCategoryInput) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "category not found")
	}

	if in.Name != nil && *in.Name != category.Name {
		if err := s.checkNameFree(ctx, *in.Name); err != nil {
			return nil, err
		}
		category.Name = *in.Name
	}
	if in.Slug != nil && *in.Slug != category.Slug {
		if err := s.checkSlugFree(ctx, *in.Slug); err != nil {
			return nil, err
		}
		category.Slug = *in.Slug
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperr.FromStore(err, "category not found")
	}
	return category, nil
}

// Delete refuses to remove a category while any post still references it.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return apperr.FromStore(err, "category not found")
	}

	count, err := s.categories.CountPosts(ctx, id)
	if err != nil {
		return apperr.Internal()
	}
	if count > 0 {
		return apperr.RuleViolation("cannot delete a category with associated posts")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return apperr.FromStore(err, "category not found")
	}
	return nil
}

func (s *categoryService) checkNameFree(ctx context.Context, name string) error {
	if _, err := s.categories.FindByName(ctx, name); err == nil {
		return apperr.Conflict("category name already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal()
	}
	return nil
}

func (s *categoryService) checkSlugFree(ctx context.Context, slug string) error {
	if _, err := s.categories.FindBySlug(ctx, slug); err == nil {
		return apperr.Conflict("category slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal()
	}
	return nil
}
