package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tcdw/cms/internal/auth"
	"github.com/tcdw/cms/internal/cache"
	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// CreatePostInput carries validated post creation fields with defaults applied.
type CreatePostInput struct {
	Title         string
	Slug          string
	Content       string
	ContentType   model.ContentType
	Excerpt       string
	Status        model.PostStatus
	FeaturedImage string
	CategoryIDs   []uint
}

// UpdatePostInput carries a partial post update; nil fields are left untouched.
type UpdatePostInput struct {
	Title         *string
	Slug          *string
	Content       *string
	ContentType   *model.ContentType
	Excerpt       *string
	Status        *model.PostStatus
	FeaturedImage *string
	CategoryIDs   *[]uint
}

// PostService handles post CRUD with the owner-or-admin rule on mutation.
type PostService interface {
	List(ctx context.Context, filter repository.PostFilter) ([]model.Post, int64, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, caller *auth.Claims, in CreatePostInput) (*model.Post, error)
	Update(ctx context.Context, caller *auth.Claims, id uint, in UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, caller *auth.Claims, id uint) error
}

type postService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	cache      *cache.Client
}

// NewPostService builds a PostService with repositories and cache.
func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, cache *cache.Client) PostService {
	return &postService{
		posts:      posts,
		categories: categories,
		cache:      cache,
	}
}

func postCacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, int64, error) {
	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal()
	}
	return posts, total, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	var cached model.Post
	if s.cache.GetJSON(ctx, postCacheKey(id), &cached) {
		return &cached, nil
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}

	s.cache.SetJSON(ctx, postCacheKey(id), post, postCacheTTL)
	return post, nil
}

// Create inserts a post owned by the caller. The slug must be unused and all
// referenced categories must exist.
func (s *postService) Create(ctx context.Context, caller *auth.Claims, in CreatePostInput) (*model.Post, error) {
	if _, err := s.posts.FindBySlug(ctx, in.Slug); err == nil {
		return nil, apperr.Conflict("slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal()
	}

	categories, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:         in.Title,
		Slug:          in.Slug,
		Content:       in.Content,
		ContentType:   in.ContentType,
		Excerpt:       in.Excerpt,
		Status:        in.Status,
		FeaturedImage: in.FeaturedImage,
		AuthorID:      caller.UserID,
		Categories:    categories,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}

	created, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return nil, apperr.Internal()
	}
	return created, nil
}

// Update applies a partial update. Only the author or an admin may mutate a
// post; if a category list is supplied the associations are replaced wholesale.
func (s *postService) Update(ctx context.Context, caller *auth.Claims, id uint, in UpdatePostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}
	if !canMutatePost(caller, post) {
		return nil, apperr.Forbidden("you may only modify your own posts")
	}

	if in.Slug != nil && *in.Slug != post.Slug {
		if _, err := s.posts.FindBySlug(ctx, *in.Slug); err == nil {
			return nil, apperr.Conflict("slug already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal()
		}
		post.Slug = *in.Slug
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.ContentType != nil {
		post.ContentType = *in.ContentType
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Status != nil {
		post.Status = *in.Status
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}

	if in.CategoryIDs != nil {
		categories, err := s.resolveCategories(ctx, *in.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.posts.ReplaceCategories(ctx, post.ID, categories); err != nil {
			return nil, apperr.Internal()
		}
	}

	_ = s.cache.Delete(ctx, postCacheKey(id))

	updated, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal()
	}
	return updated, nil
}

// Delete removes a post under the owner-or-admin rule.
func (s *postService) Delete(ctx context.Context, caller *auth.Claims, id uint) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return apperr.FromStore(err, "post not found")
	}
	if !canMutatePost(caller, post) {
		return apperr.Forbidden("you may only delete your own posts")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return apperr.FromStore(err, "post not found")
	}
	_ = s.cache.Delete(ctx, postCacheKey(id))
	return nil
}

func (s *postService) resolveCategories(ctx context.Context, ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal()
	}
	if len(categories) != len(ids) {
		return nil, apperr.RuleViolation("one or more categories do not exist")
	}
	return categories, nil
}

// canMutatePost implements the owner-or-admin rule.
func canMutatePost(caller *auth.Claims, post *model.Post) bool {
	return caller.Role == model.RoleAdmin || post.AuthorID == caller.UserID
}
