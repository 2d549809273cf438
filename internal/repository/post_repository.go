package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tcdw/cms/internal/model"
)

// PostFilter describes a filtered, sorted, paginated post listing. All filters
// are conjunctive; zero values mean "no filter".
type PostFilter struct {
	Status     string
	AuthorID   uint
	CategoryID uint
	Search     string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// sortColumns is the allow-list of sortable columns. Anything else falls back
// to created_at.
var sortColumns = map[string]string{
	"id":         "posts.id",
	"title":      "posts.title",
	"created_at": "posts.created_at",
	"updated_at": "posts.updated_at",
}

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, filter PostFilter) ([]model.Post, int64, error)
	Update(ctx context.Context, post *model.Post) error
	ReplaceCategories(ctx context.Context, postID uint, categories []model.Category) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and its category associations in one statement
// sequence; gorm wraps the association inserts in a transaction.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts plus the unpaginated total. Search terms are
// tokenized on whitespace; each token must match title or content.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{})

	if filter.Status != "" {
		q = q.Where("posts.status = ?", filter.Status)
	}
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != 0 {
		q = q.Joins("JOIN post_categories ON post_categories.post_id = posts.id").
			Where("post_categories.category_id = ?", filter.CategoryID)
	}
	for _, token := range strings.Fields(filter.Search) {
		pattern := "%" + token + "%"
		q = q.Where("(posts.title LIKE ? OR posts.content LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "posts.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	posts := make([]model.Post, 0)
	err := q.Order(column + " " + direction).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Preload("Author").
		Preload("Categories").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Categories").Save(post).Error
}

// ReplaceCategories swaps the post's category associations wholesale:
// delete-then-insert inside a transaction, so a crash can never leave a
// partial association set.
func (r *postRepository) ReplaceCategories(ctx context.Context, postID uint, categories []model.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", postID).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}
		post := model.Post{ID: postID}
		return tx.Model(&post).Association("Categories").Append(&categories)
	})
}

// Delete removes the post's association rows before the post row itself so
// the foreign keys stay consistent.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
