package model

import "time"

// PostStatus represents the publication status of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// ContentType tags how a post body should be rendered.
type ContentType string

const (
	ContentTypeMarkdown ContentType = "markdown"
	ContentTypeHTML     ContentType = "html"
)

// Post represents a piece of content owned by exactly one author and
// optionally assigned to any number of categories.
type Post struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Title         string      `json:"title" gorm:"size:255;not null"`
	Slug          string      `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Content       string      `json:"content" gorm:"type:text;not null"`
	ContentType   ContentType `json:"contentType" gorm:"size:20;not null;default:'markdown'"`
	Excerpt       string      `json:"excerpt,omitempty" gorm:"size:500"`
	Status        PostStatus  `json:"status" gorm:"size:20;not null;default:'draft';index"`
	FeaturedImage string      `json:"featuredImage,omitempty" gorm:"size:500"`
	AuthorID      uint        `json:"authorId" gorm:"not null;index"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`

	// Relations
	Author     User       `json:"author" gorm:"foreignKey:AuthorID"`
	Categories []Category `json:"categories" gorm:"many2many:post_categories"`
}
