package model

import "time"

// Category groups posts by topic. Categories are flat (no hierarchy) and may
// only be mutated by admins.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"size:500"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// PostCount is computed by the repository layer; it is never written.
	PostCount int64 `json:"postCount" gorm:"->;-:migration"`
}
