package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subcategory belongs to exactly one category. The (name, category_id)
// pair is unique across the catalog.
type Subcategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_subcategories_name_category" json:"name"`
	Slug        string    `gorm:"index" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"not null" json:"image"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_subcategories_name_category" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:SubcategoryID" json:"products,omitempty"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
