package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string       `gorm:"not null;index" json:"name"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Price         float64      `gorm:"not null" json:"price"`
	Stock         int          `gorm:"default:0" json:"stock"`
	Image         string       `gorm:"not null" json:"image"`
	CategoryID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubcategoryID uuid.UUID    `gorm:"type:uuid;not null;index" json:"subcategory_id"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	CreatedByID   *uuid.UUID   `gorm:"type:uuid" json:"created_by,omitempty"`

	// Aggregates derived from the reviews table; recomputed on every
	// review write inside the same transaction.
	NumReviews    int     `gorm:"default:0" json:"num_reviews"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`

	Reviews   []Review  `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
