package models

import (
	"time"
)

// ProductImage is one entry in a product's gallery. DateCreated and
// DateModified are set by the gallery engine, never taken from client input,
// which is why they deliberately avoid GORM's CreatedAt/UpdatedAt auto-stamping.
//
// Deletion is a hard removal: there is no soft-delete column on this table.
type ProductImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"productId"`
	URL          string    `gorm:"not null" json:"url"`
	Caption      *string   `json:"caption,omitempty"`
	IsPrimary    bool      `gorm:"default:false" json:"isPrimary"`
	DisplayOrder int       `gorm:"default:0;index" json:"displayOrder"`
	Width        int       `gorm:"default:1200" json:"width"`
	Height       int       `gorm:"default:800" json:"height"`
	Rotation     int       `gorm:"default:0" json:"rotation"`
	DateCreated  time.Time `json:"dateCreated"`
	DateModified time.Time `json:"dateModified"`
}

// ProductImageSummary is the lighter projection returned by list endpoints.
// Full detail (width/height/rotation/dateModified) is only returned by
// get/create/update.
type ProductImageSummary struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"productId"`
	URL          string    `json:"url"`
	Caption      *string   `json:"caption,omitempty"`
	IsPrimary    bool      `json:"isPrimary"`
	DisplayOrder int       `json:"displayOrder"`
	DateCreated  time.Time `json:"dateCreated"`
}

// Summary converts a full record into its listing shape.
func (p ProductImage) Summary() ProductImageSummary {
	return ProductImageSummary{
		ID:           p.ID,
		ProductID:    p.ProductID,
		URL:          p.URL,
		Caption:      p.Caption,
		IsPrimary:    p.IsPrimary,
		DisplayOrder: p.DisplayOrder,
		DateCreated:  p.DateCreated,
	}
}
