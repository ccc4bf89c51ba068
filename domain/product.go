package domain

import (
	"time"
)

// CREATE TABLE public.products (
//
//	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//	vendor_id       BIGINT NULL REFERENCES users(id),
//	category_id     BIGINT NULL REFERENCES categories(id),
//	brand_id        BIGINT NULL REFERENCES brands(id),
//	name            TEXT NOT NULL,
//	unit            TEXT,
//	price           NUMERIC NOT NULL,
//	stock           BIGINT DEFAULT 0,
//	avg_rating      NUMERIC DEFAULT 0,
//	review_count    BIGINT DEFAULT 0,
//	created_at      TIMESTAMPTZ DEFAULT NOW(),
//	updated_at      TIMESTAMPTZ DEFAULT NOW()
//
// );
//
// A NULL vendor_id marks a company-owned product. avg_rating and review_count
// are recomputed whenever a review is written.
type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    *uint     `gorm:"column:vendor_id;index" json:"vendor_id"`
	CategoryID  *uint64   `gorm:"column:category_id;index" json:"category_id"`
	BrandID     *uint64   `gorm:"column:brand_id;index" json:"brand_id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Unit        string    `gorm:"column:unit;type:text" json:"unit"`
	Price       float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	Stock       int       `gorm:"column:stock;default:0" json:"stock"`
	AvgRating   float64   `gorm:"column:avg_rating;type:numeric;default:0" json:"avg_rating"`
	ReviewCount int       `gorm:"column:review_count;default:0" json:"review_count"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
