package domain

import (
	"time"
)

// DefaultServiceChargePct applies to line items whose category is missing or
// carries no usable charge.
const DefaultServiceChargePct = 10.0

// CREATE TABLE public.categories (
//
//	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//	name            TEXT NOT NULL UNIQUE,
//	parent_id       BIGINT NULL REFERENCES categories(id),
//	service_charge  NUMERIC NULL DEFAULT 10,
//	created_at      TIMESTAMPTZ DEFAULT NOW(),
//	updated_at      TIMESTAMPTZ DEFAULT NOW()
//
// );
type Category struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"column:name;type:text;uniqueIndex;not null" json:"name"`
	ParentID      *uint64   `gorm:"column:parent_id;index" json:"parent_id"`
	ServiceCharge *float64  `gorm:"column:service_charge;type:numeric" json:"service_charge"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
