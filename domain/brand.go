package domain

import "time"

// CREATE TABLE public.brands (
//
//	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//	name            TEXT NOT NULL UNIQUE,
//	description     TEXT,
//	created_at      TIMESTAMPTZ DEFAULT NOW(),
//	updated_at      TIMESTAMPTZ DEFAULT NOW()
//
// );
type Brand struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Brand) TableName() string {
	return "brands"
}
