package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one buyer's rating of a product. A buyer holds at most one review
// per product; posting again replaces it.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorName is filled when listing reviews.
	AuthorName string `gorm:"->;-:migration" json:"author_name,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewEligibility struct {
	CanReview       bool `json:"canReview"`
	AlreadyReviewed bool `json:"alreadyReviewed"`
}
