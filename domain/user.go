package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FullName   string         `gorm:"column:full_name;not null" json:"full_name"`
	Email      string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	IsVerified bool           `gorm:"column:is_verified;default:false" json:"is_verified"`
	IsBanned   bool           `gorm:"column:is_banned;default:false" json:"is_banned"`
	Password   string         `gorm:"column:password;not null" json:"-"`
	Role       string         `gorm:"column:role;default:customer;index" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsVendor() bool {
	return u.Role == RoleVendor
}

// VendorRef is the public projection of a vendor embedded in revenue reports.
type VendorRef struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsBanned bool   `json:"is_banned"`
}

func (u User) Ref() VendorRef {
	return VendorRef{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		IsBanned: u.IsBanned,
	}
}

// Session is what the token store keeps for every issued JWT.
type Session struct {
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsVendor() bool {
	return a.Role == RoleVendor
}
