package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClient
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         Role   `gorm:"not null"                 json:"role"`
}

// RefreshToken is the allow-list row behind every issued refresh token.
// TokenHash is sha256 of the raw token, never the token itself.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	TokenHash string `gorm:"unique;not null"      json:"-"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}

// Service is one purchasable editing package in the catalog.
type Service struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"not null"                 json:"name"`
	Description    string `gorm:"not null"                 json:"description"`
	PriceCents     int64  `gorm:"not null"                 json:"price_cents"`
	TurnaroundDays uint   `json:"turnaround_days"`
	Active         bool   `gorm:"default:true"             json:"active"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ServiceID uint `gorm:"not null"                    json:"service_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

type Order struct {
	ID         uint        `gorm:"primaryKey"        json:"id"`
	Number     string      `gorm:"unique;not null"   json:"number"`
	UserID     uint        `gorm:"index;not null"    json:"user_id"`
	Status     string      `gorm:"not null"          json:"status"`
	TotalCents int64       `gorm:"not null"          json:"total_cents"`
	FolderID   string      `json:"folder_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots name and price at checkout time so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey"     json:"id"`
	OrderID    uint   `gorm:"index;not null" json:"order_id"`
	ServiceID  uint   `gorm:"not null"       json:"service_id"`
	Name       string `gorm:"not null"       json:"name"`
	PriceCents int64  `gorm:"not null"       json:"price_cents"`
	Quantity   uint   `gorm:"default:1"      json:"quantity"`
}
