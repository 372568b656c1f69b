package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"uniqueIndex;type:varchar(100);not null" json:"username"`
	HashedPassword   string     `gorm:"type:varchar(255);not null" json:"-"`
	SecurityQuestion string     `gorm:"type:varchar(255);not null" json:"securityQuestion"`
	SecurityAnswer   string     `gorm:"type:varchar(255);not null" json:"-"`
	Points           int64      `gorm:"default:0;not null" json:"points"`
	VipExpireAt      *time.Time `gorm:"default:NULL" json:"vipExpireAt"`
	IsAdmin          bool       `gorm:"default:false;not null" json:"isAdmin"`
	IsActive         bool       `gorm:"default:true;not null" json:"isActive"`
	LastLoginAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"lastLoginAt"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsVip reports whether the VIP window is active at the given instant.
// The expiry itself is not VIP: the window is open strictly before it.
func (u *User) IsVip(now time.Time) bool {
	return u.VipExpireAt != nil && u.VipExpireAt.After(now)
}

// NextVipExpiry computes the stacked VIP window: an absent or expired
// window restarts from now, an active one keeps its remaining time.
func NextVipExpiry(current *time.Time, days int, now time.Time) time.Time {
	if current == nil || current.Before(now) {
		return now.AddDate(0, 0, days)
	}
	return current.AddDate(0, 0, days)
}

// Sanitize returns a copy safe to hand to clients: credentials and the
// security answer are masked.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.HashedPassword = ""
	sanitized.SecurityAnswer = ""
	return &sanitized
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Username == "" {
		return gorm.ErrInvalidData
	}
	if u.Points < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
