package models

import (
	"time"
)

// Code kinds
const (
	CodeKindVip     = "vip"
	CodeKindPayment = "payment"
)

// RedeemCode is a single-use token exchanged for a fixed effect: VIP days
// or a point credit, depending on Kind. A claim is terminal — Used never
// reverts, and UsedBy/UsedAt are set exactly once with it.
type RedeemCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Kind      string     `gorm:"type:varchar(10);not null;index" json:"kind"`
	Code      string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`
	ValidDays int        `gorm:"default:0;not null" json:"validDays"`
	Points    int64      `gorm:"default:0;not null" json:"points"`
	Used      bool       `gorm:"default:false;not null;index" json:"used"`
	UsedBy    *uint      `gorm:"default:NULL" json:"usedBy"`
	UsedAt    *time.Time `gorm:"default:NULL" json:"usedAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (RedeemCode) TableName() string {
	return "redeem_codes"
}
