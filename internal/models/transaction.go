package models

import (
	"time"
)

type PointTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"userId"`
	User            User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Amount          int64     `gorm:"not null" json:"amount"`
	TransactionType string    `gorm:"type:varchar(50);not null;index" json:"transactionType"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// Transaction type constants
const (
	TxTypePurchase        = "purchase"
	TxTypeRedeemPayment   = "redeem_payment"
	TxTypeAdminAdjustment = "admin_adjustment"
	TxTypeWelcomeBonus    = "welcome_bonus"
)

func (PointTransaction) TableName() string {
	return "point_transactions"
}
