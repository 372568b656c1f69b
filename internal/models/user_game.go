package models

import (
	"time"
)

// UserGame is the durable proof a user has unlocked a game. At most one
// record exists per (user, game) pair; it is immutable once created.
type UserGame struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_game,unique" json:"userId"`
	GameID    uint      `gorm:"not null;index:idx_user_game,unique" json:"gameId"`
	Game      Game      `gorm:"foreignKey:GameID" json:"game"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (UserGame) TableName() string {
	return "user_games"
}
