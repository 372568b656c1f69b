package models

import (
	"time"
)

type Game struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GameType        string    `gorm:"type:varchar(100)" json:"gameType"`
	GameName        string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"gameName"`
	DownloadURL     string    `gorm:"type:varchar(500);not null" json:"downloadUrl,omitempty"`
	Password        string    `gorm:"type:varchar(255)" json:"password,omitempty"`
	ExtractPassword string    `gorm:"type:varchar(255)" json:"extractPassword,omitempty"`
	Note            string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Sanitize strips the access payload for listings shown before purchase.
func (g *Game) Sanitize() *Game {
	return &Game{
		ID:       g.ID,
		GameType: g.GameType,
		GameName: g.GameName,
	}
}

func (Game) TableName() string {
	return "games"
}
