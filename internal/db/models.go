package db

import (
	"time"

	"gorm.io/datatypes"
)

type Player struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Game struct {
	ID                 string     `gorm:"primaryKey;size:36"`
	CreatorID          string     `gorm:"size:36;index;not null"`
	State              string     `gorm:"size:16;not null"`
	MaxPlayers         int        `gorm:"not null"`
	MaxQuestionSeconds int        `gorm:"not null"`
	MaxAnswerSeconds   int        `gorm:"not null"`
	MaxRounds          int        `gorm:"not null"`
	MaxActiveSeconds   int        `gorm:"not null;default:0"`
	CurrentRound       int        `gorm:"not null;default:0"`
	ActivePlayerID     *string    `gorm:"size:36"`
	ActiveUntil        *time.Time
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
	Rows               []BoardRow
	Events             []Event
}

// BoardRow is one leaderboard line. Position is the player's join index.
type BoardRow struct {
	ID         uint      `gorm:"primaryKey"`
	GameID     string    `gorm:"size:36;not null;uniqueIndex:idx_board_rows_game_player"`
	PlayerID   string    `gorm:"size:36;not null;uniqueIndex:idx_board_rows_game_player"`
	PlayerName string    `gorm:"size:64;not null"`
	Position   int       `gorm:"not null"`
	Score      int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    *string        `gorm:"size:36;index"`
	PlayerID  *string        `gorm:"size:36;index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
