package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameGame = "games"

// Game mapped from table <games>
type Game struct {
	ID             string         `gorm:"column:id;primaryKey" json:"id"`
	Status         string         `gorm:"column:status;not null" json:"status"`
	TimingMode     string         `gorm:"column:timing_mode;not null" json:"timing_mode"`
	TurnDeadlineAt *time.Time     `gorm:"column:turn_deadline_at" json:"turn_deadline_at"`
	StateVersion   int64          `gorm:"column:state_version;not null" json:"state_version"`
	Document       datatypes.JSON `gorm:"column:document;not null" json:"document"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName Game's table name
func (*Game) TableName() string {
	return TableNameGame
}
