package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameActionLogEntry = "action_log_entries"

// ActionLogEntry mapped from table <action_log_entries>
type ActionLogEntry struct {
	GameID             string         `gorm:"column:game_id;primaryKey" json:"game_id"`
	Idx                int32          `gorm:"column:idx;primaryKey" json:"idx"`
	EntryID            string         `gorm:"column:entry_id;not null" json:"entry_id"`
	PlayerID           string         `gorm:"column:player_id;not null" json:"player_id"`
	ActionType         string         `gorm:"column:action_type;not null" json:"action_type"`
	Action             datatypes.JSON `gorm:"column:action;not null" json:"action"`
	Events             datatypes.JSON `gorm:"column:events;not null" json:"events"`
	StateVersionBefore int64          `gorm:"column:state_version_before;not null" json:"state_version_before"`
	StateVersionAfter  int64          `gorm:"column:state_version_after;not null" json:"state_version_after"`
	CreatedAt          time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName ActionLogEntry's table name
func (*ActionLogEntry) TableName() string {
	return TableNameActionLogEntry
}
