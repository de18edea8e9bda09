package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"warfront/internal/adapter/repo/gorm/model"
	"warfront/internal/app/ports"
	"warfront/internal/domain/game"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActionLogRepo struct {
	db *gorm.DB
}

func NewActionLogRepo(db *gorm.DB) ActionLogRepo {
	return ActionLogRepo{db: db}
}

// Append requires each entry's index to continue the game's log. The
// (game_id, idx) primary key rejects a concurrent writer that raced past the
// gap check.
func (r ActionLogRepo) Append(ctx context.Context, entries []game.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	db := getDBFromCtx(ctx, r.db)
	next := map[string]int{}
	rows := make([]model.ActionLogEntry, 0, len(entries))
	for _, e := range entries {
		want, seen := next[e.GameID]
		if !seen {
			var count int64
			if err := db.Model(&model.ActionLogEntry{}).Where("game_id = ?", e.GameID).Count(&count).Error; err != nil {
				return err
			}
			want = int(count)
		}
		if e.Index != want {
			return fmt.Errorf("append log %s[%d]: expected index %d: %w", e.GameID, e.Index, want, ports.ErrConflict)
		}
		next[e.GameID] = want + 1

		row, err := toLogRow(e)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := db.Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r ActionLogRepo) ListByGame(ctx context.Context, gameID string) ([]game.LogEntry, error) {
	rows := []model.ActionLogEntry{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ActionLogEntry{GameID: gameID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "idx"}}},
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]game.LogEntry, 0, len(rows))
	for _, row := range rows {
		e, err := fromLogRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r ActionLogRepo) Latest(ctx context.Context, gameID string) (game.LogEntry, error) {
	var row model.ActionLogEntry
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ActionLogEntry{GameID: gameID}).
		Order("idx DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.LogEntry{}, ports.ErrNotFound
		}
		return game.LogEntry{}, err
	}
	return fromLogRow(row)
}

func toLogRow(e game.LogEntry) (model.ActionLogEntry, error) {
	action, err := json.Marshal(e.Action)
	if err != nil {
		return model.ActionLogEntry{}, fmt.Errorf("encode action: %w", err)
	}
	events := e.Events
	if events == nil {
		events = []game.Event{}
	}
	evs, err := json.Marshal(events)
	if err != nil {
		return model.ActionLogEntry{}, fmt.Errorf("encode events: %w", err)
	}
	return model.ActionLogEntry{
		GameID:             e.GameID,
		Idx:                int32(e.Index),
		EntryID:            uuid.NewString(),
		PlayerID:           string(e.PlayerID),
		ActionType:         string(e.Action.Type),
		Action:             datatypes.JSON(action),
		Events:             datatypes.JSON(evs),
		StateVersionBefore: e.StateVersionBefore,
		StateVersionAfter:  e.StateVersionAfter,
		CreatedAt:          e.CreatedAt.UTC(),
	}, nil
}

func fromLogRow(row model.ActionLogEntry) (game.LogEntry, error) {
	e := game.LogEntry{
		GameID:             row.GameID,
		Index:              int(row.Idx),
		PlayerID:           game.PlayerID(row.PlayerID),
		StateVersionBefore: row.StateVersionBefore,
		StateVersionAfter:  row.StateVersionAfter,
		CreatedAt:          row.CreatedAt.UTC(),
	}
	if err := json.Unmarshal(row.Action, &e.Action); err != nil {
		return game.LogEntry{}, fmt.Errorf("decode action %s[%d]: %w", row.GameID, row.Idx, err)
	}
	if err := json.Unmarshal(row.Events, &e.Events); err != nil {
		return game.LogEntry{}, fmt.Errorf("decode events %s[%d]: %w", row.GameID, row.Idx, err)
	}
	return e, nil
}
