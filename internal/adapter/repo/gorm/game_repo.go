package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warfront/internal/adapter/repo/gorm/model"
	"warfront/internal/app/ports"
	"warfront/internal/domain/game"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRepo stores each game as one JSONB document. The columns beside it
// are projections used for the version check and the deadline scan.
type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) Create(ctx context.Context, g game.Game) error {
	row, err := toGameRow(g)
	if err != nil {
		return err
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID locks the row for update when called inside a transaction, so
// read-modify-write flows that do not bump the state version (lobby edits)
// still serialize.
func (r GameRepo) GetByID(ctx context.Context, gameID string) (game.Game, error) {
	q := getDBFromCtx(ctx, r.db)
	if _, ok := txFromCtx(ctx); ok {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row model.Game
	if err := q.Where("id = ?", gameID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Game{}, ports.ErrNotFound
		}
		return game.Game{}, err
	}
	var g game.Game
	if err := json.Unmarshal(row.Document, &g); err != nil {
		return game.Game{}, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return g, nil
}

func (r GameRepo) SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error {
	row, err := toGameRow(g)
	if err != nil {
		return err
	}
	db := getDBFromCtx(ctx, r.db)
	res := db.Model(&model.Game{}).
		Where("id = ? AND state_version = ?", g.ID, expectedVersion).
		Updates(map[string]any{
			"status":           row.Status,
			"timing_mode":      row.TimingMode,
			"turn_deadline_at": row.TurnDeadlineAt,
			"state_version":    row.StateVersion,
			"document":         row.Document,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&model.Game{}).Where("id = ?", g.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

func (r GameRepo) ListExpired(ctx context.Context, mode game.TimingMode, now time.Time) ([]string, error) {
	ids := []string{}
	err := getDBFromCtx(ctx, r.db).Model(&model.Game{}).
		Where("status = ? AND timing_mode = ?", string(game.StatusActive), string(mode)).
		Where("turn_deadline_at IS NOT NULL AND turn_deadline_at <= ?", now.UTC()).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func toGameRow(g game.Game) (model.Game, error) {
	doc, err := json.Marshal(g)
	if err != nil {
		return model.Game{}, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	row := model.Game{
		ID:           g.ID,
		Status:       string(g.Status),
		TimingMode:   string(g.TimingMode),
		StateVersion: g.State.StateVersion,
		Document:     datatypes.JSON(doc),
	}
	if g.Timing != nil {
		at := g.Timing.TurnDeadlineAt.UTC()
		row.TurnDeadlineAt = &at
	}
	if !g.CreatedAt.IsZero() {
		row.CreatedAt = g.CreatedAt.UTC()
		row.UpdatedAt = g.UpdatedAt.UTC()
	}
	return row, nil
}
