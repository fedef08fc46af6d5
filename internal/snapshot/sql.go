package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minhvule/teacart/internal/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshotRow is the persisted form of one session's cart state.
type CartSnapshotRow struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Payload   string    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CartSnapshotRow) TableName() string {
	return "cart_snapshots"
}

// SQLCache stores cart state in the relational snapshot cache.
type SQLCache struct {
	db *gorm.DB
}

func NewSQLCache(db *gorm.DB) (*SQLCache, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &SQLCache{db: db}, nil
}

func (c *SQLCache) Save(ctx context.Context, sessionID string, state cart.PersistedState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart state: %w", err)
	}

	row := CartSnapshotRow{
		SessionID: sessionID,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing cart state: %w", err)
	}
	return nil
}

func (c *SQLCache) Load(ctx context.Context, sessionID string) (*cart.PersistedState, error) {
	var row CartSnapshotRow
	err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart state: %w", err)
	}

	var state cart.PersistedState
	if err := json.Unmarshal([]byte(row.Payload), &state); err != nil {
		_ = c.db.WithContext(ctx).
			Where("session_id = ?", sessionID).
			Delete(&CartSnapshotRow{}).Error
		return nil, nil
	}
	return &state, nil
}

func (c *SQLCache) Delete(ctx context.Context, sessionID string) error {
	err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&CartSnapshotRow{}).Error
	if err != nil {
		return fmt.Errorf("deleting cart state: %w", err)
	}
	return nil
}
