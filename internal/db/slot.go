package db

import (
	"context"
	"fmt"

	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotRepository handles database operations for schedule slots
type SlotRepository struct {
	db *DB
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// GetByChannelID retrieves all slots for a channel, ordered by start time
func (r *SlotRepository) GetByChannelID(ctx context.Context, channelID uuid.UUID) ([]*models.Slot, error) {
	var slots []*models.Slot
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID.String()).
		Order("start_seconds ASC").
		Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get slots by channel: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// ReplaceForChannel atomically replaces a channel's entire slot list.
// Schedule edits are whole-document writes: the admin boundary validates the
// full list before it reaches here.
func (r *SlotRepository) ReplaceForChannel(ctx context.Context, channelID uuid.UUID, slots []*models.Slot) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID.String()).Delete(&models.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to clear slots: %w", err)
		}
		for _, slot := range slots {
			if err := tx.Create(slot).Error; err != nil {
				return fmt.Errorf("failed to create slot: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace slots: %w", MapGormError(err))
	}
	return nil
}
