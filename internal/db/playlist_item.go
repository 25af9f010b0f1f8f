package db

import (
	"context"
	"fmt"

	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaylistItemRepository handles database operations for looping playlist items
type PlaylistItemRepository struct {
	db *DB
}

// NewPlaylistItemRepository creates a new playlist item repository
func NewPlaylistItemRepository(db *DB) *PlaylistItemRepository {
	return &PlaylistItemRepository{db: db}
}

// GetByChannelID retrieves all playlist items for a channel, ordered by position
func (r *PlaylistItemRepository) GetByChannelID(ctx context.Context, channelID uuid.UUID) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID.String()).
		Order("position ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get playlist items by channel: %w", MapGormError(result.Error))
	}
	return items, nil
}

// ReplaceForChannel atomically replaces a channel's entire playlist
func (r *PlaylistItemRepository) ReplaceForChannel(ctx context.Context, channelID uuid.UUID, items []*models.PlaylistItem) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID.String()).Delete(&models.PlaylistItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear playlist: %w", err)
		}
		for _, item := range items {
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to create playlist item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace playlist: %w", MapGormError(err))
	}
	return nil
}
