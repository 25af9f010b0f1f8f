package db

import (
	"context"
	"fmt"

	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// MediaRepository handles database operations for media catalog entries
type MediaRepository struct {
	db *DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Upsert inserts a catalog entry or updates the existing row for its file path
func (r *MediaRepository) Upsert(ctx context.Context, asset *models.MediaAsset) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "file_path"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "duration_seconds", "video_codec", "audio_codec", "supported", "file_size",
		}),
	}).Create(asset)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert media asset: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a catalog entry by its UUID
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&asset)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &asset, nil
}

// GetByPath retrieves a catalog entry by its relative file path
func (r *MediaRepository) GetByPath(ctx context.Context, path string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	result := r.db.WithContext(ctx).Where("file_path = ?", path).First(&asset)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &asset, nil
}

// List retrieves catalog entries with pagination, ordered by file path
func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]*models.MediaAsset, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MediaAsset{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count media assets: %w", MapGormError(err))
	}

	var assets []*models.MediaAsset
	query := r.db.WithContext(ctx).Order("file_path ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list media assets: %w", MapGormError(err))
	}
	return assets, total, nil
}

// Delete deletes a catalog entry by its UUID
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.MediaAsset{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete media asset: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Version returns a monotonic-ish catalog version derived from row count and
// the newest created_at. Cheap enough to call per cache lookup batch.
func (r *MediaRepository) Version(ctx context.Context) (string, error) {
	var row struct {
		Count  int64
		Newest *string
	}
	err := r.db.WithContext(ctx).Model(&models.MediaAsset{}).
		Select("COUNT(*) AS count, MAX(created_at) AS newest").
		Scan(&row).Error
	if err != nil {
		return "", fmt.Errorf("failed to read catalog version: %w", MapGormError(err))
	}
	newest := ""
	if row.Newest != nil {
		newest = *row.Newest
	}
	return fmt.Sprintf("%d:%s", row.Count, newest), nil
}
