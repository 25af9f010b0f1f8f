// Package schedule manages channel schedules: write-boundary validation,
// persistence, and advisory conflict detection.
package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
)

// Service handles business logic for schedule operations
type Service struct {
	repos    *db.Repositories
	resolver PathResolver
}

// NewService creates a new schedule service instance
func NewService(repos *db.Repositories, resolver PathResolver) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
	}
}

// NormalizeShortName lowercases and trims a channel short name. Short names
// are unique under this normalization.
func NormalizeShortName(shortName string) string {
	return strings.ToLower(strings.TrimSpace(shortName))
}

// CreateChannel creates a new channel with validation
func (s *Service) CreateChannel(ctx context.Context, name, shortName string, kind models.ChannelKind) (*models.Channel, error) {
	if err := ValidateChannel(name, shortName, kind); err != nil {
		logger.Log.Warn().
			Str("name", name).
			Str("short_name", shortName).
			Msg("Channel creation failed: validation")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	normalized := NormalizeShortName(shortName)
	if _, err := s.repos.Channels.GetByShortName(ctx, normalized); err == nil {
		logger.Log.Warn().
			Str("short_name", normalized).
			Msg("Channel creation failed: duplicate short name")
		return nil, fmt.Errorf("failed to create channel: %w", ErrDuplicateShortName)
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	channel := models.NewChannel(strings.TrimSpace(name), normalized, kind)

	if err := s.repos.Channels.Create(ctx, channel); err != nil {
		logger.Log.Error().
			Err(err).
			Str("short_name", normalized).
			Msg("Failed to create channel in database")
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channel.ID.String()).
		Str("short_name", channel.ShortName).
		Str("kind", string(channel.Kind)).
		Msg("Channel created successfully")

	return channel, nil
}

// GetByID retrieves a channel by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	channel, err := s.repos.Channels.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrChannelNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to get channel by ID")
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// GetByShortName retrieves a channel by its normalized short name
func (s *Service) GetByShortName(ctx context.Context, shortName string) (*models.Channel, error) {
	channel, err := s.repos.Channels.GetByShortName(ctx, NormalizeShortName(shortName))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrChannelNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("short_name", shortName).
			Msg("Failed to get channel by short name")
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// List retrieves all channels
func (s *Service) List(ctx context.Context) ([]*models.Channel, error) {
	channels, err := s.repos.Channels.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels")
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// UpdateChannel updates channel metadata with validation
func (s *Service) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	existing, err := s.GetByID(ctx, channel.ID)
	if err != nil {
		return err
	}

	if err := ValidateChannel(channel.Name, channel.ShortName, channel.Kind); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}

	channel.ShortName = NormalizeShortName(channel.ShortName)
	if existing.ShortName != channel.ShortName {
		if _, err := s.repos.Channels.GetByShortName(ctx, channel.ShortName); err == nil {
			return fmt.Errorf("failed to update channel: %w", ErrDuplicateShortName)
		} else if !db.IsNotFound(err) {
			return fmt.Errorf("failed to update channel: %w", err)
		}
	}

	if err := s.repos.Channels.Update(ctx, channel); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channel.ID.String()).
			Msg("Failed to update channel in database")
		return fmt.Errorf("failed to update channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channel.ID.String()).
		Str("short_name", channel.ShortName).
		Msg("Channel updated successfully")

	return nil
}

// DeleteChannel deletes a channel by its ID
func (s *Service) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	// Cascades to slots and playlist items
	if err := s.repos.Channels.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to delete channel from database")
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", id.String()).
		Msg("Channel deleted successfully")

	return nil
}

// SetSlots validates and replaces a 24hour channel's slot list
func (s *Service) SetSlots(ctx context.Context, channelID uuid.UUID, slots []*models.Slot) error {
	channel, err := s.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.Kind != models.ChannelKind24Hour {
		return fmt.Errorf("failed to set slots: %w", ErrWrongKind)
	}

	if err := ValidateSlots(slots, s.resolver); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Slot write rejected by validation")
		return fmt.Errorf("failed to set slots: %w", err)
	}

	for i, slot := range slots {
		slot.ChannelID = channelID
		slot.Position = i
		if slot.ID == uuid.Nil {
			slot.ID = uuid.New()
		}
	}

	if err := s.repos.Slots.ReplaceForChannel(ctx, channelID, slots); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to replace slots in database")
		return fmt.Errorf("failed to set slots: %w", err)
	}

	if conflicts := DetectConflicts(slots); len(conflicts) > 0 {
		// Advisory only, the write has already succeeded
		logger.Log.Warn().
			Str("channel_id", channelID.String()).
			Int("conflicts", len(conflicts)).
			Msg("Saved schedule contains overlapping slots")
	}

	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Int("slots", len(slots)).
		Msg("Slots replaced successfully")

	return nil
}

// SetPlaylist validates and replaces a looping channel's playlist
func (s *Service) SetPlaylist(ctx context.Context, channelID uuid.UUID, items []*models.PlaylistItem) error {
	channel, err := s.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.Kind != models.ChannelKindLooping {
		return fmt.Errorf("failed to set playlist: %w", ErrWrongKind)
	}

	if err := ValidatePlaylist(items, s.resolver); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Playlist write rejected by validation")
		return fmt.Errorf("failed to set playlist: %w", err)
	}

	for i, item := range items {
		item.ChannelID = channelID
		item.Position = i
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
	}

	if err := s.repos.PlaylistItems.ReplaceForChannel(ctx, channelID, items); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to replace playlist in database")
		return fmt.Errorf("failed to set playlist: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Int("items", len(items)).
		Msg("Playlist replaced successfully")

	return nil
}

// GetSlots retrieves a channel's slots ordered by start time
func (s *Service) GetSlots(ctx context.Context, channelID uuid.UUID) ([]*models.Slot, error) {
	if _, err := s.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	slots, err := s.repos.Slots.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slots: %w", err)
	}
	return slots, nil
}

// GetPlaylist retrieves a channel's playlist ordered by position
func (s *Service) GetPlaylist(ctx context.Context, channelID uuid.UUID) ([]*models.PlaylistItem, error) {
	if _, err := s.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	items, err := s.repos.PlaylistItems.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return items, nil
}

// Conflicts returns the advisory conflict list for a 24hour channel
func (s *Service) Conflicts(ctx context.Context, channelID uuid.UUID) ([]Conflict, error) {
	slots, err := s.GetSlots(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return DetectConflicts(slots), nil
}

// GetFullSchedule loads a channel with its slots or playlist populated
// according to its kind.
func (s *Service) GetFullSchedule(ctx context.Context, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := s.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	switch channel.Kind {
	case models.ChannelKind24Hour:
		slots, err := s.repos.Slots.GetByChannelID(ctx, channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}
		channel.Slots = slots
	case models.ChannelKindLooping:
		items, err := s.repos.PlaylistItems.GetByChannelID(ctx, channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}
		channel.Playlist = items
	default:
		return nil, fmt.Errorf("failed to get schedule: %w",
			&ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", channel.Kind)})
	}

	return channel, nil
}
