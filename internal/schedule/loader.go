package schedule

import (
	"context"
	"fmt"
	"os"

	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/colefield/airwave/internal/timeofday"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML shape for seeding channels at startup
type SeedFile struct {
	Channels []SeedChannel `yaml:"channels"`
}

// SeedChannel is one channel definition in a seed file
type SeedChannel struct {
	Name      string             `yaml:"name"`
	ShortName string             `yaml:"short_name"`
	Kind      models.ChannelKind `yaml:"kind"`
	Slots     []SeedSlot         `yaml:"slots,omitempty"`
	Playlist  []SeedPlaylistItem `yaml:"playlist,omitempty"`
}

// SeedSlot is a slot definition with human-readable clock times
type SeedSlot struct {
	Start string  `yaml:"start"`
	End   string  `yaml:"end"`
	File  string  `yaml:"file"`
	Title *string `yaml:"title,omitempty"`
}

// SeedPlaylistItem is a playlist entry definition
type SeedPlaylistItem struct {
	File            string  `yaml:"file"`
	Title           *string `yaml:"title,omitempty"`
	DurationSeconds int64   `yaml:"duration_seconds"`
}

// LoadSeedFile parses a YAML seed file from disk
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return &seed, nil
}

// Import creates the seed file's channels and schedules through the normal
// validation boundary. Channels whose short name already exists are skipped,
// so re-running on an existing database is safe.
func (s *Service) Import(ctx context.Context, seed *SeedFile) error {
	for _, def := range seed.Channels {
		if _, err := s.repos.Channels.GetByShortName(ctx, NormalizeShortName(def.ShortName)); err == nil {
			logger.Log.Debug().
				Str("short_name", def.ShortName).
				Msg("Seed channel already exists, skipping")
			continue
		} else if !db.IsNotFound(err) {
			return fmt.Errorf("failed to import seed: %w", err)
		}

		channel, err := s.CreateChannel(ctx, def.Name, def.ShortName, def.Kind)
		if err != nil {
			return fmt.Errorf("failed to import seed channel %q: %w", def.ShortName, err)
		}

		switch def.Kind {
		case models.ChannelKind24Hour:
			slots, err := seedSlots(channel, def.Slots)
			if err != nil {
				return fmt.Errorf("failed to import seed channel %q: %w", def.ShortName, err)
			}
			if err := s.SetSlots(ctx, channel.ID, slots); err != nil {
				return fmt.Errorf("failed to import seed channel %q: %w", def.ShortName, err)
			}
		case models.ChannelKindLooping:
			items := seedPlaylist(channel, def.Playlist)
			if err := s.SetPlaylist(ctx, channel.ID, items); err != nil {
				return fmt.Errorf("failed to import seed channel %q: %w", def.ShortName, err)
			}
		}
	}

	logger.Log.Info().
		Int("channels", len(seed.Channels)).
		Msg("Schedule seed imported")

	return nil
}

// seedSlots converts clock-time seed slots into model slots
func seedSlots(channel *models.Channel, defs []SeedSlot) ([]*models.Slot, error) {
	slots := make([]*models.Slot, 0, len(defs))
	for i, def := range defs {
		start, err := timeofday.Parse(def.Start)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("slots[%d].start", i), Message: err.Error()}
		}
		end, err := timeofday.Parse(def.End)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("slots[%d].end", i), Message: err.Error()}
		}

		slot := models.NewSlot(channel.ID, i, start, end, def.File)
		slot.Title = def.Title
		slots = append(slots, slot)
	}
	return slots, nil
}

// seedPlaylist converts seed playlist entries into model items
func seedPlaylist(channel *models.Channel, defs []SeedPlaylistItem) []*models.PlaylistItem {
	items := make([]*models.PlaylistItem, 0, len(defs))
	for i, def := range defs {
		item := models.NewPlaylistItem(channel.ID, i, def.File, def.DurationSeconds)
		item.Title = def.Title
		items = append(items, item)
	}
	return items
}
