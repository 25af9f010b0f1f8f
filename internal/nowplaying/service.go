// Package nowplaying decides which asset is on air for a channel at a given
// instant, creating the illusion of a continuously broadcasting channel.
package nowplaying

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/colefield/airwave/internal/catalog"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/colefield/airwave/internal/schedule"
	"github.com/colefield/airwave/internal/timeofday"
	"github.com/google/uuid"
)

// Service resolves the current on-air state for channels. Resolution is
// stateless: every call recomputes from the stored schedule and catalog, so
// schedule edits take effect on the next call without coordination.
type Service struct {
	schedules *schedule.Service
	catalog   catalog.Catalog
	baseURL   string
}

// NewService creates a now-playing service instance. baseURL is prefixed to
// relative paths when building the src players load.
func NewService(schedules *schedule.Service, cat catalog.Catalog, baseURL string) *Service {
	return &Service{
		schedules: schedules,
		catalog:   cat,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Resolve returns the channel's on-air descriptor at the given instant, or
// nil when nothing is programmed right now. nil is a first-class result
// meaning off-air, never an error.
func (s *Service) Resolve(ctx context.Context, channelID uuid.UUID, now time.Time) (*NowPlaying, error) {
	channel, err := s.schedules.GetFullSchedule(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve now playing: %w", err)
	}

	if !channel.Active {
		logger.Log.Debug().
			Str("channel_id", channelID.String()).
			Msg("Channel inactive, off air")
		return nil, nil
	}

	var prog *program
	switch channel.Kind {
	case models.ChannelKind24Hour:
		prog = resolveSlots(channel.Slots, s.durationOf(ctx), timeofday.FromTime(now))
	case models.ChannelKindLooping:
		prog, err = resolveLoop(channel.Playlist, now.Unix())
		if err != nil {
			// A playlist with no content is an off-air gap, not a failure
			logger.Log.Debug().
				Str("channel_id", channelID.String()).
				Msg("Looping channel has no content, off air")
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("failed to resolve now playing: unknown channel kind %q", channel.Kind)
	}

	if prog == nil {
		logger.Log.Debug().
			Str("channel_id", channelID.String()).
			Int("seconds_of_day", timeofday.FromTime(now)).
			Msg("No active slot, off air")
		return nil, nil
	}

	np := s.toNowPlaying(ctx, prog, now)

	logger.Log.Debug().
		Str("channel_id", channelID.String()).
		Str("rel_path", np.RelPath).
		Int64("offset_seconds", np.StartOffsetSeconds).
		Int64("duration_seconds", np.DurationSeconds).
		Msg("Resolved now playing")

	return np, nil
}

// toNowPlaying builds the wire descriptor from an intermediate program
func (s *Service) toNowPlaying(ctx context.Context, prog *program, now time.Time) *NowPlaying {
	title := prog.title
	if title == "" {
		if entry, ok := s.catalog.Lookup(ctx, prog.relPath); ok && entry.Title != "" {
			title = entry.Title
		} else {
			title = prog.relPath
		}
	}

	nowMs := now.UnixMilli()
	return &NowPlaying{
		Title:              title,
		RelPath:            prog.relPath,
		DurationSeconds:    prog.durationSeconds,
		StartOffsetSeconds: prog.offsetSeconds,
		EndsAt:             nowMs + prog.remainingSeconds*1000,
		Src:                s.baseURL + "/" + strings.TrimLeft(prog.relPath, "/"),
		ServerTimeMs:       nowMs,
	}
}

// durationOf adapts the catalog to the slot resolver's lookup shape
func (s *Service) durationOf(ctx context.Context) DurationFunc {
	return func(path string) (int64, bool) {
		entry, ok := s.catalog.Lookup(ctx, path)
		if !ok {
			return 0, false
		}
		return entry.DurationSeconds, true
	}
}
