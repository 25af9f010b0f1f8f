// Package playersync keeps an individual viewer's player locked to the
// broadcast position. It polls the now-playing endpoint, compensates the
// reported offset for network latency, seeks the player to the live edge,
// and reschedules itself exactly at each program boundary.
package playersync

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/nowplaying"
)

// State is the engine's position in its synchronization cycle
type State string

const (
	// StateIdle means the engine is not tuned to any channel
	StateIdle State = "idle"

	// StateFetching means a now-playing poll is in flight
	StateFetching State = "fetching"

	// StateSeeking means a descriptor arrived and the engine is waiting for
	// media readiness or has just issued a seek
	StateSeeking State = "seeking"

	// StatePlaying means the player is verified at the live position
	StatePlaying State = "playing"

	// StateRetrying means a drift check failed and the seek is being retried
	StateRetrying State = "retrying"

	// StateOffAir means the channel has no programming right now
	StateOffAir State = "offair"
)

// seekEpsilon keeps the target strictly inside the asset so a seek to the
// very last instant cannot fire an ended event before verification
const seekEpsilon = 0.25

// Player is the minimal surface of a video element the engine drives.
// Playback events flow the other way: the host calls OnMediaReady and
// OnExternalPause on the engine.
type Player interface {
	// Load points the player at a new source
	Load(src string)

	// Play starts playback, muted or not. An error means the attempt was
	// rejected, as browsers do for unmuted autoplay.
	Play(muted bool) error

	// Seek moves the playhead to the given position in seconds
	Seek(offsetSeconds float64)

	// Position reports the current playhead in seconds
	Position() float64
}

// Config tunes the engine's timing behavior
type Config struct {
	// BoundaryBuffer is added past a program's end before refetching
	BoundaryBuffer time.Duration

	// DriftCheckDelay is how long after a seek the playhead is re-verified
	DriftCheckDelay time.Duration

	// DriftTolerance is the largest acceptable |actual - expected| in seconds
	DriftTolerance float64

	// MaxSeekRetries bounds how many times a drifted seek is retried
	MaxSeekRetries int

	// OffAirRecheck is the poll interval while the channel is off air
	OffAirRecheck time.Duration

	// RetryInterval is the poll delay after a failed fetch
	RetryInterval time.Duration
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		BoundaryBuffer:  1500 * time.Millisecond,
		DriftCheckDelay: 750 * time.Millisecond,
		DriftTolerance:  0.5,
		MaxSeekRetries:  2,
		OffAirRecheck:   30 * time.Second,
		RetryInterval:   5 * time.Second,
	}
}

// Engine synchronizes one player to one channel at a time
type Engine struct {
	cfg     Config
	fetcher Fetcher
	player  Player
	clock   Clock
	sched   Scheduler

	mu         sync.Mutex
	state      State
	channelID  string
	generation int
	cancel     context.CancelFunc
	ctx        context.Context

	current      *nowplaying.NowPlaying
	rttMs        int64
	seekAttempts int
	muted        bool
	lastErr      error

	nextTimer  Timer
	driftTimer Timer
}

// NewEngine creates a sync engine. Passing nil clock or scheduler selects the
// real implementations.
func NewEngine(cfg Config, fetcher Fetcher, player Player, clock Clock, sched Scheduler) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	if sched == nil {
		sched = NewScheduler()
	}
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		player:  player,
		clock:   clock,
		sched:   sched,
		state:   StateIdle,
	}
}

// Tune switches the engine to a channel. Any in-flight fetch and pending
// timers for the previous channel are cancelled first so a stale descriptor
// can never reach the new channel's player.
func (e *Engine) Tune(channelID string) {
	e.mu.Lock()
	e.cancelLocked()
	e.channelID = channelID
	e.state = StateFetching
	e.lastErr = nil
	gen := e.generation
	ctx, cancel := context.WithCancel(context.Background())
	e.ctx = ctx
	e.cancel = cancel
	e.mu.Unlock()

	go e.fetch(ctx, gen)
}

// Stop tears the engine down, cancelling all pending work
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()
	e.state = StateIdle
	e.current = nil
	e.channelID = ""
}

// State returns the engine's current state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns the descriptor the engine is playing, or nil
func (e *Engine) Current() *nowplaying.NowPlaying {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// LastError returns the most recent non-fatal error, for banner display
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// OnMediaReady tells the engine the player has enough data to seek. The host
// wires this to the media element's readiness event.
func (e *Engine) OnMediaReady() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil || (e.state != StateSeeking && e.state != StateRetrying) {
		return
	}
	e.seekToLiveLocked()
}

// OnExternalPause tells the engine playback was paused outside its control.
// A simulated live broadcast has no viewer pause, so the engine resumes
// immediately.
func (e *Engine) OnExternalPause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying && e.state != StateSeeking && e.state != StateRetrying {
		return
	}

	logger.Log.Debug().
		Str("channel_id", e.channelID).
		Msg("External pause detected, resuming")
	e.playLocked()
}

// fetch polls now-playing state and records request timing for latency
// compensation. Results from a superseded generation are discarded.
func (e *Engine) fetch(ctx context.Context, gen int) {
	t0 := e.clock.Now()
	result, err := e.fetcher.FetchNow(ctx, e.channelIDSnapshot())
	t1 := e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		// Channel switched while the request was in flight
		return
	}

	if err != nil {
		// Non-fatal: keep the last known state on screen and retry later
		e.lastErr = err
		logger.Log.Warn().
			Err(err).
			Str("channel_id", e.channelID).
			Msg("Now-playing fetch failed, will retry")
		e.scheduleFetchLocked(e.cfg.RetryInterval)
		return
	}

	e.lastErr = nil
	e.rttMs = t1.Sub(t0).Milliseconds()

	if result.Playing == nil {
		e.state = StateOffAir
		e.current = nil
		logger.Log.Debug().
			Str("channel_id", e.channelID).
			Msg("Channel off air, idle screen")
		e.scheduleFetchLocked(e.cfg.OffAirRecheck)
		return
	}

	e.current = result.Playing
	e.seekAttempts = 0
	e.muted = false
	e.state = StateSeeking
	e.player.Load(result.Playing.Src)

	logger.Log.Debug().
		Str("channel_id", e.channelID).
		Str("title", result.Playing.Title).
		Int64("rtt_ms", e.rttMs).
		Msg("Received now-playing descriptor")

	// Refetch exactly at the program boundary rather than on a fixed poll
	e.scheduleBoundaryFetchLocked()
}

// seekToLiveLocked seeks the player to the expected live offset and starts
// playback, then schedules a drift verification.
func (e *Engine) seekToLiveLocked() {
	expected := e.expectedOffsetLocked(e.clock.Now())
	e.player.Seek(expected)
	e.playLocked()

	gen := e.generation
	if e.driftTimer != nil {
		e.driftTimer.Stop()
	}
	e.driftTimer = e.sched.AfterFunc(e.cfg.DriftCheckDelay, func() {
		e.verifyDrift(gen)
	})
}

// playLocked starts playback, falling back to muted if unmuted autoplay is
// rejected. It never silently fails to start.
func (e *Engine) playLocked() {
	if err := e.player.Play(e.muted); err != nil && !e.muted {
		logger.Log.Debug().
			Str("channel_id", e.channelID).
			Msg("Unmuted autoplay rejected, retrying muted")
		e.muted = true
		if err := e.player.Play(true); err != nil {
			e.lastErr = err
			logger.Log.Warn().
				Err(err).
				Str("channel_id", e.channelID).
				Msg("Muted playback also rejected")
		}
	}
}

// verifyDrift compares the playhead to the moving live target and retries
// the seek while it is outside tolerance, up to the retry budget.
func (e *Engine) verifyDrift(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation || e.current == nil {
		return
	}

	expected := e.expectedOffsetLocked(e.clock.Now())
	actual := e.player.Position()
	drift := math.Abs(actual - expected)

	if drift <= e.cfg.DriftTolerance {
		e.state = StatePlaying
		return
	}

	if e.seekAttempts >= e.cfg.MaxSeekRetries {
		// Retry budget exhausted: play on from wherever the player settled
		logger.Log.Warn().
			Str("channel_id", e.channelID).
			Float64("drift_seconds", drift).
			Int("attempts", e.seekAttempts).
			Msg("Drift correction gave up, continuing unsynchronized")
		e.state = StatePlaying
		return
	}

	e.seekAttempts++
	e.state = StateRetrying
	logger.Log.Debug().
		Str("channel_id", e.channelID).
		Float64("drift_seconds", drift).
		Int("attempt", e.seekAttempts).
		Msg("Drift outside tolerance, reseeking")
	e.seekToLiveLocked()
}

// expectedOffsetLocked computes where the playhead should be right now:
// the server-reported offset plus the time elapsed since the server spoke,
// with one-way latency estimated as half the measured round trip.
func (e *Engine) expectedOffsetLocked(now time.Time) float64 {
	d := e.current
	anchorMs := d.ServerTimeMs + e.rttMs/2
	elapsed := float64(now.UnixMilli()-anchorMs) / 1000.0
	if elapsed < 0 {
		elapsed = 0
	}

	offset := float64(d.StartOffsetSeconds) + elapsed
	maxOffset := float64(d.DurationSeconds) - seekEpsilon
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// scheduleBoundaryFetchLocked arms the next poll for endsAt plus the buffer
func (e *Engine) scheduleBoundaryFetchLocked() {
	delay := time.Duration(e.current.EndsAt-e.clock.Now().UnixMilli())*time.Millisecond + e.cfg.BoundaryBuffer
	if delay < 0 {
		delay = 0
	}
	e.scheduleFetchLocked(delay)
}

// scheduleFetchLocked arms a poll after the given delay, replacing any
// pending one
func (e *Engine) scheduleFetchLocked(delay time.Duration) {
	if e.nextTimer != nil {
		e.nextTimer.Stop()
	}
	gen := e.generation
	ctx := e.ctx
	e.nextTimer = e.sched.AfterFunc(delay, func() {
		e.mu.Lock()
		if gen != e.generation {
			e.mu.Unlock()
			return
		}
		e.state = StateFetching
		e.mu.Unlock()
		e.fetch(ctx, gen)
	})
}

// cancelLocked invalidates all outstanding work: in-flight fetches, pending
// boundary polls, and drift checks
func (e *Engine) cancelLocked() {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.nextTimer != nil {
		e.nextTimer.Stop()
		e.nextTimer = nil
	}
	if e.driftTimer != nil {
		e.driftTimer.Stop()
		e.driftTimer = nil
	}
}

// channelIDSnapshot reads the channel ID under the lock
func (e *Engine) channelIDSnapshot() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channelID
}
