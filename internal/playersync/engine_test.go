package playersync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/colefield/airwave/internal/nowplaying"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(ms int64) *fakeClock {
	return &fakeClock{now: time.UnixMilli(ms)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) setMs(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.UnixMilli(ms)
}

// fakeScheduler records scheduled callbacks for manual firing
type fakeScheduler struct {
	mu    sync.Mutex
	calls []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{delay: d, fn: fn}
	s.calls = append(s.calls, timer)
	return timer
}

// pending returns timers that have not been stopped
func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var live []*fakeTimer
	for _, t := range s.calls {
		if !t.stopped {
			live = append(live, t)
		}
	}
	return live
}

// fire runs the most recently scheduled live timer
func (s *fakeScheduler) fireLast(t *testing.T) {
	t.Helper()
	live := s.pending()
	require.NotEmpty(t, live)
	timer := live[len(live)-1]
	timer.stopped = true
	timer.fn()
}

// fakePlayer records commands issued by the engine
type fakePlayer struct {
	mu            sync.Mutex
	loads         []string
	seeks         []float64
	playCalls     []bool
	position      float64
	rejectUnmuted bool
}

func (p *fakePlayer) Load(src string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads = append(p.loads, src)
}

func (p *fakePlayer) Play(muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playCalls = append(p.playCalls, muted)
	if p.rejectUnmuted && !muted {
		return errors.New("autoplay rejected")
	}
	return nil
}

func (p *fakePlayer) Seek(offsetSeconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, offsetSeconds)
	p.position = offsetSeconds
}

func (p *fakePlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) setPosition(pos float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

func (p *fakePlayer) lastSeek(t *testing.T) float64 {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.seeks)
	return p.seeks[len(p.seeks)-1]
}

// fakeFetcher serves canned results and simulates round-trip latency by
// advancing the fake clock inside the request
type fakeFetcher struct {
	mu     sync.Mutex
	clock  *fakeClock
	rtt    time.Duration
	result *FetchResult
	err    error
	calls  int
	gate   chan struct{}
}

func (f *fakeFetcher) FetchNow(ctx context.Context, channelID string) (*FetchResult, error) {
	f.mu.Lock()
	gate := f.gate
	f.calls++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clock != nil && f.rtt > 0 {
		f.clock.advance(f.rtt)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func descriptor(serverTimeMs int64) *nowplaying.NowPlaying {
	return &nowplaying.NowPlaying{
		Title:              "Feature",
		RelPath:            "movies/feature.mp4",
		DurationSeconds:    600,
		StartOffsetSeconds: 10,
		EndsAt:             serverTimeMs + 590_000,
		Src:                "/media/movies/feature.mp4",
		ServerTimeMs:       serverTimeMs,
	}
}

func newTestEngine(clock *fakeClock, fetcher Fetcher, player *fakePlayer) (*Engine, *fakeScheduler) {
	sched := &fakeScheduler{}
	engine := NewEngine(DefaultConfig(), fetcher, player, clock, sched)
	return engine, sched
}

func awaitState(t *testing.T, engine *Engine, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return engine.State() == want
	}, time.Second, time.Millisecond)
}

func TestEngine_LatencyCompensatedSeek(t *testing.T) {
	// Request leaves at client ms 1000000, round trip 200ms, server anchor
	// 1000000. At client ms 1003100 the expected offset is
	// 10 + (1003100 - 1000100)/1000 = 13.0 seconds.
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		rtt:    200 * time.Millisecond,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, _ := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)

	clock.setMs(1_003_100)
	engine.OnMediaReady()

	assert.InDelta(t, 13.0, player.lastSeek(t), 1e-9)
}

func TestEngine_SeekClampedToDuration(t *testing.T) {
	clock := newFakeClock(1_000_000)
	d := descriptor(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: d, ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, _ := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)

	// Far past the asset's end: the target stays just inside the duration
	clock.setMs(1_000_000 + 10_000_000)
	engine.OnMediaReady()

	assert.InDelta(t, float64(d.DurationSeconds)-seekEpsilon, player.lastSeek(t), 1e-9)
}

func TestEngine_DriftWithinToleranceReachesPlaying(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)
	engine.OnMediaReady()

	// Drift check finds the playhead where the seek left it
	sched.fireLast(t)
	assert.Equal(t, StatePlaying, engine.State())
}

func TestEngine_DriftRetriesThenGivesUp(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)
	engine.OnMediaReady()
	seeksAfterReady := len(player.seeks)

	// First drift check: playhead 5s behind, retry 1
	player.setPosition(player.lastSeek(t) - 5)
	sched.fireLast(t)
	assert.Equal(t, StateRetrying, engine.State())
	assert.Len(t, player.seeks, seeksAfterReady+1)

	// Second drift check: still behind, retry 2
	player.setPosition(player.lastSeek(t) - 5)
	sched.fireLast(t)
	assert.Equal(t, StateRetrying, engine.State())
	assert.Len(t, player.seeks, seeksAfterReady+2)

	// Budget exhausted: non-fatal, playback continues where it settled
	player.setPosition(player.lastSeek(t) - 5)
	sched.fireLast(t)
	assert.Equal(t, StatePlaying, engine.State())
	assert.Len(t, player.seeks, seeksAfterReady+2)
}

func TestEngine_OffAir(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateOffAir)

	assert.Nil(t, engine.Current())
	assert.Empty(t, player.loads)

	// A recheck is armed, not a tight loop
	live := sched.pending()
	require.Len(t, live, 1)
	assert.Equal(t, DefaultConfig().OffAirRecheck, live[0].delay)
}

func TestEngine_FetchFailureIsNonFatal(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock: clock,
		err:   errors.New("connection refused"),
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	require.Eventually(t, func() bool {
		return engine.LastError() != nil
	}, time.Second, time.Millisecond)

	// Retry armed at the configured interval
	live := sched.pending()
	require.Len(t, live, 1)
	assert.Equal(t, DefaultConfig().RetryInterval, live[0].delay)

	// The retry recovers once the network is back
	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.result = &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000}
	fetcher.mu.Unlock()

	sched.fireLast(t)
	awaitState(t, engine, StateSeeking)
	assert.NoError(t, engine.LastError())
}

func TestEngine_BoundaryRefetchScheduled(t *testing.T) {
	clock := newFakeClock(1_000_000)
	d := descriptor(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: d, ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)

	live := sched.pending()
	require.Len(t, live, 1)

	// Fires at endsAt plus the boundary buffer, relative to the fetch
	// completion instant
	wantDelay := time.Duration(d.EndsAt-clock.Now().UnixMilli())*time.Millisecond + DefaultConfig().BoundaryBuffer
	assert.Equal(t, wantDelay, live[0].delay)

	sched.fireLast(t)
	require.Eventually(t, func() bool {
		return fetcher.callCount() == 2
	}, time.Second, time.Millisecond)
}

func TestEngine_MutedAutoplayFallback(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{rejectUnmuted: true}
	engine, _ := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)
	engine.OnMediaReady()

	require.Len(t, player.playCalls, 2)
	assert.False(t, player.playCalls[0])
	assert.True(t, player.playCalls[1])
	assert.NoError(t, engine.LastError())
}

func TestEngine_ExternalPauseAutoResumes(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)
	engine.OnMediaReady()
	sched.fireLast(t)
	require.Equal(t, StatePlaying, engine.State())

	plays := len(player.playCalls)
	engine.OnExternalPause()
	assert.Len(t, player.playCalls, plays+1)
	assert.Equal(t, StatePlaying, engine.State())
}

func TestEngine_ChannelSwitchDiscardsStaleFetch(t *testing.T) {
	clock := newFakeClock(1_000_000)
	gate := make(chan struct{})
	stale := descriptor(1_000_000)
	stale.Src = "/media/stale.mp4"
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: stale, ServerTimeMs: 1_000_000},
		gate:   gate,
	}
	player := &fakePlayer{}
	engine, _ := newTestEngine(clock, fetcher, player)

	engine.Tune("first")
	require.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, time.Millisecond)

	// Switch channels while the first fetch is blocked in flight
	fresh := descriptor(1_000_000)
	fresh.Src = "/media/fresh.mp4"
	fetcher.mu.Lock()
	fetcher.result = &FetchResult{Playing: fresh, ServerTimeMs: 1_000_000}
	fetcher.gate = nil
	fetcher.mu.Unlock()

	engine.Tune("second")
	close(gate)

	awaitState(t, engine, StateSeeking)
	require.Eventually(t, func() bool {
		player.mu.Lock()
		defer player.mu.Unlock()
		return len(player.loads) > 0
	}, time.Second, time.Millisecond)

	// Only the fresh descriptor ever reaches the player
	player.mu.Lock()
	defer player.mu.Unlock()
	for _, src := range player.loads {
		assert.Equal(t, "/media/fresh.mp4", src)
	}
}

func TestEngine_StopCancelsEverything(t *testing.T) {
	clock := newFakeClock(1_000_000)
	fetcher := &fakeFetcher{
		clock:  clock,
		result: &FetchResult{Playing: descriptor(1_000_000), ServerTimeMs: 1_000_000},
	}
	player := &fakePlayer{}
	engine, sched := newTestEngine(clock, fetcher, player)

	engine.Tune("retro")
	awaitState(t, engine, StateSeeking)

	engine.Stop()
	assert.Equal(t, StateIdle, engine.State())
	assert.Nil(t, engine.Current())
	assert.Empty(t, sched.pending())
}
