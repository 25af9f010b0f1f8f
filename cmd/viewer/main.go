// Command viewer is a headless test client. It tunes the sync engine to a
// channel and logs every load, seek and state change instead of rendering
// video, which makes it useful for watching synchronization behavior against
// a running server.
package main

import (
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/playersync"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "API base URL")
	channel := flag.String("channel", "", "channel ID or short name to tune")
	level := flag.String("log-level", "debug", "log level")
	flag.Parse()

	logger.Init(*level, true)

	if *channel == "" {
		logger.Log.Fatal().Msg("A channel is required, pass -channel")
	}

	player := newConsolePlayer()
	fetcher := playersync.NewHTTPFetcher(*serverURL, nil)
	engine := playersync.NewEngine(playersync.DefaultConfig(), fetcher, player, nil, nil)
	player.onLoad = engine.OnMediaReady

	logger.Log.Info().
		Str("server", *serverURL).
		Str("channel", *channel).
		Msg("Tuning")
	engine.Tune(*channel)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			state := engine.State()
			event := logger.Log.Info().Str("state", string(state))
			if current := engine.Current(); current != nil {
				event = event.
					Str("title", current.Title).
					Float64("position", player.Position())
			}
			if err := engine.LastError(); err != nil {
				event = event.Err(err)
			}
			event.Msg("Viewer status")
		case <-quit:
			engine.Stop()
			logger.Log.Info().Msg("Viewer stopped")
			return
		}
	}
}

// consolePlayer simulates a media element: it tracks a playhead with wall
// time and reports loads and seeks as log lines.
type consolePlayer struct {
	mu       sync.Mutex
	src      string
	basePos  float64
	baseTime time.Time
	playing  bool

	onLoad func()
}

func newConsolePlayer() *consolePlayer {
	return &consolePlayer{}
}

func (p *consolePlayer) Load(src string) {
	p.mu.Lock()
	p.src = src
	p.basePos = 0
	p.baseTime = time.Now()
	p.playing = false
	p.mu.Unlock()

	logger.Log.Info().Str("src", src).Msg("Player load")

	// A real media element fires readiness asynchronously after buffering
	if p.onLoad != nil {
		go p.onLoad()
	}
}

func (p *consolePlayer) Play(muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		p.baseTime = time.Now()
		p.playing = true
	}
	logger.Log.Info().Bool("muted", muted).Msg("Player play")
	return nil
}

func (p *consolePlayer) Seek(offsetSeconds float64) {
	p.mu.Lock()
	p.basePos = offsetSeconds
	p.baseTime = time.Now()
	p.mu.Unlock()

	logger.Log.Info().Float64("offset", offsetSeconds).Msg("Player seek")
}

func (p *consolePlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return p.basePos
	}
	return p.basePos + time.Since(p.baseTime).Seconds()
}
