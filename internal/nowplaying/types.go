package nowplaying

// NowPlaying describes the on-air asset for a channel at one instant. It is
// ephemeral: recomputed fresh for every request as a pure function of
// (schedule, catalog, now), never persisted or cached.
type NowPlaying struct {
	// Title of the asset for display
	Title string `json:"title"`

	// RelPath is the asset's relative path in the media catalog
	RelPath string `json:"rel_path"`

	// DurationSeconds is the effective playable window: for slots,
	// min(asset duration, scheduled span); for looping items, the item duration
	DurationSeconds int64 `json:"duration_seconds"`

	// StartOffsetSeconds is the playback position within the asset right now
	StartOffsetSeconds int64 `json:"start_offset_seconds"`

	// EndsAt is the absolute ms-epoch instant the current program ends
	EndsAt int64 `json:"ends_at"`

	// Src is the URL a player should load for this asset
	Src string `json:"src"`

	// ServerTimeMs is the server clock at resolution time, the anchor for
	// client-side latency compensation
	ServerTimeMs int64 `json:"server_time_ms"`
}

// program is an intermediate resolution result shared by both resolvers
type program struct {
	title            string
	relPath          string
	durationSeconds  int64
	offsetSeconds    int64
	remainingSeconds int64
}
