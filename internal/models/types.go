package models

// ChannelKind discriminates how a channel's programming is resolved
type ChannelKind string

const (
	// ChannelKind24Hour schedules programming against time-of-day slots
	ChannelKind24Hour ChannelKind = "24hour"

	// ChannelKindLooping repeats a fixed playlist forever, positioned by
	// wall-clock seconds since the Unix epoch
	ChannelKindLooping ChannelKind = "looping"
)

// Valid reports whether the kind is one of the known discriminants
func (k ChannelKind) Valid() bool {
	return k == ChannelKind24Hour || k == ChannelKindLooping
}

// SecondsPerDay is the size of the time-of-day domain for slot scheduling
const SecondsPerDay = 86400
