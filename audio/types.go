package audio

import "errors"

// SoundType represents the urgency cues
type SoundType int

const (
	SoundPulse    SoundType = iota // Countdown urgency pulse
	SoundPurchase                  // Purchase confirmed
	SoundScarcity                  // Scarcity spike
	SoundMismatch                  // Purchase exceeded stock
	soundTypeCount
)

var soundNames = [soundTypeCount]string{
	SoundPulse:    "pulse",
	SoundPurchase: "purchase",
	SoundScarcity: "scarcity",
	SoundMismatch: "mismatch",
}

func (s SoundType) String() string {
	if s < 0 || s >= soundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}

// parseSoundType maps a cue name to its type
func parseSoundType(name string) (SoundType, bool) {
	for i, n := range soundNames {
		if n == name {
			return SoundType(i), true
		}
	}
	return 0, false
}

// Sentinel errors
var (
	ErrAudioDisabled = errors.New("audio disabled by configuration")
)
