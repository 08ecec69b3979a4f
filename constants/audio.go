package constants

import "time"

// Audio Engine
const (
	// AudioSampleRate is the default output rate
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// MinCueGap is the minimum gap between two plays of the same cue
	MinCueGap = 50 * time.Millisecond
)

// Pulse Cue Timing
const (
	PulseSoundBeatDuration = 90 * time.Millisecond
	PulseSoundBeatGap      = 60 * time.Millisecond
	PulseSoundAttack       = 5 * time.Millisecond
	PulseSoundRelease      = 60 * time.Millisecond
)

// Purchase Cue Timing
const (
	PurchaseSoundNote1Duration = 80 * time.Millisecond
	PurchaseSoundNote2Duration = 280 * time.Millisecond
	PurchaseSoundAttack        = 5 * time.Millisecond
	PurchaseSoundNote1Release  = 40 * time.Millisecond
	PurchaseSoundNote2Release  = 200 * time.Millisecond
)

// Scarcity Cue Timing
const (
	ScarcitySoundDuration = 300 * time.Millisecond
	ScarcitySoundAttack   = 150 * time.Millisecond
	ScarcitySoundRelease  = 150 * time.Millisecond
)

// Mismatch Cue Timing
const (
	MismatchSoundDuration = 80 * time.Millisecond
	MismatchSoundAttack   = 5 * time.Millisecond
	MismatchSoundRelease  = 20 * time.Millisecond
)
