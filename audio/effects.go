package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/urgency/constants"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *rand.Rand
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    rand.New(rand.NewPCG(uint64(freq*1000)+1, uint64(duration))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/release envelope over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0

		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume; zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreatePulseSound generates a heartbeat double-thump for the urgency pulse
func CreatePulseSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	beat := func(freq float64) beep.Streamer {
		osc := NewOscillator(freq, constants.PulseSoundBeatDuration, WaveSine, rate)
		return NewEnvelope(osc, constants.PulseSoundBeatDuration, constants.PulseSoundAttack, constants.PulseSoundRelease, rate)
	}

	sequence := beep.Seq(
		beat(70),
		beep.Silence(rate.N(constants.PulseSoundBeatGap)),
		beat(55),
	)

	vol := cfg.EffectVolumes[SoundPulse] * cfg.MasterVolume
	return newVolume(sequence, vol)
}

// CreatePurchaseSound generates a two-note chime for a confirmed purchase
func CreatePurchaseSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	// First note (B5)
	n1 := NewOscillator(987.77, constants.PurchaseSoundNote1Duration, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, constants.PurchaseSoundNote1Duration, constants.PurchaseSoundAttack, constants.PurchaseSoundNote1Release, rate)

	// Second note (E6)
	n2 := NewOscillator(1318.51, constants.PurchaseSoundNote2Duration, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, constants.PurchaseSoundNote2Duration, constants.PurchaseSoundAttack, constants.PurchaseSoundNote2Release, rate)

	vol := cfg.EffectVolumes[SoundPurchase] * cfg.MasterVolume
	return newVolume(beep.Seq(n1Shaped, n2Shaped), vol)
}

// CreateScarcitySound generates a rising noise swell for a scarcity spike
func CreateScarcitySound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	noise := NewOscillator(0, constants.ScarcitySoundDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, constants.ScarcitySoundDuration, constants.ScarcitySoundAttack, constants.ScarcitySoundRelease, rate)

	tone := NewOscillator(220, constants.ScarcitySoundDuration, WaveSaw, rate)
	toneShaped := NewEnvelope(tone, constants.ScarcitySoundDuration, constants.ScarcitySoundAttack, constants.ScarcitySoundRelease, rate)

	mixed := beep.Mix(
		newVolume(shaped, 0.6),
		newVolume(toneShaped, 0.4),
	)

	vol := cfg.EffectVolumes[SoundScarcity] * cfg.MasterVolume
	return newVolume(mixed, vol)
}

// CreateMismatchSound generates a short low buzz for an unfulfilled purchase
func CreateMismatchSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(100.0, constants.MismatchSoundDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, constants.MismatchSoundDuration, constants.MismatchSoundAttack, constants.MismatchSoundRelease, rate)

	vol := cfg.EffectVolumes[SoundMismatch] * cfg.MasterVolume
	return newVolume(shaped, vol)
}

// GetSoundEffect returns the streamer for the given cue, nil for unknown types
func GetSoundEffect(soundType SoundType, cfg *AudioConfig) beep.Streamer {
	switch soundType {
	case SoundPulse:
		return CreatePulseSound(cfg)
	case SoundPurchase:
		return CreatePurchaseSound(cfg)
	case SoundScarcity:
		return CreateScarcitySound(cfg)
	case SoundMismatch:
		return CreateMismatchSound(cfg)
	default:
		return nil
	}
}
