package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/constants"
)

// SoundManager plays urgency cues through the system speaker
// Every Play method is a no-op until Initialize succeeds, so the widget runs without audio
type SoundManager struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	logger      *zap.Logger
	mixer       *beep.Mixer
	initialized bool

	lastPlayed [soundTypeCount]time.Time
	played     [soundTypeCount]uint64
}

// NewSoundManager creates a new sound manager
func NewSoundManager(cfg *AudioConfig, logger *zap.Logger) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoundManager{
		cfg:    cfg,
		logger: logger,
		mixer:  &beep.Mixer{},
	}
}

// Initialize sets up the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return ErrAudioDisabled
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(constants.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.logger.Debug("audio initialized", zap.Int("sample_rate", sm.cfg.SampleRate))
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	// beep has no speaker Close; clearing the mixer silences output
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play queues one cue, rate limited per cue type
func (sm *SoundManager) Play(st SoundType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || st < 0 || st >= soundTypeCount {
		return
	}

	now := time.Now()
	if now.Sub(sm.lastPlayed[st]) < constants.MinCueGap {
		return
	}

	s := GetSoundEffect(st, sm.cfg)
	if s == nil {
		return
	}
	sm.lastPlayed[st] = now
	sm.played[st]++

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// PlayUrgencyPulse plays the countdown pulse
func (sm *SoundManager) PlayUrgencyPulse() {
	sm.Play(SoundPulse)
}

// PlayPurchase plays the chime, or the buzz when the purchase exceeded stock
func (sm *SoundManager) PlayPurchase(fulfilled bool) {
	if fulfilled {
		sm.Play(SoundPurchase)
		return
	}
	sm.Play(SoundMismatch)
}

// PlayScarcity plays the scarcity swell
func (sm *SoundManager) PlayScarcity() {
	sm.Play(SoundScarcity)
}

// Played returns how many times a cue was queued
func (sm *SoundManager) Played(st SoundType) uint64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if st < 0 || st >= soundTypeCount {
		return 0
	}
	return sm.played[st]
}
