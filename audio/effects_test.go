package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to completion and returns the sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer, limit int) (total int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatalf("Streamer did not finish within %d samples", limit)
	return total, peak
}

// TestOscillatorWaves verifies every wave shape stays within [-1, 1]
func TestOscillatorWaves(t *testing.T) {
	rate := beep.SampleRate(44100)

	tests := []struct {
		name string
		wave WaveType
		freq float64
	}{
		{"sine", WaveSine, 440},
		{"square", WaveSquare, 220},
		{"saw", WaveSaw, 110},
		{"noise", WaveNoise, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(tt.freq, 50*time.Millisecond, tt.wave, rate)

			samples := make([][2]float64, 100)
			n, ok := osc.Stream(samples)
			if !ok || n != 100 {
				t.Fatalf("Expected 100 samples, got %d (ok=%v)", n, ok)
			}
			for i := 0; i < n; i++ {
				if samples[i][0] < -1 || samples[i][0] > 1 {
					t.Errorf("Sample %d out of range: %f", i, samples[i][0])
				}
				if samples[i][0] != samples[i][1] {
					t.Errorf("Sample %d channels differ", i)
				}
			}
			if tt.wave == WaveSquare {
				for i := 0; i < n; i++ {
					if v := samples[i][0]; v != -1 && v != 1 {
						t.Errorf("Square sample %d should be ±1, got %f", i, v)
					}
				}
			}
		})
	}
}

// TestOscillatorFinite verifies the oscillator stops after its duration
func TestOscillatorFinite(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 10*time.Millisecond, WaveSine, rate)

	total, _ := drain(t, osc, rate.N(time.Second))
	if want := rate.N(10 * time.Millisecond); total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

// TestEnvelopeShaping verifies attack starts silent and the stream ends on time
func TestEnvelopeShaping(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, rate) // constant +1
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	samples := make([][2]float64, 4)
	env.Stream(samples)
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if samples[3][0] <= samples[1][0] {
		t.Errorf("Expected rising attack, got %f then %f", samples[1][0], samples[3][0])
	}
	if env.Err() != nil {
		t.Errorf("Unexpected error: %v", env.Err())
	}
}

// TestCueSounds verifies every cue is finite, audible and within range
func TestCueSounds(t *testing.T) {
	cfg := DefaultAudioConfig()
	limit := beep.SampleRate(cfg.SampleRate).N(2 * time.Second)

	for st := SoundType(0); st < soundTypeCount; st++ {
		t.Run(st.String(), func(t *testing.T) {
			s := GetSoundEffect(st, cfg)
			if s == nil {
				t.Fatal("Expected streamer")
			}
			total, peak := drain(t, s, limit)
			if total == 0 {
				t.Error("Cue produced no samples")
			}
			if peak == 0 || peak > 1 {
				t.Errorf("Unexpected peak %f", peak)
			}
		})
	}

	if GetSoundEffect(soundTypeCount, cfg) != nil {
		t.Error("Unknown sound type should return nil")
	}
}

// TestCueSoundMuted verifies zero volume yields silence
func TestCueSoundMuted(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.MasterVolume = 0

	_, peak := drain(t, CreatePurchaseSound(cfg), beep.SampleRate(cfg.SampleRate).N(time.Second))
	if peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}
