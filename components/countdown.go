// @focus: #lifecycle { countdown }
package components

import (
	"fmt"
	"time"
)

const hundredth = 10 * time.Millisecond

// CountdownState is the remaining duration at hundredth-of-a-second resolution
// Seconds stays in 0..59 and Hundredths in 0..99; the zero value is the terminal state
type CountdownState struct {
	Minutes    uint
	Seconds    uint
	Hundredths uint
}

// NewCountdown encodes d, truncated to hundredths; negative durations encode as zero
func NewCountdown(d time.Duration) CountdownState {
	if d <= 0 {
		return CountdownState{}
	}
	return countdownFromHundredths(uint64(d / hundredth))
}

func countdownFromHundredths(total uint64) CountdownState {
	return CountdownState{
		Minutes:    uint(total / 6000),
		Seconds:    uint(total / 100 % 60),
		Hundredths: uint(total % 100),
	}
}

// TotalHundredths returns the remaining duration in hundredths of a second
func (c CountdownState) TotalHundredths() uint64 {
	return uint64(c.Minutes)*6000 + uint64(c.Seconds)*100 + uint64(c.Hundredths)
}

// Duration decodes the state
func (c CountdownState) Duration() time.Duration {
	return time.Duration(c.TotalHundredths()) * hundredth
}

// IsZero reports the terminal state
func (c CountdownState) IsZero() bool {
	return c.Minutes == 0 && c.Seconds == 0 && c.Hundredths == 0
}

// AtSecondBoundary reports Seconds == 0 && Hundredths == 0
func (c CountdownState) AtSecondBoundary() bool {
	return c.Seconds == 0 && c.Hundredths == 0
}

// Step removes n hundredths, borrowing through seconds and minutes, clamping at zero
func (c CountdownState) Step(n uint64) CountdownState {
	total := c.TotalHundredths()
	if n >= total {
		return CountdownState{}
	}
	return countdownFromHundredths(total - n)
}

// String formats as MM:SS.hh
func (c CountdownState) String() string {
	return fmt.Sprintf("%02d:%02d.%02d", c.Minutes, c.Seconds, c.Hundredths)
}
