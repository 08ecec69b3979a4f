package render

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/events"
)

// Palette
var (
	RgbBackground = RGB{26, 27, 38} // Tokyo Night background
	RgbText       = RGB{192, 202, 245}
	RgbMuted      = RGB{120, 124, 150}
	RgbPrice      = RGB{255, 255, 255}
	RgbPriceUp    = RGB{255, 120, 120}
	RgbPriceDown  = RGB{120, 220, 120}
	RgbStockOK    = RGB{0, 200, 0}
	RgbStockLow   = RGB{255, 80, 80}
	RgbCalm       = RGB{135, 206, 250}
	RgbUrgent     = RGB{255, 60, 60}
	RgbButtonBg   = RGB{255, 165, 0}
	RgbButtonText = RGB{0, 0, 0}
	RgbFavorite   = RGB{255, 105, 180}

	RgbModeLiveBg   = RGB{144, 238, 144}
	RgbModePausedBg = RGB{255, 165, 0}
	RgbModeEndedBg  = RGB{200, 50, 50}
)

// effectPalette maps semantic effect colors to terminal colors
var effectPalette = [components.EffectColorCount]RGB{
	components.EffectColorNone:  {200, 200, 200},
	components.EffectColorGold:  {255, 215, 0},
	components.EffectColorRed:   {255, 80, 80},
	components.EffectColorGreen: {80, 220, 100},
	components.EffectColorBlue:  {100, 150, 255},
	components.EffectColorPink:  {255, 105, 180},
	components.EffectColorWhite: {255, 255, 255},
}

// toastPalette maps toast kinds to their background
var toastPalette = map[events.ToastKind]RGB{
	events.ToastInfo:    {100, 150, 255},
	events.ToastSuccess: {80, 200, 100},
	events.ToastWarning: {255, 165, 0},
}

// EffectRGB returns the palette color of c, fading toward the background as progress reaches 1
func EffectRGB(c components.EffectColor, progress float64) RGB {
	if c >= components.EffectColorCount {
		c = components.EffectColorNone
	}
	return effectPalette[c].Blend(RgbBackground, progress)
}

// CountdownRGB shifts from calm to urgent as the remaining time drops under the urgent threshold
func CountdownRGB(remaining time.Duration) RGB {
	if remaining >= constants.CountdownUrgent {
		return RgbCalm
	}
	if remaining <= 0 {
		return RgbUrgent
	}
	t := 1 - float64(remaining)/float64(constants.CountdownUrgent)
	return RgbCalm.Lerp(RgbUrgent, t)
}

// ToastRGB returns the background of a toast kind
func ToastRGB(k events.ToastKind) RGB {
	if c, ok := toastPalette[k]; ok {
		return c
	}
	return RgbMuted
}

// baseStyle is the default cell style
func baseStyle() tcell.Style {
	return tcell.StyleDefault.Background(RgbBackground.Color()).Foreground(RgbText.Color())
}
