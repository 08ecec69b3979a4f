package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/systems"
	"github.com/lixenwraith/urgency/widget"
)

// Presenter draws widget snapshots onto a terminal screen
// It also serves as the widget's toast notifier
type Presenter struct {
	screen  tcell.Screen
	anchors systems.CartAnchors

	mu      sync.Mutex
	toast   *widget.Toast
	toastAt time.Time
}

// NewPresenter creates a presenter over an initialized screen
// anchors must match the ones the widget spawns effects at
func NewPresenter(screen tcell.Screen, anchors systems.CartAnchors) *Presenter {
	return &Presenter{screen: screen, anchors: anchors}
}

// Notify implements widget.Notifier; the newest toast replaces any visible one
func (p *Presenter) Notify(t widget.Toast) {
	p.mu.Lock()
	p.toast = &t
	p.toastAt = time.Time{}
	p.mu.Unlock()
}

// Draw renders one frame of snap
func (p *Presenter) Draw(snap widget.Snapshot) {
	style := baseStyle()
	p.screen.Fill(' ', style)

	p.drawTitle(snap, style)
	p.drawCountdown(snap, style)
	p.drawStock(snap, style)
	p.drawPrice(snap, style)
	p.drawQuantity(snap, style)
	p.drawVariant(snap, style)
	p.drawButton(snap, style)
	p.drawSocial(snap, style)
	p.drawToast(snap.Now, style)
	p.drawText(constants.ColumnLabel, constants.RowHelp,
		"+/- qty  v variant  b buy  f fav  s share  p pause  q quit",
		style.Foreground(RgbMuted.Color()))

	// Effects overlay everything
	p.drawEffects(snap, style)

	p.screen.Show()
}

func (p *Presenter) drawTitle(snap widget.Snapshot, style tcell.Style) {
	p.drawText(constants.ColumnLabel, constants.RowTitle, snap.Product.Name, style.Bold(true))

	p.screen.SetContent(int(p.anchors.Share.X), constants.RowTitle, '⇪', nil, style)
	heart := '♡'
	if snap.Cart.Favorite {
		heart = '♥'
	}
	p.screen.SetContent(int(p.anchors.Favorite.X), constants.RowTitle, heart, nil, style.Foreground(RgbFavorite.Color()))

	mode, bg := constants.ModeTextLive, RgbModeLiveBg
	switch {
	case snap.Expired:
		mode, bg = constants.ModeTextEnded, RgbModeEndedBg
	case snap.Paused:
		mode, bg = constants.ModeTextPaused, RgbModePausedBg
	}
	p.drawText(constants.WidgetWidth-len(mode), constants.RowTitle, mode,
		style.Background(bg.Color()).Foreground(RgbButtonText.Color()))
}

func (p *Presenter) drawCountdown(snap widget.Snapshot, style tcell.Style) {
	p.drawText(constants.ColumnLabel, constants.RowCountdown, "Ends in", style)
	fg := CountdownRGB(snap.Countdown.Duration())
	p.drawText(constants.ColumnValue, constants.RowCountdown, snap.Countdown.String(), style.Foreground(fg.Color()).Bold(true))
}

func (p *Presenter) drawStock(snap widget.Snapshot, style tcell.Style) {
	p.drawText(constants.ColumnLabel, constants.RowStock, "Stock", style)

	fg := RgbStockOK
	if int(snap.Stock) < constants.LowStockWarning {
		fg = RgbStockLow
	}
	filled := StockBarCells(snap.Stock)
	for i := 0; i < constants.StockBarWidth; i++ {
		ch, s := '░', style.Foreground(RgbMuted.Color())
		if i < filled {
			ch, s = '█', style.Foreground(fg.Color())
		}
		p.screen.SetContent(constants.ColumnValue+i, constants.RowStock, ch, nil, s)
	}

	label := fmt.Sprintf("%d left", snap.Stock)
	if snap.Stock.IsLastOne() {
		label = "last one!"
	}
	p.drawText(constants.ColumnValue+constants.StockBarWidth+1, constants.RowStock, label, style.Foreground(fg.Color()))
}

// StockBarCells returns how many gauge cells a stock level fills
func StockBarCells(level components.StockLevel) int {
	n := int(level) * constants.StockBarWidth / constants.StockInitial
	if n == 0 && level > 0 {
		n = 1
	}
	return min(max(n, 0), constants.StockBarWidth)
}

func (p *Presenter) drawPrice(snap widget.Snapshot, style tcell.Style) {
	p.drawText(constants.ColumnLabel, constants.RowPrice, "Price", style)

	fg := RgbPrice
	switch {
	case snap.Jitter > 0:
		fg = RgbPriceUp
	case snap.Jitter < 0:
		fg = RgbPriceDown
	}
	x := p.drawText(constants.ColumnValue, constants.RowPrice, snap.DisplayPrice().String(), style.Foreground(fg.Color()).Bold(true))

	if inc := snap.Price.CumulativeIncrement; inc > 0 {
		p.drawText(x+1, constants.RowPrice, "▲ "+inc.String(), style.Foreground(RgbPriceUp.Color()))
	}
}

func (p *Presenter) drawQuantity(snap widget.Snapshot, style tcell.Style) {
	p.drawText(constants.ColumnLabel, constants.RowQuantity, "Qty", style)
	line := fmt.Sprintf("[-] %d [+]", snap.Cart.Quantity)
	x := p.drawText(constants.ColumnValue, constants.RowQuantity, line, style)
	p.drawText(x+2, constants.RowQuantity, fmt.Sprintf("max %d", snap.MaxQuantity), style.Foreground(RgbMuted.Color()))
	if snap.Cart.ItemsInCart > 0 {
		p.drawText(x+10, constants.RowQuantity, fmt.Sprintf("cart %d", snap.Cart.ItemsInCart), style.Foreground(RgbStockOK.Color()))
	}
}

func (p *Presenter) drawVariant(snap widget.Snapshot, style tcell.Style) {
	if len(snap.Product.Variants) == 0 {
		return
	}
	p.drawText(constants.ColumnLabel, constants.RowVariant, "Variant", style)
	x := constants.ColumnValue
	for _, v := range snap.Product.Variants {
		s := style.Foreground(RgbMuted.Color())
		label := " " + v + " "
		if v == snap.Cart.Variant {
			s = style.Bold(true)
			label = "[" + v + "]"
		}
		x = p.drawText(x, constants.RowVariant, label, s) + 1
	}
}

func (p *Presenter) drawButton(snap widget.Snapshot, style tcell.Style) {
	label := " BUY NOW "
	if snap.Stock.IsLastOne() {
		label = " BUY THE LAST ONE "
	}
	x := int(p.anchors.Button.X) - len(label)/2
	p.drawText(x, constants.RowButton, label, style.Background(RgbButtonBg.Color()).Foreground(RgbButtonText.Color()).Bold(true))
}

func (p *Presenter) drawSocial(snap widget.Snapshot, style tcell.Style) {
	if snap.Social.Index < 0 {
		return
	}
	dx, dy := SlideOffset(snap.Social.Direction)
	s := style.Foreground(RgbText.Color()).Italic(true)
	if snap.Social.Transitioning() {
		s = s.Foreground(RgbMuted.Color())
	}
	p.drawText(constants.ColumnLabel+dx, constants.RowSocial+dy, snap.Social.Message, s)
}

// SlideOffset returns where a message sits while sliding in from d
func SlideOffset(d components.Direction) (dx, dy int) {
	switch d {
	case components.DirectionLeft:
		return -constants.SocialSlideCells, 0
	case components.DirectionRight:
		return constants.SocialSlideCells, 0
	case components.DirectionTop:
		return 0, -1
	case components.DirectionBottom:
		return 0, 1
	}
	return 0, 0
}

func (p *Presenter) drawToast(now time.Time, style tcell.Style) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.toast == nil {
		return
	}
	if p.toastAt.IsZero() {
		p.toastAt = now
	}
	if now.Sub(p.toastAt) >= constants.ToastDuration {
		p.toast = nil
		return
	}
	bg := ToastRGB(p.toast.Kind)
	p.drawText(constants.ColumnLabel, constants.RowToast, " "+p.toast.Message+" ",
		style.Background(bg.Color()).Foreground(RgbButtonText.Color()))
}

func (p *Presenter) drawEffects(snap widget.Snapshot, style tcell.Style) {
	w, h := p.screen.Size()
	for _, rec := range snap.Effects {
		pos := rec.PositionAt(snap.Now)
		x, y := int(pos.X), int(pos.Y)
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		glyph := rec.Params.Glyph
		if glyph == 0 {
			glyph = '*'
		}
		fg := EffectRGB(rec.Params.Color, rec.Progress(snap.Now))
		p.screen.SetContent(x, y, glyph, nil, style.Foreground(fg.Color()))
	}
}

// drawText writes s from (x, y), clipped to the screen, and returns the column after it
func (p *Presenter) drawText(x, y int, s string, style tcell.Style) int {
	w, _ := p.screen.Size()
	s = strings.ReplaceAll(s, "\n", " ")
	for _, r := range s {
		if x >= 0 && x < w {
			p.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}
