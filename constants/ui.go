package constants

import "time"

// Widget layout, in terminal cells from the widget origin
const (
	// WidgetWidth is the minimum screen width the presenter lays out for
	WidgetWidth = 48
	// WidgetHeight is the minimum screen height the presenter lays out for
	WidgetHeight = 16

	RowTitle     = 1
	RowCountdown = 3
	RowStock     = 4
	RowPrice     = 5
	RowQuantity  = 6
	RowVariant   = 7
	RowButton    = 9
	RowSocial    = 11
	RowToast     = 13
	RowHelp      = 15

	// ColumnLabel is where every row's label starts
	ColumnLabel = 2
	// ColumnValue is where every row's value starts
	ColumnValue = 12

	// StockBarWidth is the cell width of the stock gauge
	StockBarWidth = 20
	// SocialSlideCells is how far a sliding message starts from its resting column
	SocialSlideCells = 6
)

// UI timing
const (
	// ToastDuration is how long a toast stays on screen
	ToastDuration = 2500 * time.Millisecond
	// FrameInterval is the presenter redraw period
	FrameInterval = 33 * time.Millisecond
	// LowStockWarning is the level below which the stock row turns red
	LowStockWarning = 10
	// CountdownUrgent is the remaining time below which the countdown turns red
	CountdownUrgent = 30 * time.Second
)

// Mode indicator text
const (
	ModeTextLive   = " LIVE   "
	ModeTextPaused = " PAUSED "
	ModeTextEnded  = " ENDED  "
)
