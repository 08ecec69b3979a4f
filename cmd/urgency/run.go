package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/urgency/audio"
	"github.com/lixenwraith/urgency/config"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/core"
	"github.com/lixenwraith/urgency/metrics"
	"github.com/lixenwraith/urgency/render"
	"github.com/lixenwraith/urgency/status"
	"github.com/lixenwraith/urgency/systems"
	"github.com/lixenwraith/urgency/widget"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live widget in the terminal",
	Long: `Run mounts the widget on the terminal and drives it in real time.

Keys: + and - change quantity, v cycles the variant, b or Enter buys,
f toggles favorite, s shares, p pauses, q or Esc quits. Moving the mouse
leaves a trail. The config file is watched and social proof messages are
reloaded on change.`,
	Args: cobra.NoArgs,
	RunE: runLive,
}

func init() {
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, overrides the config")
}

// logCheckout hands confirmed purchases to the log
type logCheckout struct {
	logger *zap.Logger
}

func (c logCheckout) PurchaseConfirmed(p widget.PurchaseConfirmation) {
	c.logger.Info("purchase confirmed",
		zap.Stringer("id", p.ID),
		zap.String("product", p.ProductID),
		zap.String("variant", p.Variant),
		zap.Int("quantity", p.Quantity),
		zap.Stringer("total", p.Total()),
	)
}

func runLive(cmd *cobra.Command, args []string) error {
	product, err := lookupProduct(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Addr = addr
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	core.SetCrashCleanup(screen.Fini)
	screen.EnableMouse(tcell.MouseMotionEvents)

	// Prometheus registry carries the event recorder and the status snapshot
	statusReg := status.NewRegistry()
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		metrics.NewStatusCollector(statusReg),
		collectors.NewGoCollector(),
	)
	recorder := metrics.NewRecorder(promReg)

	presenter := render.NewPresenter(screen, systems.DefaultCartAnchors())
	opts := []widget.Option{
		widget.WithLogger(logger),
		widget.WithRegistry(statusReg),
		widget.WithNotifier(presenter),
		widget.WithCheckout(logCheckout{logger: logger}),
		widget.WithHandler(recorder),
	}

	audioCfg := audio.LoadAudioConfig()
	audioCfg.Enabled = audioCfg.Enabled || cfg.Audio.Enabled
	sound := audio.NewSoundManager(audioCfg, logger)
	soundErr := sound.Initialize()
	switch {
	case soundErr == nil:
		opts = append(opts, widget.WithCue(sound))
	case !errors.Is(soundErr, audio.ErrAudioDisabled):
		logger.Warn("audio unavailable, continuing without cues", zap.Error(soundErr))
	}

	b, err := widget.New(product, cfg, opts...)
	if err != nil {
		return err
	}
	if soundErr == nil {
		b.OnUnmount(func() error {
			sound.Cleanup()
			return nil
		})
	}
	if err := b.Mount(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		srv, err := metrics.NewServer(cfg.Metrics.Addr, promReg)
		if err != nil {
			return err
		}
		g.Go(func() error { return srv.Run(gctx) })
	}

	if _, err := os.Stat(configPath); err == nil {
		g.Go(func() error {
			return config.Watch(gctx, configPath, logger, func(next *config.Config, err error) {
				if err != nil {
					logger.Warn("config reload rejected", zap.Error(err))
					return
				}
				b.Reload(next)
			})
		})
	}

	// PollEvent only returns nil after Fini, so the poller stays outside the group
	input := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-gctx.Done():
				return
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		return loop(gctx, screen, presenter, b, input)
	})

	var result *multierror.Error
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		result = multierror.Append(result, err)
	}
	if err := b.Unmount(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// loop redraws at the frame rate and routes input until quit or ctx is done
func loop(ctx context.Context, screen tcell.Screen, presenter *render.Presenter, b *widget.BuyButton, input <-chan tcell.Event) error {
	frames := time.NewTicker(constants.FrameInterval)
	defer frames.Stop()

	presenter.Draw(b.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames.C:
			presenter.Draw(b.Snapshot())
		case ev := <-input:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventMouse:
				x, y := ev.Position()
				b.PointerMoved(float64(x), float64(y))
			case *tcell.EventKey:
				if !handleKey(b, ev) {
					return nil
				}
			}
		}
	}
}

// handleKey applies one key press and reports whether the widget should keep running
func handleKey(b *widget.BuyButton, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		b.ConfirmPurchase()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case '+', '=':
		b.IncrementQuantity()
	case '-', '_':
		b.DecrementQuantity()
	case 'v':
		b.ChangeVariant(nextVariant(b.Product().Variants, b.Snapshot().Cart.Variant))
	case 'b':
		b.ConfirmPurchase()
	case 'f':
		b.ToggleFavorite()
	case 's':
		b.Share()
	case 'p':
		if !b.Pause() {
			b.Resume()
		}
	}
	return true
}

// nextVariant returns the variant after current, wrapping around
func nextVariant(variants []string, current string) string {
	if len(variants) == 0 {
		return ""
	}
	for i, v := range variants {
		if v == current {
			return variants[(i+1)%len(variants)]
		}
	}
	return variants[0]
}
