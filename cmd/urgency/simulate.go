package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/urgency/config"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/widget"
)

// simulationEpoch anchors virtual time so traces are reproducible
var simulationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type simulateOptions struct {
	Duration time.Duration
	Step     time.Duration
	BuyEvery time.Duration
	Format   string
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print a deterministic headless trace of the widget",
	Long: `Simulate drives the widget from a virtual clock and prints one frame per
step. With a fixed --seed the trace is identical on every run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		product, err := lookupProduct(cmd)
		if err != nil {
			return err
		}
		if cfg.Seed == 0 {
			cfg.Seed = 1
		}
		return simulate(cmd.OutOrStdout(), cfg, product, simOpts, logger)
	},
}

func init() {
	simulateCmd.Flags().DurationVar(&simOpts.Duration, "duration", 30*time.Second, "Virtual time to simulate")
	simulateCmd.Flags().DurationVar(&simOpts.Step, "step", time.Second, "Virtual time between frames")
	simulateCmd.Flags().DurationVar(&simOpts.BuyEvery, "buy-every", 0, "Confirm a purchase at this period, zero never buys")
	simulateCmd.Flags().StringVar(&simOpts.Format, "format", "text", "Output format: text or yaml")
}

// simulationFrame is one printed step
type simulationFrame struct {
	Elapsed   time.Duration `yaml:"elapsed"`
	Countdown string        `yaml:"countdown"`
	Stock     int           `yaml:"stock"`
	Price     string        `yaml:"price"`
	Message   string        `yaml:"message"`
	Quantity  int           `yaml:"quantity"`
	InCart    int           `yaml:"in_cart"`
	Effects   int           `yaml:"effects"`
	Ran       int           `yaml:"callbacks"`
}

func simulate(w io.Writer, cfg *config.Config, product widget.Product, o simulateOptions, logger *zap.Logger) error {
	if o.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", o.Step)
	}
	if o.Format != "text" && o.Format != "yaml" {
		return fmt.Errorf("unknown format %q", o.Format)
	}

	clock := engine.NewManualClock(simulationEpoch)
	b, err := widget.New(product, cfg, widget.WithManualClock(clock), widget.WithLogger(logger))
	if err != nil {
		return err
	}
	defer b.Unmount()
	if err := b.Mount(); err != nil {
		return err
	}

	var frames []simulationFrame
	for elapsed := o.Step; elapsed <= o.Duration; elapsed += o.Step {
		ran, err := b.Advance(o.Step)
		if err != nil {
			return err
		}
		if o.BuyEvery > 0 && elapsed%o.BuyEvery < o.Step {
			if _, err := b.ConfirmPurchase(); err != nil {
				return err
			}
		}

		snap := b.Snapshot()
		frames = append(frames, simulationFrame{
			Elapsed:   elapsed,
			Countdown: snap.Countdown.String(),
			Stock:     int(snap.Stock),
			Price:     snap.DisplayPrice().String(),
			Message:   snap.Social.Message,
			Quantity:  snap.Cart.Quantity,
			InCart:    snap.Cart.ItemsInCart,
			Effects:   len(snap.Effects),
			Ran:       ran,
		})
	}

	if o.Format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(frames); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, f := range frames {
		if _, err := fmt.Fprintf(w, "%8s  %s  stock=%-3d price=%-8s qty=%d cart=%d fx=%-3d %s\n",
			f.Elapsed, f.Countdown, f.Stock, f.Price, f.Quantity, f.InCart, f.Effects, f.Message); err != nil {
			return err
		}
	}
	return nil
}
