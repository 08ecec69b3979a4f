package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/config"
	"github.com/lixenwraith/urgency/widget"
)

var (
	// Global flags
	configPath string
	productID  string
	seed       uint64
	verbose    bool

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "urgency",
	Short: "Scarcity and engagement effects for a buy button",
	Long: `urgency drives a product buy button with a countdown, decaying stock,
scarcity pricing, rotating social proof and short-lived visual effects.

Run "urgency run" for the live terminal widget or "urgency simulate" for a
deterministic headless trace.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("product") {
			loaded.Product.ID = productID
		}
		if cmd.Flags().Changed("seed") {
			loaded.Seed = seed
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		cfg = loaded

		// The live widget owns the terminal, so it only logs to a file
		quiet := cmd.Name() == runCmd.Name()
		logger, err = newLogger(cfg.Log, quiet)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "urgency.yaml", "Config file, defaults apply when missing")
	rootCmd.PersistentFlags().StringVarP(&productID, "product", "p", "", "Product id from the catalog")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Fix the random source, zero seeds from the clock")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
}

// lookupProduct resolves the configured product from the demo catalog
func lookupProduct(cmd *cobra.Command) (widget.Product, error) {
	return widget.DefaultCatalog().Product(cmd.Context(), cfg.Product.ID)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
