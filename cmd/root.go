package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calebmoran/giftsim/internal/factories"
	"github.com/calebmoran/giftsim/internal/models"
	"github.com/calebmoran/giftsim/internal/repositories/postgres"
	"github.com/calebmoran/giftsim/internal/simulator"
	"github.com/calebmoran/giftsim/internal/simulator/producers"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "giftsim",
	Short: "Simulates third-party gift fulfillment order data",
	Long:  `giftsim is a CLI tool that synthesizes order lifecycles for a fictional gift fulfillment marketplace: historical backfill, a live order driver, and rolling vendor performance reports.`,
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Synthesize and store a historical order population",
	Run: func(cmd *cobra.Command, args []string) {
		sim, cleanup := buildSimulator()
		defer cleanup()

		if err := sim.RunBackfill(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Backfill failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the live order driver until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		sim, cleanup := buildSimulator()
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := sim.RunLive(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Live driver failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var watchChanges bool

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Compute 7-day vendor reports and the dashboard summary",
	Run: func(cmd *cobra.Command, args []string) {
		sim, cleanup := buildSimulator()
		defer cleanup()

		if !watchChanges {
			if err := sim.RunAggregation(context.Background(), time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "Aggregation failed: %v\n", err)
				os.Exit(1)
			}
			return
		}

		consumer, err := producers.NewSaramaConsumer(sim.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating consumer: %v\n", err)
			os.Exit(1)
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := sim.WatchAndAggregate(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			os.Exit(1)
		}
	},
}

// buildSimulator loads config, resolves the vendor catalog, connects the
// store and picks the notification destination. The returned cleanup
// closes everything it opened.
func buildSimulator() (*simulator.Simulator, func()) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading vendor catalog: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		fmt.Fprintf(os.Stderr, "Error preparing schema: %v\n", err)
		os.Exit(1)
	}

	var closers []func()
	closers = append(closers, pool.Close)

	var notifier simulator.OutputDestination
	switch {
	case cfg.KafkaEnabled:
		producer, err := producers.NewSaramaProducer(cfg)
		if err != nil {
			pool.Close()
			fmt.Fprintf(os.Stderr, "Error creating Kafka producer: %v\n", err)
			os.Exit(1)
		}
		closers = append(closers, func() { producer.Close() })
		notifier = producer
	case cfg.NotificationFile != "":
		fileOut := simulator.NewFileOutput(cfg.NotificationFile)
		closers = append(closers, func() { fileOut.Close() })
		notifier = fileOut
	default:
		notifier = &simulator.ConsoleOutput{}
	}

	orders := postgres.NewOrderRepository(pool)
	reports := postgres.NewReportRepository(pool)
	sim := simulator.NewSimulator(cfg, catalog, orders, reports, notifier)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return sim, cleanup
}

func loadCatalog(cfg *models.Config) (*models.VendorCatalog, error) {
	if cfg.VendorCatalogFile != "" {
		return models.LoadVendorCatalog(cfg.VendorCatalogFile)
	}

	n := cfg.InitialVendors
	if n <= 0 {
		n = 20
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	factory := &factories.VendorFactory{}
	return factory.CreateCatalog(n, rand.New(rand.NewSource(seed)))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().Int64("seed", 0, "Random seed (0 uses wall clock)")
	rootCmd.PersistentFlags().String("vendor-catalog-file", "", "Vendor catalog JSON file (generated when empty)")
	rootCmd.PersistentFlags().Int("initial-vendors", 20, "Number of vendors to generate when no catalog file is given")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Publish status changes to Kafka")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.PersistentFlags().String("status-topic", "order_status_events", "Topic for status change notifications")
	rootCmd.PersistentFlags().String("notification-file", "", "Directory for file notifications (if not using Kafka)")
	rootCmd.PersistentFlags().String("output-destination", "", "Parquet snapshot destination: local or s3 (disabled when empty)")
	rootCmd.PersistentFlags().String("output-path", "output", "Base path for local parquet snapshots")

	backfillCmd.Flags().Int("backfill-days", 90, "Days of history to synthesize")
	backfillCmd.Flags().String("backfill-end-date", time.Now().Format(time.RFC3339), "Last day of the synthesized history")
	backfillCmd.Flags().Int("daily-order-min", 50, "Minimum base daily order count")
	backfillCmd.Flags().Int("daily-order-max", 200, "Maximum base daily order count")
	backfillCmd.Flags().Float64("weekday-multiplier", 1.5, "Volume multiplier on weekdays")
	backfillCmd.Flags().Float64("weekend-multiplier", 0.6, "Volume multiplier on weekends")

	liveCmd.Flags().Int("min-active-orders", 25, "Open order floor below which every tick creates")
	liveCmd.Flags().Float64("new-order-probability", 0.3, "Chance a tick creates instead of advancing")
	liveCmd.Flags().Int("live-tick-seconds", 5, "Seconds between live driver ticks")

	aggregateCmd.Flags().BoolVar(&watchChanges, "watch", false, "Re-aggregate on status change notifications")

	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.BindPFlags(backfillCmd.Flags())
	viper.BindPFlags(liveCmd.Flags())

	rootCmd.AddCommand(backfillCmd, liveCmd, aggregateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
