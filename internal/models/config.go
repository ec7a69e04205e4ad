package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// GiftCategory is one bucket of the configured categorical distribution
// used by the backfill synthesizer and the live driver.
type GiftCategory struct {
	Name     string  `mapstructure:"name"`
	Weight   float64 `mapstructure:"weight"`
	MinValue int     `mapstructure:"min_value"` // minor currency units
	MaxValue int     `mapstructure:"max_value"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Seed int64 `mapstructure:"seed"`

	// Backfill
	BackfillDays    int       `mapstructure:"backfill_days"`
	BackfillEndDate time.Time `mapstructure:"backfill_end_date"`

	// Daily volume model
	DailyOrderMin     int     `mapstructure:"daily_order_min"`
	DailyOrderMax     int     `mapstructure:"daily_order_max"`
	WeekdayMultiplier float64 `mapstructure:"weekday_multiplier"`
	WeekendMultiplier float64 `mapstructure:"weekend_multiplier"`

	RushProbability float64        `mapstructure:"rush_probability"`
	GiftCategories  []GiftCategory `mapstructure:"gift_categories"`

	// Vendor catalog: load from file when set, otherwise generate.
	VendorCatalogFile string `mapstructure:"vendor_catalog_file"`
	InitialVendors    int    `mapstructure:"initial_vendors"`

	// Live driver heuristic
	MinActiveOrders     int     `mapstructure:"min_active_orders"`
	NewOrderProbability float64 `mapstructure:"new_order_probability"`
	LiveTickSeconds     int     `mapstructure:"live_tick_seconds"`

	// Change notifications
	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	StatusTopic      string `mapstructure:"status_topic"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
	NotificationFile string `mapstructure:"notification_file"`

	Database DatabaseConfig `mapstructure:"database"`

	// Parquet snapshot export
	OutputDestination string             `mapstructure:"output_destination"` // "", "local" or "s3"
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("backfill_end_date", time.Now().Format(time.RFC3339))
	viper.SetDefault("weekday_multiplier", 1.5)
	viper.SetDefault("weekend_multiplier", 0.6)
	viper.SetDefault("rush_probability", 0.15)
	viper.SetDefault("status_topic", "order_status_events")
	viper.SetDefault("min_active_orders", 25)
	viper.SetDefault("new_order_probability", 0.3)
	viper.SetDefault("live_tick_seconds", 5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	if cfg.DailyOrderMin <= 0 || cfg.DailyOrderMax < cfg.DailyOrderMin {
		return fmt.Errorf("invalid daily order range [%d,%d]", cfg.DailyOrderMin, cfg.DailyOrderMax)
	}
	if cfg.WeekdayMultiplier <= 0 || cfg.WeekendMultiplier <= 0 {
		return fmt.Errorf("volume multipliers must be positive")
	}
	if cfg.RushProbability < 0 || cfg.RushProbability > 1 {
		return fmt.Errorf("rush_probability %.2f out of range [0,1]", cfg.RushProbability)
	}
	if cfg.NewOrderProbability < 0 || cfg.NewOrderProbability > 1 {
		return fmt.Errorf("new_order_probability %.2f out of range [0,1]", cfg.NewOrderProbability)
	}
	if cfg.MinActiveOrders < 0 {
		return fmt.Errorf("min_active_orders must not be negative, got %d", cfg.MinActiveOrders)
	}
	if len(cfg.GiftCategories) == 0 {
		return fmt.Errorf("at least one gift category is required")
	}
	for _, cat := range cfg.GiftCategories {
		if cat.Weight <= 0 {
			return fmt.Errorf("gift category %s: weight must be positive", cat.Name)
		}
		if cat.MinValue <= 0 || cat.MaxValue < cat.MinValue {
			return fmt.Errorf("gift category %s: invalid value range [%d,%d]", cat.Name, cat.MinValue, cat.MaxValue)
		}
	}
	return nil
}
