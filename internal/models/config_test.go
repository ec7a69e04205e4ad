package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DailyOrderMin:       50,
		DailyOrderMax:       200,
		WeekdayMultiplier:   1.5,
		WeekendMultiplier:   0.6,
		RushProbability:     0.15,
		MinActiveOrders:     25,
		NewOrderProbability: 0.3,
		GiftCategories: []GiftCategory{
			{Name: "flowers", Weight: 0.6, MinValue: 2500, MaxValue: 12000},
			{Name: "keepsake", Weight: 0.4, MinValue: 1500, MaxValue: 8000},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted daily range", func(c *Config) { c.DailyOrderMin = 200; c.DailyOrderMax = 50 }},
		{"zero daily minimum", func(c *Config) { c.DailyOrderMin = 0 }},
		{"zero weekday multiplier", func(c *Config) { c.WeekdayMultiplier = 0 }},
		{"rush probability above one", func(c *Config) { c.RushProbability = 1.5 }},
		{"negative rush probability", func(c *Config) { c.RushProbability = -0.1 }},
		{"new order probability above one", func(c *Config) { c.NewOrderProbability = 1.01 }},
		{"negative new order probability", func(c *Config) { c.NewOrderProbability = -0.3 }},
		{"negative active order floor", func(c *Config) { c.MinActiveOrders = -1 }},
		{"no gift categories", func(c *Config) { c.GiftCategories = nil }},
		{"zero-weight category", func(c *Config) { c.GiftCategories[0].Weight = 0 }},
		{"inverted category values", func(c *Config) {
			c.GiftCategories[0].MinValue = 9000
			c.GiftCategories[0].MaxValue = 100
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidateAllowsZeroFloor(t *testing.T) {
	cfg := validConfig()
	cfg.MinActiveOrders = 0
	cfg.NewOrderProbability = 0
	assert.NoError(t, cfg.Validate())
}
