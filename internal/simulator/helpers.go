package simulator

import (
	"math"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/lucsky/cuid"
)

func generateID() string {
	return cuid.New()
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// dailyOrderCount draws a base volume from the configured range and
// applies the weekday or weekend multiplier for the given date.
func dailyOrderCount(cfg *models.Config, day time.Time, rng Rand) int {
	base := cfg.DailyOrderMin + rng.Intn(cfg.DailyOrderMax-cfg.DailyOrderMin+1)
	multiplier := cfg.WeekdayMultiplier
	if isWeekend(day) {
		multiplier = cfg.WeekendMultiplier
	}
	return int(math.Round(float64(base) * multiplier))
}

// pickGiftCategory draws from the configured categorical distribution
// using a cumulative weight scan.
func pickGiftCategory(categories []models.GiftCategory, rng Rand) models.GiftCategory {
	total := 0.0
	for _, cat := range categories {
		total += cat.Weight
	}
	draw := rng.Float64() * total
	cumulative := 0.0
	for _, cat := range categories {
		cumulative += cat.Weight
		if draw <= cumulative {
			return cat
		}
	}
	return categories[len(categories)-1]
}

func giftValueFor(cat models.GiftCategory, rng Rand) int {
	return cat.MinValue + rng.Intn(cat.MaxValue-cat.MinValue+1)
}

// estimatedDelivery applies the vendor's SLA, rush or standard, to the
// creation time.
func estimatedDelivery(vendor *models.VendorProfile, createdAt time.Time, rush bool) time.Time {
	days := vendor.SLADays
	if rush {
		days = vendor.RushSLADays
	}
	return createdAt.AddDate(0, 0, days)
}

// randomTimeWithin spreads order creation across the business-ish hours
// of a day instead of clustering at midnight.
func randomTimeWithin(day time.Time, rng Rand) time.Time {
	start := time.Date(day.Year(), day.Month(), day.Day(), 7, 0, 0, 0, day.Location())
	return start.Add(time.Duration(rng.Intn(15*60)) * time.Minute) // 07:00-22:00
}
