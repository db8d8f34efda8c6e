// Package pricing computes reservation totals. Two strategies exist:
// standard (nights x nightly rate) and a tiered discount for longer stays.
// The factory picks the discount strategy for stays of three days or more.
package pricing

import (
	"math"
	"time"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// Discount tiers: stays of at least thresholdDays get baseDiscount percent
// off plus additionalDiscount percent per extra day, capped at maxDiscount.
const (
	thresholdDays      = 3
	baseDiscount       = 10
	additionalDiscount = 5
	maxDiscount        = 25
)

// Strategy calculates the total price for a stay in a given room.
type Strategy interface {
	Calculate(room model.Room, checkIn, checkOut time.Time) float64
	Name() string
}

// BillableDays returns the number of days charged for a stay. Same-day
// (or inverted) check-in/check-out is billed as one day.
func BillableDays(checkIn, checkOut time.Time) int64 {
	days := int64(checkOut.Sub(checkIn).Hours() / 24)
	if days <= 0 {
		return 1
	}
	return days
}

// Standard charges the nightly rate for every billable day.
type Standard struct{}

func (Standard) Name() string { return "Standard" }

func (Standard) Calculate(room model.Room, checkIn, checkOut time.Time) float64 {
	return float64(BillableDays(checkIn, checkOut)) * room.Price
}

// Discount applies the tiered long-stay discount on top of the standard
// price. Amounts are rounded half-up to two decimals.
type Discount struct{}

func (Discount) Name() string { return "Discount" }

func (Discount) Calculate(room model.Room, checkIn, checkOut time.Time) float64 {
	days := BillableDays(checkIn, checkOut)
	base := float64(days) * room.Price
	if days < thresholdDays {
		return base
	}
	percent := baseDiscount + int(days-thresholdDays)*additionalDiscount
	if percent > maxDiscount {
		percent = maxDiscount
	}
	discount := round2(base * float64(percent) / 100)
	return base - discount
}

// ForStay selects the strategy for a stay: discount for three or more
// billable days, standard otherwise.
func ForStay(checkIn, checkOut time.Time) Strategy {
	if days := int64(checkOut.Sub(checkIn).Hours() / 24); days >= thresholdDays {
		return Discount{}
	}
	return Standard{}
}

// ByName returns the named strategy, defaulting to standard.
func ByName(name string) Strategy {
	if name == (Discount{}).Name() {
		return Discount{}
	}
	return Standard{}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
