package pricing

import (
	"testing"
	"time"

	"github.com/hotelio/hotel-reservation/internal/model"
)

func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestBillableDays(t *testing.T) {
	cases := []struct {
		name     string
		in, out  time.Time
		expected int64
	}{
		{"same day counts as one", day(0), day(0), 1},
		{"inverted range counts as one", day(3), day(1), 1},
		{"one night", day(0), day(1), 1},
		{"week", day(0), day(7), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BillableDays(tc.in, tc.out); got != tc.expected {
				t.Fatalf("BillableDays = %d, want %d", got, tc.expected)
			}
		})
	}
}

func TestStandardCalculate(t *testing.T) {
	room := model.Room{Price: 150}
	if got := (Standard{}).Calculate(room, day(0), day(2)); got != 300 {
		t.Fatalf("two nights at 150 = %v, want 300", got)
	}
	if got := (Standard{}).Calculate(room, day(0), day(0)); got != 150 {
		t.Fatalf("same-day stay = %v, want 150 (one billable day)", got)
	}
}

func TestDiscountTiers(t *testing.T) {
	room := model.Room{Price: 100}
	cases := []struct {
		days     int
		expected float64
	}{
		{3, 270},  // 10% off 300
		{4, 340},  // 15% off 400
		{5, 400},  // 20% off 500
		{6, 450},  // 25% off 600
		{10, 750}, // capped at 25%
	}
	for _, tc := range cases {
		got := (Discount{}).Calculate(room, day(0), day(tc.days))
		if got != tc.expected {
			t.Fatalf("%d days = %v, want %v", tc.days, got, tc.expected)
		}
	}
}

func TestDiscountBelowThresholdChargesFullPrice(t *testing.T) {
	room := model.Room{Price: 100}
	if got := (Discount{}).Calculate(room, day(0), day(2)); got != 200 {
		t.Fatalf("short stay = %v, want 200 with no discount", got)
	}
}

func TestDiscountRounding(t *testing.T) {
	// 3 days at 33.33 = 99.99 base; 10% = 9.999 rounds to 10.00.
	room := model.Room{Price: 33.33}
	got := (Discount{}).Calculate(room, day(0), day(3))
	want := 99.99 - 10.00
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("rounded total = %v, want %v", got, want)
	}
}

func TestForStay(t *testing.T) {
	if _, ok := ForStay(day(0), day(2)).(Standard); !ok {
		t.Fatalf("two-day stay should use the standard strategy")
	}
	if _, ok := ForStay(day(0), day(3)).(Discount); !ok {
		t.Fatalf("three-day stay should use the discount strategy")
	}
}

func TestByName(t *testing.T) {
	if ByName("Discount").Name() != "Discount" {
		t.Fatalf("ByName(Discount) picked the wrong strategy")
	}
	if ByName("nope").Name() != "Standard" {
		t.Fatalf("unknown names should fall back to standard")
	}
}
