// Package models provides domain models for the swing analysis application.
package models

import (
	"time"
)

// Timeframe represents a bar aggregation interval.
type Timeframe string

const (
	TimeframeDaily  Timeframe = "daily"
	TimeframeWeekly Timeframe = "weekly"
)

// PriceBar represents OHLCV data for a single period. Bars are immutable
// once fetched; analysis never mutates them.
type PriceBar struct {
	Date   time.Time `csv:"date" json:"date"`
	Open   float64   `csv:"open" json:"open"`
	High   float64   `csv:"high" json:"high"`
	Low    float64   `csv:"low" json:"low"`
	Close  float64   `csv:"close" json:"close"`
	Volume int64     `csv:"volume" json:"volume"`
}

// IsCoherent reports whether the bar satisfies the OHLC invariants:
// high >= max(open, close), low <= min(open, close), volume >= 0.
func (b PriceBar) IsCoherent() bool {
	if b.High < b.Open || b.High < b.Close {
		return false
	}
	if b.Low > b.Open || b.Low > b.Close {
		return false
	}
	if b.High < b.Low || b.Volume < 0 {
		return false
	}
	return b.Open > 0 && b.Close > 0
}

// Range returns the bar's high-low range.
func (b PriceBar) Range() float64 {
	return b.High - b.Low
}
