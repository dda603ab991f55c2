package models

import "time"

// PriceSeries is an ordered sequence of PriceBar, ascending by date, with no
// duplicate dates.
type PriceSeries []PriceBar

// Last returns the most recent bar. Callers must check Len first.
func (s PriceSeries) Last() PriceBar {
	return s[len(s)-1]
}

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int {
	return len(s)
}

// CurrentPrice returns the most recent close, or 0 for an empty series.
func (s PriceSeries) CurrentPrice() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// MaxHigh returns the all-time high of the series, or 0 for an empty series.
func (s PriceSeries) MaxHigh() float64 {
	var h float64
	for _, b := range s {
		if b.High > h {
			h = b.High
		}
	}
	return h
}

// MinLow returns the all-time low of the series, or 0 for an empty series.
func (s PriceSeries) MinLow() float64 {
	if len(s) == 0 {
		return 0
	}
	l := s[0].Low
	for _, b := range s[1:] {
		if b.Low < l {
			l = b.Low
		}
	}
	return l
}

// Tail returns the last n bars, or the whole series when it is shorter.
func (s PriceSeries) Tail(n int) PriceSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// ToWeekly resamples a daily series into weekly bars using ISO week
// boundaries. Each weekly bar opens at the week's first bar, closes at the
// last, spans the week's extreme high/low, and sums volume. The weekly bar
// is dated at the week's first trading day.
func (s PriceSeries) ToWeekly() PriceSeries {
	if len(s) == 0 {
		return nil
	}

	var weekly PriceSeries
	var cur PriceBar
	var curYear, curWeek int
	open := false

	for _, b := range s {
		y, w := b.Date.ISOWeek()
		if !open || y != curYear || w != curWeek {
			if open {
				weekly = append(weekly, cur)
			}
			cur = b
			curYear, curWeek = y, w
			open = true
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	weekly = append(weekly, cur)

	return weekly
}

// SortedByDate reports whether the series is strictly ascending by date.
func (s PriceSeries) SortedByDate() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}
	return true
}

// MaxGap returns the largest calendar gap between consecutive bars.
func (s PriceSeries) MaxGap() time.Duration {
	var gap time.Duration
	for i := 1; i < len(s); i++ {
		if d := s[i].Date.Sub(s[i-1].Date); d > gap {
			gap = d
		}
	}
	return gap
}
