package levels

import (
	"time"

	"swing-analyzer/internal/models"
)

var testEpoch = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// flatBar builds a zero-range bar at the given price.
func flatBar(day int, price float64) models.PriceBar {
	return models.PriceBar{
		Date:   testEpoch.AddDate(0, 0, day),
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: 1_000_000,
	}
}

// bar builds a coherent OHLC bar.
func bar(day int, open, high, low, close float64) models.PriceBar {
	return models.PriceBar{
		Date:   testEpoch.AddDate(0, 0, day),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1_000_000,
	}
}

// twoBandSeries oscillates between flat bars at lowBand and highBand. Three
// of every four transitions switch bands, one repeats, which keeps the
// average true range at roughly three quarters of the band distance. The
// final bar closes at lastClose with its high at highBand.
func twoBandSeries(n int, lowBand, highBand, lastClose float64) models.PriceSeries {
	// Pattern of band picks per position, repeating every 8 bars: six
	// switches, two stays.
	pattern := []bool{false, true, false, true, false, true, false, false}

	series := make(models.PriceSeries, 0, n)
	for i := 0; i < n-1; i++ {
		price := lowBand
		if pattern[i%len(pattern)] {
			price = highBand
		}
		series = append(series, flatBar(i, price))
	}
	series = append(series, bar(n-1, highBand, highBand, lastClose, lastClose))
	return series
}

// swingSeries rises and falls between lo and hi in legs of legLen bars,
// producing confirmable zig-zag pivots when (hi-lo)/hi exceeds the zig-zag
// delta. It ends mid-leg so pivots exist on both sides of the last close.
func swingSeries(cycles, legLen int, lo, hi float64) models.PriceSeries {
	var series models.PriceSeries
	day := 0
	step := (hi - lo) / float64(legLen)

	for c := 0; c < cycles; c++ {
		for i := 0; i < legLen; i++ {
			p := lo + step*float64(i)
			series = append(series, bar(day, p, p+step/2, p-step/2, p+step/4))
			day++
		}
		for i := 0; i < legLen; i++ {
			p := hi - step*float64(i)
			series = append(series, bar(day, p, p+step/2, p-step/2, p-step/4))
			day++
		}
	}
	// End mid-leg, between the swing extremes.
	half := legLen / 2
	for i := 0; i < half; i++ {
		p := lo + step*float64(i)
		series = append(series, bar(day, p, p+step/2, p-step/2, p+step/4))
		day++
	}
	return series
}
