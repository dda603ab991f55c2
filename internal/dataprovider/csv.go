package dataprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"swing-analyzer/internal/errors"
	"swing-analyzer/internal/models"
)

// csvDate parses the date column. Exports commonly use either a bare date or
// RFC 3339.
type csvDate struct {
	time.Time
}

func (d *csvDate) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02-01-2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", value)
}

func (d csvDate) MarshalCSV() (string, error) {
	return d.Time.Format("2006-01-02"), nil
}

type csvRow struct {
	Date   csvDate `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// CSVProvider reads daily OHLCV history from <dir>/<SYMBOL>.csv files, the
// format most broker and data-vendor exports produce.
type CSVProvider struct {
	dir string
}

// NewCSVProvider creates a provider rooted at the given directory.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

func (p *CSVProvider) Name() string { return "csv" }

// GetDaily loads and date-filters the symbol's CSV file.
func (p *CSVProvider) GetDaily(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDataError(p.Name(), symbol, "no CSV file", errors.ErrDataNotFound)
		}
		return nil, errors.NewDataError(p.Name(), symbol, "opening CSV file", err)
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewDataError(p.Name(), symbol, "parsing CSV", err)
	}

	series := make(models.PriceSeries, 0, len(rows))
	for _, r := range rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		series = append(series, models.PriceBar{
			Date:   r.Date.Time,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}

// GetWeekly derives weekly bars from the daily file.
func (p *CSVProvider) GetWeekly(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	daily, err := p.GetDaily(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	return daily.ToWeekly(), nil
}
