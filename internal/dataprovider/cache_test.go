package dataprovider

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	apperrors "swing-analyzer/internal/errors"
	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/models"
	"swing-analyzer/internal/store"
)

// fakeStore is an in-memory DataStore for exercising the cache provider's
// freshness logic without touching SQLite.
type fakeStore struct {
	bars     models.PriceSeries
	lastSync time.Time
	saved    models.PriceSeries
	syncSet  time.Time
}

func (f *fakeStore) SaveBars(ctx context.Context, symbol string, tf models.Timeframe, bars models.PriceSeries) error {
	f.saved = bars
	return nil
}

func (f *fakeStore) GetBars(ctx context.Context, symbol string, tf models.Timeframe, from, to time.Time) (models.PriceSeries, error) {
	return f.bars, nil
}

func (f *fakeStore) GetBarsFreshness(ctx context.Context, symbol string, tf models.Timeframe) (time.Time, error) {
	if len(f.bars) == 0 {
		return time.Time{}, nil
	}
	return f.bars.Last().Date, nil
}

func (f *fakeStore) SaveAnalysis(ctx context.Context, symbol string, result *levels.Result) error {
	return nil
}

func (f *fakeStore) GetLatestAnalysis(ctx context.Context, symbol string) (*store.AnalysisSnapshot, error) {
	return nil, apperrors.ErrDataNotFound
}

func (f *fakeStore) GetAnalysisHistory(ctx context.Context, symbol string, limit int) ([]store.AnalysisSnapshot, error) {
	return nil, nil
}

func (f *fakeStore) GetLastSync(symbol string) time.Time { return f.lastSync }

func (f *fakeStore) SetLastSync(symbol string, t time.Time) error {
	f.syncSet = t
	return nil
}

func (f *fakeStore) Close() error { return nil }

func cachedBars(lastDate time.Time) models.PriceSeries {
	return models.PriceSeries{
		{Date: lastDate.AddDate(0, 0, -1), Open: 100, High: 102, Low: 99, Close: 101, Volume: 1000},
		{Date: lastDate, Open: 101, High: 103, Low: 100, Close: 102, Volume: 1100},
	}
}

func TestCacheProviderServesFreshBars(t *testing.T) {
	now := time.Now().UTC()
	fs := &fakeStore{bars: cachedBars(now.AddDate(0, 0, -1)), lastSync: now.Add(-1 * time.Hour)}
	p := NewCacheProvider(fs, 24*time.Hour)

	series, err := p.GetDaily(context.Background(), "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("got %d bars from a fresh cache, want 2", series.Len())
	}
}

func TestCacheProviderDeclinesWhenStale(t *testing.T) {
	now := time.Now().UTC()
	fs := &fakeStore{bars: cachedBars(now.AddDate(0, 0, -3)), lastSync: now.Add(-48 * time.Hour)}
	p := NewCacheProvider(fs, 24*time.Hour)

	series, err := p.GetDaily(context.Background(), "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if series.Len() != 0 {
		t.Errorf("stale cache served %d bars, want a decline", series.Len())
	}
}

func TestCacheProviderStaleCacheFallsThroughToNextProvider(t *testing.T) {
	now := time.Now().UTC()
	fs := &fakeStore{bars: cachedBars(now.AddDate(0, 0, -3)), lastSync: now.Add(-48 * time.Hour)}
	cache := NewCacheProvider(fs, 24*time.Hour)
	source := &stubProvider{name: "csv", series: models.PriceSeries{{Close: 100}}}

	chain := NewFallbackChain(zerolog.Nop(), cache, source)
	chain.retry = fastRetry()

	series, err := chain.GetDaily(context.Background(), "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if series.Len() != 1 || source.calls == 0 {
		t.Errorf("chain did not fall through past the stale cache (bars=%d, source calls=%d)", series.Len(), source.calls)
	}
}

func TestCacheProviderUsesBarDatesWhenNeverSynced(t *testing.T) {
	now := time.Now().UTC()
	fs := &fakeStore{bars: cachedBars(now.Add(-2 * time.Hour))}
	p := NewCacheProvider(fs, 24*time.Hour)

	series, err := p.GetDaily(context.Background(), "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("got %d bars, want 2 via bar-date freshness", series.Len())
	}
}

func TestCacheProviderWarmRecordsSync(t *testing.T) {
	fs := &fakeStore{}
	p := NewCacheProvider(fs, 24*time.Hour)

	daily := cachedBars(time.Now().UTC())
	if err := p.Warm(context.Background(), "ACME", daily); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if len(fs.saved) != 2 {
		t.Errorf("saved %d bars, want 2", len(fs.saved))
	}
	if fs.syncSet.IsZero() {
		t.Error("Warm did not record a sync time")
	}
}
