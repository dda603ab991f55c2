// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"swing-analyzer/internal/errors"
	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Bars table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		date DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, date)
	);

	-- Analysis snapshots: one row per engine run, result stored as JSON
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		method TEXT NOT NULL,
		current_price REAL NOT NULL,
		verdict TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Sync status table
	CREATE TABLE IF NOT EXISTS sync_status (
		symbol TEXT PRIMARY KEY,
		last_sync DATETIME NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_bars_symbol_timeframe ON bars(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_bars_date ON bars(date);
	CREATE INDEX IF NOT EXISTS idx_analyses_symbol ON analyses(symbol);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBars upserts a series for one symbol and timeframe.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, timeframe models.Timeframe, bars models.PriceSeries) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (symbol, timeframe, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.NewDatabaseError("prepare insert", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx, symbol, string(timeframe), b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			return errors.NewDatabaseError("insert bar", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("commit transaction", err)
	}

	return nil
}

// GetBars retrieves bars from the cache, ascending by date.
func (s *SQLiteStore) GetBars(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) (models.PriceSeries, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND timeframe = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, symbol, string(timeframe), from, to)
	if err != nil {
		return nil, errors.NewDatabaseError("query bars", err)
	}
	defer rows.Close()

	var series models.PriceSeries
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, errors.NewDatabaseError("scan bar", err)
		}
		series = append(series, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("iterate bars", err)
	}

	return series, nil
}

// GetBarsFreshness returns the most recent bar date cached for the symbol.
// A zero time means nothing is cached.
func (s *SQLiteStore) GetBarsFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error) {
	// MAX(date) would lose the column's type affinity and come back as text;
	// ordering keeps the driver's time parsing intact.
	var latest time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT date FROM bars WHERE symbol = ? AND timeframe = ? ORDER BY date DESC LIMIT 1
	`, symbol, string(timeframe)).Scan(&latest)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.NewDatabaseError("query freshness", err)
	}
	return latest, nil
}

// SaveAnalysis stores one engine run for later comparison.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, symbol string, result *levels.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.NewDatabaseError("marshal analysis", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (symbol, method, current_price, verdict, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, symbol, string(result.Method), result.CurrentPrice, string(result.TradeViability.Verdict), string(payload), time.Now().UTC())
	if err != nil {
		return errors.NewDatabaseError("insert analysis", err)
	}

	return nil
}

// GetLatestAnalysis returns the most recent stored analysis for a symbol, or
// ErrDataNotFound when none exists.
func (s *SQLiteStore) GetLatestAnalysis(ctx context.Context, symbol string) (*AnalysisSnapshot, error) {
	snaps, err := s.GetAnalysisHistory(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, errors.ErrDataNotFound
	}
	return &snaps[0], nil
}

// GetAnalysisHistory returns up to limit stored analyses, newest first.
func (s *SQLiteStore) GetAnalysisHistory(ctx context.Context, symbol string, limit int) ([]AnalysisSnapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, result, created_at
		FROM analyses
		WHERE symbol = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("query analyses", err)
	}
	defer rows.Close()

	var snaps []AnalysisSnapshot
	for rows.Next() {
		var snap AnalysisSnapshot
		var payload string
		if err := rows.Scan(&snap.Symbol, &payload, &snap.CreatedAt); err != nil {
			return nil, errors.NewDatabaseError("scan analysis", err)
		}
		if err := json.Unmarshal([]byte(payload), &snap.Result); err != nil {
			return nil, errors.NewDatabaseError("unmarshal analysis", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("iterate analyses", err)
	}

	return snaps, nil
}

// GetLastSync returns the last recorded sync time for a symbol.
func (s *SQLiteStore) GetLastSync(symbol string) time.Time {
	s.mu.RLock()
	if t, ok := s.syncTimes[symbol]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	var raw sql.NullTime
	err := s.db.QueryRow(`SELECT last_sync FROM sync_status WHERE symbol = ?`, symbol).Scan(&raw)
	if err != nil || !raw.Valid {
		return time.Time{}
	}

	s.mu.Lock()
	s.syncTimes[symbol] = raw.Time
	s.mu.Unlock()
	return raw.Time
}

// SetLastSync records a sync time for a symbol.
func (s *SQLiteStore) SetLastSync(symbol string, t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_status (symbol, last_sync, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET last_sync = excluded.last_sync, updated_at = CURRENT_TIMESTAMP
	`, symbol, t)
	if err != nil {
		return errors.NewDatabaseError("record sync", err)
	}

	s.mu.Lock()
	s.syncTimes[symbol] = t
	s.mu.Unlock()
	return nil
}
