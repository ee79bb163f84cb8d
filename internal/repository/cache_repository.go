package repository

import (
	"database/sql"
	"encoding/json"
	"trendscope/internal/model"
)

// TrendCacheRepository is the Postgres-backed trend cache. Expiry is enforced
// at read time against the stored expires_at; stale rows are simply
// overwritten by the next write for the same key triple.
type TrendCacheRepository struct {
	db *sql.DB
}

func NewTrendCacheRepository(db *sql.DB) *TrendCacheRepository {
	return &TrendCacheRepository{db: db}
}

func (r *TrendCacheRepository) Get(source, query, timeWindow string) (*model.CacheEntry, error) {
	entry := model.CacheEntry{
		Source:     source,
		Query:      query,
		TimeWindow: timeWindow,
	}

	var payload []byte
	err := r.db.QueryRow(`
		SELECT response_json, expires_at
		FROM trend_search_cache
		WHERE platform = $1 AND query = $2 AND time_window = $3
	`, source, query, timeWindow).Scan(&payload, &entry.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &entry.Results); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *TrendCacheRepository) Put(entry model.CacheEntry) error {
	payload, err := json.Marshal(entry.Results)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO trend_search_cache(platform, query, time_window, response_json, expires_at)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (platform, query, time_window) DO UPDATE
		SET response_json = EXCLUDED.response_json,
			expires_at = EXCLUDED.expires_at
	`, entry.Source, entry.Query, entry.TimeWindow, payload, entry.ExpiresAt)
	return err
}
