package repository

import (
	"database/sql"
	"trendscope/internal/model"

	"github.com/lib/pq"
)

type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) UpsertMetrics(metrics []model.DailyMetric) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range metrics {
		_, err := tx.Exec(`
			INSERT INTO post_metrics_daily(post_id, date, views, likes, comments, shares, saves)
			VALUES($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (post_id, date) DO UPDATE
			SET views = EXCLUDED.views,
				likes = EXCLUDED.likes,
				comments = EXCLUDED.comments,
				shares = EXCLUDED.shares,
				saves = EXCLUDED.saves
		`, m.PostID, m.Date, m.Views, m.Likes, m.Comments, m.Shares, m.Saves)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LatestByPostIDs fetches the newest metric row per post in one query instead
// of a point lookup per post.
func (r *MetricRepository) LatestByPostIDs(postIDs []string) (map[string]model.DailyMetric, error) {
	if len(postIDs) == 0 {
		return map[string]model.DailyMetric{}, nil
	}

	rows, err := r.db.Query(`
		SELECT DISTINCT ON (post_id) post_id, date, views, likes, comments, shares, saves
		FROM post_metrics_daily
		WHERE post_id = ANY($1)
		ORDER BY post_id, date DESC
	`, pq.Array(postIDs))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]model.DailyMetric)
	for rows.Next() {
		var m model.DailyMetric
		err := rows.Scan(&m.PostID, &m.Date, &m.Views, &m.Likes, &m.Comments, &m.Shares, &m.Saves)
		if err != nil {
			return nil, err
		}
		result[m.PostID] = m
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *MetricRepository) LatestByPostID(postID string) (*model.DailyMetric, error) {
	var m model.DailyMetric
	err := r.db.QueryRow(`
		SELECT post_id, date, views, likes, comments, shares, saves
		FROM post_metrics_daily
		WHERE post_id = $1
		ORDER BY date DESC
		LIMIT 1
	`, postID).Scan(&m.PostID, &m.Date, &m.Views, &m.Likes, &m.Comments, &m.Shares, &m.Saves)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &m, nil
}
