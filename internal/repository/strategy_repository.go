package repository

import (
	"database/sql"
	"trendscope/internal/model"

	"github.com/lib/pq"
)

type StrategyRepository struct {
	db *sql.DB
}

func NewStrategyRepository(db *sql.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

func (r *StrategyRepository) GetByPostID(postID string) (*model.Strategy, error) {
	var s model.Strategy
	err := r.db.QueryRow(`
		SELECT post_id, hook_type, cta_type, format_type, pacing_bucket
		FROM post_strategies
		WHERE post_id = $1
	`, postID).Scan(&s.PostID, &s.HookType, &s.CTAType, &s.FormatType, &s.PacingBucket)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *StrategyRepository) ListByPostIDs(postIDs []string) (map[string]model.Strategy, error) {
	if len(postIDs) == 0 {
		return map[string]model.Strategy{}, nil
	}

	rows, err := r.db.Query(`
		SELECT post_id, hook_type, cta_type, format_type, pacing_bucket
		FROM post_strategies
		WHERE post_id = ANY($1)
	`, pq.Array(postIDs))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]model.Strategy)
	for rows.Next() {
		var s model.Strategy
		err := rows.Scan(&s.PostID, &s.HookType, &s.CTAType, &s.FormatType, &s.PacingBucket)
		if err != nil {
			return nil, err
		}
		result[s.PostID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *StrategyRepository) Upsert(s *model.Strategy) error {
	_, err := r.db.Exec(`
		INSERT INTO post_strategies(post_id, hook_type, cta_type, format_type, pacing_bucket)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (post_id) DO UPDATE
		SET hook_type = EXCLUDED.hook_type,
			cta_type = EXCLUDED.cta_type,
			format_type = EXCLUDED.format_type,
			pacing_bucket = EXCLUDED.pacing_bucket
	`, s.PostID, s.HookType, s.CTAType, s.FormatType, s.PacingBucket)
	return err
}
