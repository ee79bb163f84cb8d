package repository

import (
	"database/sql"
	"encoding/json"
	"trendscope/internal/model"
)

type SavedRepository struct {
	db *sql.DB
}

func NewSavedRepository(db *sql.DB) *SavedRepository {
	return &SavedRepository{db: db}
}

func (r *SavedRepository) Save(s *model.SavedInspiration) error {
	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO saved_inspiration(org_id, platform, permalink, tags_json)
		VALUES($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.OrgID, s.Platform, s.Permalink, tags).Scan(&s.ID, &s.CreatedAt)
}

func (r *SavedRepository) ListByOrg(orgID string) ([]model.SavedInspiration, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, permalink, tags_json, created_at
		FROM saved_inspiration
		WHERE org_id = $1
		ORDER BY created_at DESC
	`, orgID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.SavedInspiration
	for rows.Next() {
		var s model.SavedInspiration
		var tags []byte
		err := rows.Scan(&s.ID, &s.Platform, &s.Permalink, &tags, &s.CreatedAt)
		if err != nil {
			return nil, err
		}

		s.OrgID = orgID
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &s.Tags); err != nil {
				return nil, err
			}
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Delete removes one saved item, scoped to the org so one tenant can never
// delete another's rows. Returns whether a row was actually removed.
func (r *SavedRepository) Delete(id, orgID string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM saved_inspiration WHERE id = $1 AND org_id = $2
	`, id, orgID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
