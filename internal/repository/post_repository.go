package repository

import (
	"database/sql"
	"fmt"
	"trendscope/internal/model"

	sq "github.com/Masterminds/squirrel"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// UpsertPosts writes the batch in one transaction and returns a
// platform_post_id -> row id map for the metric upload that follows.
func (r *PostRepository) UpsertPosts(posts []model.Post) (map[string]string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	idMap := make(map[string]string, len(posts))
	for _, p := range posts {
		var id string
		err := tx.QueryRow(`
			INSERT INTO posts(org_id, platform, platform_post_id, created_time, caption, permalink, media_type)
			VALUES($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (platform, platform_post_id) DO UPDATE
			SET created_time = EXCLUDED.created_time,
				caption = EXCLUDED.caption,
				permalink = EXCLUDED.permalink,
				media_type = EXCLUDED.media_type
			RETURNING id
		`, p.OrgID, p.Platform, p.PlatformPostID, p.CreatedTime, p.Caption, p.Permalink, p.MediaType).Scan(&id)
		if err != nil {
			return nil, err
		}
		idMap[p.PlatformPostID] = id
	}

	return idMap, tx.Commit()
}

// Search finds an org's posts by caption substring, with an optional platform
// filter. The query is composed dynamically since both filters are optional.
func (r *PostRepository) Search(orgID, query, platform string, limit int) ([]model.Post, error) {
	q := sq.Select("id", "platform", "platform_post_id", "created_time", "caption", "permalink", "media_type").
		From("posts").
		Where(sq.Eq{"org_id": orgID}).
		PlaceholderFormat(sq.Dollar).
		Limit(uint64(limit))

	if query != "" {
		q = q.Where(sq.ILike{"caption": fmt.Sprintf("%%%s%%", query)})
	}
	if platform != "" && platform != "all" {
		q = q.Where(sq.Eq{"platform": platform})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows, orgID)
}

func (r *PostRepository) ListByOrg(orgID string, limit int) ([]model.Post, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, platform_post_id, created_time, caption, permalink, media_type
		FROM posts
		WHERE org_id = $1
		ORDER BY created_time DESC NULLS LAST
		LIMIT $2
	`, orgID, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows, orgID)
}

func (r *PostRepository) GetByID(id, orgID string) (*model.Post, error) {
	var p model.Post
	p.OrgID = orgID
	err := r.db.QueryRow(`
		SELECT id, platform, platform_post_id, created_time, caption, permalink, media_type
		FROM posts
		WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&p.ID, &p.Platform, &p.PlatformPostID, &p.CreatedTime, &p.Caption, &p.Permalink, &p.MediaType)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PostRepository) Total() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM posts
	`).Scan(&total)
	return total, err
}

func scanPosts(rows *sql.Rows, orgID string) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		var p model.Post
		p.OrgID = orgID
		err := rows.Scan(&p.ID, &p.Platform, &p.PlatformPostID, &p.CreatedTime, &p.Caption, &p.Permalink, &p.MediaType)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
