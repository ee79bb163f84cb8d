package repository

import (
	"database/sql"
	"time"
	"trendscope/internal/model"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) UpsertAccount(a *model.ConnectedAccount) error {
	return r.db.QueryRow(`
		INSERT INTO connected_accounts(org_id, platform, platform_account_id, display_name)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (platform, platform_account_id) DO UPDATE
		SET org_id = EXCLUDED.org_id
		RETURNING id
	`, a.OrgID, a.Platform, a.PlatformAccountID, a.DisplayName).Scan(&a.ID)
}

func (r *AccountRepository) UpsertToken(accountID, accessTokenEnc string, refreshTokenEnc *string, expiresAt *time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO oauth_tokens(connected_account_id, access_token_enc, refresh_token_enc, expires_at)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (connected_account_id) DO UPDATE
		SET access_token_enc = EXCLUDED.access_token_enc,
			refresh_token_enc = EXCLUDED.refresh_token_enc,
			expires_at = EXCLUDED.expires_at
	`, accountID, accessTokenEnc, refreshTokenEnc, expiresAt)
	return err
}
