package repository

import "database/sql"

type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// OrgForUser resolves a signed-in user to their organization. Returns ""
// when the user has no membership.
func (r *MembershipRepository) OrgForUser(userID string) (string, error) {
	var orgID string
	err := r.db.QueryRow(`
		SELECT org_id FROM memberships
		WHERE user_id = $1
		LIMIT 1
	`, userID).Scan(&orgID)

	if err == sql.ErrNoRows {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return orgID, nil
}
