package domain

import "time"

// Connection is one provider account linked by a user. Tokens are stored
// encrypted and are only ever decrypted by the credential vault.
type Connection struct {
	ID                    string    `db:"id"`
	OwnerID               string    `db:"owner_id"`
	AccountID             string    `db:"account_id"`
	AccessTokenEncrypted  string    `db:"access_token_enc"`
	RefreshTokenEncrypted string    `db:"refresh_token_enc"`
	TokenExpiresAt        time.Time `db:"token_expires_at"`
	Scopes                string    `db:"scopes"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// PaginationToken maps an opaque handle to the query that fetches the next page.
type PaginationToken struct {
	Token          string    `db:"token" json:"token"`
	OwnerID        string    `db:"owner_id" json:"owner_id"`
	WebinarID      *string   `db:"webinar_id" json:"webinar_id,omitempty"`
	QueryParams    string    `db:"query_params" json:"query_params"`
	ExpiresAt      time.Time `db:"expires_at" json:"expires_at"`
	LastAccessedAt time.Time `db:"last_accessed_at" json:"last_accessed_at"`
}

func (t PaginationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
