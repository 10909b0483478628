package auth

import "time"

type Admin struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	OrgID        string     `db:"org_id" json:"org_id"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastSeenAt   *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	OrgID string `json:"org_id"`
	Email string `json:"email"`
}
