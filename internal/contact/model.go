package contact

import "time"

// Contact is referenced by expenses through a weak, nullable contact_id.
// Deleting a contact never cascades; a dangling reference reads as
// "no contact".
type Contact struct {
	ID            string    `db:"id" json:"id"`
	OrgID         string    `db:"org_id" json:"org_id"`
	Name          string    `db:"name" json:"name"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	Description   *string   `db:"description" json:"description,omitempty"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	UpdatedBy     string    `db:"updated_by" json:"updated_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type UpsertContactRequest struct {
	Name          string  `json:"name"`
	AccountNumber string  `json:"account_number"`
	Description   *string `json:"description"`
}
