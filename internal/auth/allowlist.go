package auth

import (
	"strings"

	"github.com/google/uuid"
)

// Gate maps identities to organizations. Allow-listed admin emails all share
// one org so multiple admins can keep the same books; anyone else provisioned
// in the admins table falls back to a private per-identity org.
type Gate struct {
	allowed     map[string]struct{}
	sharedOrgID string
}

func NewGate(adminEmails []string, sharedOrgID string) *Gate {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}
	return &Gate{allowed: allowed, sharedOrgID: sharedOrgID}
}

func (g *Gate) Allowed(email string) bool {
	_, ok := g.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// OrgFor returns the org id an identity belongs to. Deterministic for
// non-allow-listed identities so repeat logins land in the same org.
func (g *Gate) OrgFor(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := g.allowed[email]; ok && g.sharedOrgID != "" {
		return g.sharedOrgID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("org:"+email)).String()
}
