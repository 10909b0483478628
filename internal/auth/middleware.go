package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string
	Email  string
	OrgID  string
}

// IssueToken signs an HS256 token carrying the identity and its org.
func IssueToken(secret []byte, userID, email, orgID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"org_id":  orgID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates a signed token and extracts its claims.
func ParseToken(secret []byte, raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	out := &Claims{}
	if out.UserID, ok = claims["user_id"].(string); !ok || strings.TrimSpace(out.UserID) == "" {
		return nil, errors.New("user_id missing")
	}
	if out.Email, _ = claims["email"].(string); out.Email == "" {
		return nil, errors.New("email missing")
	}
	if out.OrgID, _ = claims["org_id"].(string); out.OrgID == "" {
		return nil, errors.New("org_id missing")
	}
	return out, nil
}

// Middleware validates Bearer tokens, re-checks the allow-list on every
// request (a revoked identity is cut off immediately, not at token expiry)
// and stashes the identity in locals.
func Middleware(secret []byte, gate *Gate, repo *Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if !gate.Allowed(claims.Email) {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("org_id", claims.OrgID)

		if repo != nil {
			go repo.TouchLastSeen(claims.UserID)
		}

		return c.Next()
	}
}

func OrgIDFromCtx(c *fiber.Ctx) (string, error) {
	if org, ok := c.Locals("org_id").(string); ok && strings.TrimSpace(org) != "" {
		return org, nil
	}
	return "", errors.New("org id missing")
}

func UserFromCtx(c *fiber.Ctx) (id, email string, err error) {
	id, _ = c.Locals("user_id").(string)
	email, _ = c.Locals("email").(string)
	if strings.TrimSpace(id) == "" || strings.TrimSpace(email) == "" {
		return "", "", errors.New("user missing")
	}
	return id, email, nil
}
