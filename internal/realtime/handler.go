package realtime

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/mushxhid/Accounting-sub000/internal/auth"
)

// UpgradeGuard authenticates the upgrade request. Browsers cannot set an
// Authorization header on a WebSocket dial, so the token rides a query
// parameter.
func UpgradeGuard(secret []byte, gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := auth.ParseToken(secret, c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		if !gate.Allowed(claims.Email) {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}

		c.Locals("org_id", claims.OrgID)
		return c.Next()
	}
}

// Handler joins the caller to their org's room. The connection is torn down
// on disconnect, which stops stale updates from being delivered.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		orgID, _ := conn.Locals("org_id").(string)
		if orgID == "" {
			conn.Close()
			return
		}

		client := newClient(hub, conn, orgID)
		hub.register <- client

		go client.writePump()
		client.readPump()
	})
}
